package report

import (
	"context"
	"io"
	"time"
)

// ReportService aggregates the ledger against the roster. It holds no state of its own.
type ReportService interface {
	DailyStats(ctx context.Context, date string) (DailyStats, error)
	MonthlyCost(ctx context.Context, month string) (MonthlyCost, error)

	// Payslip fails with ErrUnknownUser for users not on the roster
	Payslip(ctx context.Context, userID, month string) (Payslip, error)
	Payslips(ctx context.Context, month string) ([]Payslip, error)

	// SendPayslip queues the rendered slip for the owner
	SendPayslip(ctx context.Context, userID, month string) (Payslip, error)

	// ExportPayslips writes an xlsx workbook with one row per employee
	ExportPayslips(ctx context.Context, month string, w io.Writer) error

	Dashboard(ctx context.Context, now time.Time) (Dashboard, error)
	History(ctx context.Context, userID string) (History, error)
}
