package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/employee"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/report"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/export"
	"golang.org/x/sync/errgroup"
)

// Config holds report configuration
type Config struct {
	ShopName string
	Location *time.Location
}

type ReportServiceImpl struct {
	attendanceService attendance.AttendanceService
	employeeService   employee.EmployeeService
	notifier          notification.Service
	config            Config
}

func NewReportService(
	attendanceService attendance.AttendanceService,
	employeeService employee.EmployeeService,
	notifier notification.Service,
	cfg Config,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceService: attendanceService,
		employeeService:   employeeService,
		notifier:          notifier,
		config:            cfg,
	}
}

// DailyStats implements report.ReportService.
func (s *ReportServiceImpl) DailyStats(ctx context.Context, date string) (report.DailyStats, error) {
	if err := report.ValidateDate(date); err != nil {
		return report.DailyStats{}, err
	}

	records, err := s.attendanceService.Query(ctx, attendance.AttendanceFilter{Date: &date})
	if err != nil {
		return report.DailyStats{}, fmt.Errorf("failed to query attendance: %w", err)
	}

	stats := report.DailyStats{Date: date, PresentCount: len(records)}
	for _, r := range records {
		stats.TotalOTPay += r.OTPay
	}
	return stats, nil
}

// MonthlyCost implements report.ReportService. Records of users no longer on the roster
// count their overtime but no basic pay.
func (s *ReportServiceImpl) MonthlyCost(ctx context.Context, month string) (report.MonthlyCost, error) {
	if err := report.ValidateMonth(month); err != nil {
		return report.MonthlyCost{}, err
	}

	records, err := s.attendanceService.Query(ctx, attendance.AttendanceFilter{Month: &month})
	if err != nil {
		return report.MonthlyCost{}, fmt.Errorf("failed to query attendance: %w", err)
	}

	rates, err := s.dailyRates(ctx)
	if err != nil {
		return report.MonthlyCost{}, err
	}

	cost := report.MonthlyCost{Month: month, Records: len(records)}
	for _, r := range records {
		cost.BasicPay += rates[r.UserID]
		cost.OTPay += r.OTPay
	}
	cost.Total = cost.BasicPay + cost.OTPay
	return cost, nil
}

// Payslip implements report.ReportService.
func (s *ReportServiceImpl) Payslip(ctx context.Context, userID, month string) (report.Payslip, error) {
	if err := report.ValidateMonth(month); err != nil {
		return report.Payslip{}, err
	}

	emp, err := s.employeeService.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return report.Payslip{}, report.ErrUnknownUser
		}
		return report.Payslip{}, fmt.Errorf("failed to get employee: %w", err)
	}

	records, err := s.attendanceService.Query(ctx, attendance.AttendanceFilter{UserID: &userID, Month: &month})
	if err != nil {
		return report.Payslip{}, fmt.Errorf("failed to query attendance: %w", err)
	}

	return buildPayslip(emp, month, records), nil
}

// Payslips implements report.ReportService.
func (s *ReportServiceImpl) Payslips(ctx context.Context, month string) ([]report.Payslip, error) {
	if err := report.ValidateMonth(month); err != nil {
		return nil, err
	}

	employees, err := s.employeeService.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	records, err := s.attendanceService.Query(ctx, attendance.AttendanceFilter{Month: &month})
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}

	byUser := make(map[string][]attendance.Attendance)
	for _, r := range records {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	slips := make([]report.Payslip, 0, len(employees))
	for _, e := range employees {
		if e.IsAdmin() {
			continue
		}
		slips = append(slips, buildPayslip(e, month, byUser[e.ID]))
	}
	return slips, nil
}

func buildPayslip(e employee.Employee, month string, records []attendance.Attendance) report.Payslip {
	p := report.Payslip{
		UserID:     e.ID,
		Name:       e.Name,
		Month:      month,
		DaysWorked: len(records),
		DailyPay:   e.DailyPay,
	}
	for _, r := range records {
		p.OTPay += r.OTPay
		p.OTMinutes += r.OTMinutes
		if r.IsLate {
			p.LateDays++
		}
	}
	p.BasicPay = int64(p.DaysWorked) * e.DailyPay
	p.Total = p.BasicPay + p.OTPay
	return p
}

// SendPayslip implements report.ReportService.
func (s *ReportServiceImpl) SendPayslip(ctx context.Context, userID, month string) (report.Payslip, error) {
	p, err := s.Payslip(ctx, userID, month)
	if err != nil {
		return report.Payslip{}, err
	}

	if s.notifier == nil {
		return report.Payslip{}, notification.ErrStopped
	}
	if err := s.notifier.Queue(notification.Message{
		Type: notification.TypePayslip,
		Text: report.PayslipText(p, s.config.ShopName),
	}); err != nil {
		return report.Payslip{}, err
	}

	slog.Info("payslip queued", "user_id", userID, "month", month)
	return p, nil
}

// ExportPayslips implements report.ReportService.
func (s *ReportServiceImpl) ExportPayslips(ctx context.Context, month string, w io.Writer) error {
	slips, err := s.Payslips(ctx, month)
	if err != nil {
		return err
	}
	records, err := s.attendanceService.Query(ctx, attendance.AttendanceFilter{Month: &month})
	if err != nil {
		return fmt.Errorf("failed to query attendance: %w", err)
	}

	summary := export.Sheet{
		Name:   "Payslips",
		Header: []string{"Employee ID", "Name", "Month", "Days Worked", "Late Days", "Daily Pay", "Basic Pay", "OT Minutes", "OT Pay", "Total"},
	}
	var grand int64
	for _, p := range slips {
		summary.Rows = append(summary.Rows, []any{p.UserID, p.Name, p.Month, p.DaysWorked, p.LateDays, p.DailyPay, p.BasicPay, p.OTMinutes, p.OTPay, p.Total})
		grand += p.Total
	}
	summary.Rows = append(summary.Rows, []any{"", "TOTAL", month, "", "", "", "", "", "", grand})

	detail := export.Sheet{
		Name:   "Attendance",
		Header: []string{"Date", "Employee ID", "Name", "Check In", "Check Out", "Late", "OT Minutes", "OT Pay", "Method"},
	}
	for _, r := range records {
		checkOut := ""
		if r.CheckOut != nil {
			checkOut = r.CheckOut.Format("15:04:05")
		}
		late := "NO"
		if r.IsLate {
			late = "YES"
		}
		detail.Rows = append(detail.Rows, []any{r.Date, r.UserID, r.UserName, r.CheckIn.Format("15:04:05"), checkOut, late, r.OTMinutes, r.OTPay, string(r.Method)})
	}

	return export.Write(w, summary, detail)
}

// Dashboard implements report.ReportService.
func (s *ReportServiceImpl) Dashboard(ctx context.Context, now time.Time) (report.Dashboard, error) {
	if s.config.Location != nil {
		now = now.In(s.config.Location)
	}
	today := attendance.BusinessDay(now)
	month := now.Format("2006-01")

	dash := report.Dashboard{Date: today, Month: month}

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Staff on the roster
	g.Go(func() error {
		employees, err := s.employeeService.List(gCtx)
		if err != nil {
			return err
		}
		for _, e := range employees {
			if e.Role == employee.RoleEmployee {
				dash.TotalEmployees++
			}
		}
		return nil
	})

	// 2. Today
	g.Go(func() error {
		stats, err := s.DailyStats(gCtx, today)
		if err != nil {
			return err
		}
		dash.PresentToday = stats.PresentCount
		dash.OTToday = stats.TotalOTPay
		return nil
	})

	// 3. Month to date
	g.Go(func() error {
		cost, err := s.MonthlyCost(gCtx, month)
		if err != nil {
			return err
		}
		dash.MonthlyCost = cost.Total
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.Dashboard{}, err
	}
	return dash, nil
}

// History implements report.ReportService.
func (s *ReportServiceImpl) History(ctx context.Context, userID string) (report.History, error) {
	emp, err := s.employeeService.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return report.History{}, report.ErrUnknownUser
		}
		return report.History{}, fmt.Errorf("failed to get employee: %w", err)
	}

	records, err := s.attendanceService.Query(ctx, attendance.AttendanceFilter{UserID: &userID})
	if err != nil {
		return report.History{}, fmt.Errorf("failed to query attendance: %w", err)
	}

	h := report.History{
		UserID:     userID,
		DaysWorked: len(records),
		Records:    make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, r := range slices.Backward(records) {
		h.OTPay += r.OTPay
		h.Records = append(h.Records, attendance.ToResponse(r))
	}
	h.EstimatedEarnings = int64(h.DaysWorked)*emp.DailyPay + h.OTPay
	return h, nil
}

func (s *ReportServiceImpl) dailyRates(ctx context.Context) (map[string]int64, error) {
	employees, err := s.employeeService.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	rates := make(map[string]int64, len(employees))
	for _, e := range employees {
		rates[e.ID] = e.DailyPay
	}
	return rates, nil
}
