package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/report"
	"github.com/senani-kuruwita/attendance-backend/internal/handler/http/response"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/export"
)

type ReportHandler interface {
	Dashboard(w http.ResponseWriter, r *http.Request)
	Daily(w http.ResponseWriter, r *http.Request)
	MonthlyCost(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	SendPayslip(w http.ResponseWriter, r *http.Request)
	ExportPayslips(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	location      *time.Location
	now           func() time.Time
}

// NewReportHandler creates the report handler. Missing date and month parameters
// default to the current business day in loc.
func NewReportHandler(reportService report.ReportService, loc *time.Location) ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &reportHandlerImpl{
		reportService: reportService,
		location:      loc,
		now:           time.Now,
	}
}

func (h *reportHandlerImpl) date(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return h.now().In(h.location).Format(attendance.DateLayout)
}

func (h *reportHandlerImpl) month(r *http.Request) string {
	if m := r.URL.Query().Get("month"); m != "" {
		return m
	}
	return h.now().In(h.location).Format("2006-01")
}

// Dashboard implements ReportHandler.
func (h *reportHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Dashboard(r.Context(), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Daily implements ReportHandler.
func (h *reportHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DailyStats(r.Context(), h.date(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MonthlyCost implements ReportHandler.
func (h *reportHandlerImpl) MonthlyCost(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.MonthlyCost(r.Context(), h.month(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPayslips implements ReportHandler.
func (h *reportHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Payslips(r.Context(), h.month(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result)})
}

// GetPayslip implements ReportHandler.
func (h *reportHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Payslip(r.Context(), chi.URLParam(r, "userID"), h.month(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SendPayslip implements ReportHandler.
func (h *reportHandlerImpl) SendPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.SendPayslip(r.Context(), chi.URLParam(r, "userID"), h.month(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip queued for delivery", result)
}

// ExportPayslips implements ReportHandler.
func (h *reportHandlerImpl) ExportPayslips(w http.ResponseWriter, r *http.Request) {
	month := h.month(r)

	// Buffer so a failed export still gets a JSON error
	var buf bytes.Buffer
	if err := h.reportService.ExportPayslips(r.Context(), month, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"payslips-%s.xlsx\"", month))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("ExportPayslips write error", "error", err)
	}
}
