package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/report"
	"github.com/senani-kuruwita/attendance-backend/internal/handler/http/middleware"
	"github.com/senani-kuruwita/attendance-backend/internal/handler/http/response"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/qrcode"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	CurrentQR(w http.ResponseWriter, r *http.Request)
}

// QRSource produces the code shown at the shop entrance
type QRSource interface {
	Current(now time.Time) (qrcode.Code, error)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	reportService     report.ReportService
	qr                QRSource
	now               func() time.Time
}

// NewAttendanceHandler creates the attendance handler. qr may be nil when QR check-in is off.
func NewAttendanceHandler(attendanceService attendance.AttendanceService, reportService report.ReportService, qr QRSource) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
		qr:                qr,
		now:               time.Now,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest

	// An empty body is a manual check-in
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	userID := middleware.UserID(r)
	now := h.now()

	var (
		result attendance.Attendance
		err    error
	)
	switch req.Method {
	case attendance.MethodGPS:
		result, err = h.attendanceService.CheckInWithGPS(r.Context(), userID, now, geo.StaticProvider{Reading: req.Reading()})
	case attendance.MethodQR:
		result, err = h.attendanceService.CheckInWithQR(r.Context(), userID, now, req.Code)
	default:
		result, err = h.attendanceService.CheckIn(r.Context(), userID, now, nil)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", attendance.ToResponse(result))
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.CheckOut(r.Context(), middleware.UserID(r), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", attendance.ToResponse(result))
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Today(r.Context(), middleware.UserID(r), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.History(r.Context(), middleware.UserID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter attendance.AttendanceFilter
	for key, dst := range map[string]**string{
		"user_id": &filter.UserID,
		"date":    &filter.Date,
		"from":    &filter.From,
		"to":      &filter.To,
		"month":   &filter.Month,
	} {
		if v := query.Get(key); v != "" {
			*dst = &v
		}
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.Query(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]attendance.AttendanceResponse, 0, len(records))
	for _, a := range records {
		result = append(result, attendance.ToResponse(a))
	}
	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result)})
}

// CurrentQR implements AttendanceHandler.
func (h *attendanceHandlerImpl) CurrentQR(w http.ResponseWriter, r *http.Request) {
	if h.qr == nil {
		response.HandleError(w, attendance.ErrQRDisabled)
		return
	}

	code, err := h.qr.Current(h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, code)
}
