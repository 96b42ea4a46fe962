package attendance

import (
	"strings"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	Method    Method   `json:"method"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	Code      string   `json:"code"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Method == "" {
		r.Method = MethodManual
	}
	r.Method = Method(strings.ToUpper(string(r.Method)))

	if !r.Method.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be MANUAL, GPS or QR",
		})
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be sent together",
		})
	}

	if r.Method != MethodGPS && (r.Latitude != nil || r.Longitude != nil || r.Accuracy != nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is only accepted for GPS check-in",
		})
	}

	if r.Method == MethodQR && validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required for QR check-in",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Reading returns the device location carried by the request, if any.
func (r *CheckInRequest) Reading() *geo.Reading {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	reading := &geo.Reading{Point: geo.Point{Latitude: *r.Latitude, Longitude: *r.Longitude}}
	if r.Accuracy != nil {
		reading.AccuracyMeters = *r.Accuracy
	}
	return reading
}

type AttendanceFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Date   *string `json:"date,omitempty"`
	From   *string `json:"from,omitempty"`
	To     *string `json:"to,omitempty"`
	Month  *string `json:"month,omitempty"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	dates := []struct {
		field string
		value *string
	}{
		{"date", f.Date},
		{"from", f.From},
		{"to", f.To},
	}
	for _, d := range dates {
		if d.value != nil && *d.value != "" {
			if _, ok := validator.IsValidDate(*d.value); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   d.field,
					Message: "must be YYYY-MM-DD",
				})
			}
		}
	}

	if f.Month != nil && *f.Month != "" {
		if _, ok := validator.IsValidMonth(*f.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "must be YYYY-MM",
			})
		}
	}

	if f.From != nil && f.To != nil && *f.From != "" && *f.To != "" && *f.From > *f.To {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Matches reports whether a record passes the filter. Dates compare lexically,
// which is chronological for YYYY-MM-DD.
func (f *AttendanceFilter) Matches(a Attendance) bool {
	if f.UserID != nil && *f.UserID != "" && a.UserID != *f.UserID {
		return false
	}
	if f.Date != nil && *f.Date != "" && a.Date != *f.Date {
		return false
	}
	if f.From != nil && *f.From != "" && a.Date < *f.From {
		return false
	}
	if f.To != nil && *f.To != "" && a.Date > *f.To {
		return false
	}
	if f.Month != nil && *f.Month != "" && !strings.HasPrefix(a.Date, *f.Month+"-") {
		return false
	}
	return true
}

type AttendanceResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	Date      string     `json:"date"`
	CheckIn   string     `json:"check_in"`
	CheckOut  *string    `json:"check_out"`
	IsLate    bool       `json:"is_late"`
	OTMinutes int        `json:"ot_minutes"`
	OTPay     int64      `json:"ot_pay"`
	Location  *geo.Point `json:"location,omitempty"`
	Method    Method     `json:"method,omitempty"`
	Status    Status     `json:"status"`
}

func ToResponse(a Attendance) AttendanceResponse {
	var checkOut *string
	if a.CheckOut != nil {
		s := a.CheckOut.Format(time.RFC3339)
		checkOut = &s
	}
	return AttendanceResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		UserName:  a.UserName,
		Date:      a.Date,
		CheckIn:   a.CheckIn.Format(time.RFC3339),
		CheckOut:  checkOut,
		IsLate:    a.IsLate,
		OTMinutes: a.OTMinutes,
		OTPay:     a.OTPay,
		Location:  a.Location,
		Method:    a.Method,
		Status:    a.Status(),
	}
}

type TodayResponse struct {
	Date   string              `json:"date"`
	Status Status              `json:"status"`
	Record *AttendanceResponse `json:"record,omitempty"`
}
