package attendance

import (
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
)

// DateLayout is the business-day encoding.
const DateLayout = "2006-01-02"

// Method is how a check-in was made.
type Method string

const (
	MethodManual Method = "MANUAL"
	MethodGPS    Method = "GPS"
	MethodQR     Method = "QR"
)

func (m Method) Valid() bool {
	return m == MethodManual || m == MethodGPS || m == MethodQR
}

// Status of a user's business day.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusWorking    Status = "WORKING"
	StatusCompleted  Status = "COMPLETED"
)

// BusinessDayPolicy decides which record a check-out closes.
type BusinessDayPolicy string

const (
	// PolicyCalendar closes the record filed under the check-out's own local date.
	PolicyCalendar BusinessDayPolicy = "calendar"
	// PolicyOpenRecord closes the user's latest open record from the check-out's date
	// or the day before, and evaluates overtime on that record's date.
	PolicyOpenRecord BusinessDayPolicy = "open-record"
)

func (p BusinessDayPolicy) Valid() bool {
	return p == PolicyCalendar || p == PolicyOpenRecord
}

// Attendance is one user's record for one business day.
type Attendance struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	Date      string     `json:"date"`
	CheckIn   time.Time  `json:"check_in"`
	CheckOut  *time.Time `json:"check_out,omitempty"`
	IsLate    bool       `json:"is_late"`
	OTMinutes int        `json:"ot_minutes"`
	OTPay     int64      `json:"ot_pay"`
	Location  *geo.Point `json:"location,omitempty"`
	Method    Method     `json:"method,omitempty"`
}

// IsOpen reports whether the record still waits for a check-out.
func (a *Attendance) IsOpen() bool {
	return a.CheckOut == nil
}

// Status derives the day status from the record.
func (a *Attendance) Status() Status {
	if a.IsOpen() {
		return StatusWorking
	}
	return StatusCompleted
}

// BusinessDay is the date a timestamp is filed under: its own local calendar date.
func BusinessDay(t time.Time) string {
	return t.Format(DateLayout)
}
