package attendance

import (
	"context"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
)

// AttendanceService is the attendance ledger.
type AttendanceService interface {
	// CheckIn files a record for the business day of at. A non-nil location must be inside
	// the geofence and makes it a GPS record.
	CheckIn(ctx context.Context, userID string, at time.Time, location *geo.Point) (Attendance, error)

	// CheckInWithGPS acquires a location fix and checks in only inside the geofence
	CheckInWithGPS(ctx context.Context, userID string, at time.Time, provider geo.Provider) (Attendance, error)

	// CheckInWithQR checks in with the code shown at the shop entrance
	CheckInWithQR(ctx context.Context, userID string, at time.Time, code string) (Attendance, error)

	// CheckOut closes the open record and computes overtime
	CheckOut(ctx context.Context, userID string, at time.Time) (Attendance, error)

	// Query returns matching records in insertion order
	Query(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)

	// Today returns the user's status for the business day of now
	Today(ctx context.Context, userID string, now time.Time) (TodayResponse, error)

	// Close flushes the ledger snapshot
	Close(ctx context.Context) error
}
