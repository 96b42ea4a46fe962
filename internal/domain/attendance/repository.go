package attendance

import "context"

// AttendanceRepository persists the ledger as one ordered snapshot.
type AttendanceRepository interface {
	// Load returns all records in insertion order, kvstore.ErrNotFound when nothing
	// was ever saved and kvstore.ErrCorruptSnapshot when the stored data is malformed.
	Load(ctx context.Context) ([]Attendance, error)

	// Save replaces the stored ledger.
	Save(ctx context.Context, records []Attendance) error
}
