package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/validator"
)

type attendanceRepositoryImpl struct {
	store Store
}

func NewAttendanceRepository(store Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{store: store}
}

func (r *attendanceRepositoryImpl) Load(ctx context.Context) ([]attendance.Attendance, error) {
	raw, err := r.store.Get(ctx, KeyAttendance)
	if err != nil {
		return nil, err
	}

	var records []attendance.Attendance
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, KeyAttendance, err)
	}

	type dayKey struct{ userID, date string }
	seen := make(map[dayKey]struct{}, len(records))
	for i, a := range records {
		if err := validateRecord(a); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrCorruptSnapshot, KeyAttendance, i, err)
		}
		k := dayKey{a.UserID, a.Date}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %s[%d]: second record for %s on %s", ErrCorruptSnapshot, KeyAttendance, i, a.UserID, a.Date)
		}
		seen[k] = struct{}{}
	}

	return records, nil
}

func (r *attendanceRepositoryImpl) Save(ctx context.Context, records []attendance.Attendance) error {
	if records == nil {
		records = []attendance.Attendance{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode attendance: %w", err)
	}
	return r.store.Put(ctx, KeyAttendance, raw)
}

func validateRecord(a attendance.Attendance) error {
	if validator.IsEmpty(a.ID) || validator.IsEmpty(a.UserID) {
		return fmt.Errorf("missing id or user id")
	}
	if _, ok := validator.IsValidDate(a.Date); !ok {
		return fmt.Errorf("invalid date %q", a.Date)
	}
	if a.CheckIn.IsZero() {
		return fmt.Errorf("missing check-in")
	}
	if a.CheckOut != nil && a.CheckOut.Before(a.CheckIn) {
		return fmt.Errorf("check-out before check-in")
	}
	if a.OTMinutes < 0 || a.OTPay < 0 {
		return fmt.Errorf("negative overtime")
	}
	if a.CheckOut == nil && (a.OTMinutes != 0 || a.OTPay != 0) {
		return fmt.Errorf("overtime on open record")
	}
	if a.Method != "" && !a.Method.Valid() {
		return fmt.Errorf("invalid method %q", a.Method)
	}
	if a.Location != nil {
		if err := a.Location.Validate(); err != nil {
			return err
		}
	}
	return nil
}
