package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/employee"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/geo"
	"github.com/senani-kuruwita/attendance-backend/internal/repository/kvstore"
	"github.com/senani-kuruwita/attendance-backend/internal/service/payroll"
)

// CodeValidator checks an entrance QR code.
type CodeValidator interface {
	Validate(code string, now time.Time) bool
}

// Config holds ledger configuration
type Config struct {
	ShopName   string
	ShopCenter geo.Point
	// Location converts incoming timestamps before the business day is taken. Nil keeps them as given.
	Location *time.Location
	Policy   attendance.BusinessDayPolicy
	// GeoTimeout bounds a location fix. Default 10 seconds.
	GeoTimeout time.Duration
	// MaxAccuracyMeters rejects coarse fixes when positive.
	MaxAccuracyMeters float64
}

type AttendanceServiceImpl struct {
	mu      sync.Mutex
	records []attendance.Attendance

	attendanceRepo  attendance.AttendanceRepository
	employeeService employee.EmployeeService
	calculator      *payroll.Calculator
	notifier        notification.Service
	codes           CodeValidator
	config          Config
}

// NewAttendanceService loads the ledger. An absent snapshot starts an empty ledger; a
// corrupt one is returned so the process refuses to start. notifier and codes may be nil.
func NewAttendanceService(
	ctx context.Context,
	attendanceRepo attendance.AttendanceRepository,
	employeeService employee.EmployeeService,
	calculator *payroll.Calculator,
	notifier notification.Service,
	codes CodeValidator,
	cfg Config,
) (attendance.AttendanceService, error) {
	if cfg.Policy == "" {
		cfg.Policy = attendance.PolicyCalendar
	}
	if !cfg.Policy.Valid() {
		return nil, fmt.Errorf("unknown business day policy %q", cfg.Policy)
	}
	if cfg.GeoTimeout <= 0 {
		cfg.GeoTimeout = 10 * time.Second
	}

	records, err := attendanceRepo.Load(ctx)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, fmt.Errorf("failed to load attendance ledger: %w", err)
	}

	slog.Info("attendance ledger loaded", "records", len(records), "policy", cfg.Policy)

	return &AttendanceServiceImpl{
		records:         records,
		attendanceRepo:  attendanceRepo,
		employeeService: employeeService,
		calculator:      calculator,
		notifier:        notifier,
		codes:           codes,
		config:          cfg,
	}, nil
}

func (s *AttendanceServiceImpl) local(t time.Time) time.Time {
	if s.config.Location != nil {
		return t.In(s.config.Location)
	}
	return t
}

// CheckIn implements attendance.AttendanceService.
// A location is only stored once it has passed the geofence, and the record is then a GPS one.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string, at time.Time, location *geo.Point) (attendance.Attendance, error) {
	if location == nil {
		return s.checkIn(ctx, userID, at, nil, attendance.MethodManual)
	}
	if err := location.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	if err := s.checkGeofence(userID, *location); err != nil {
		return attendance.Attendance{}, err
	}
	point := *location
	return s.checkIn(ctx, userID, at, &point, attendance.MethodGPS)
}

// CheckInWithGPS implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckInWithGPS(ctx context.Context, userID string, at time.Time, provider geo.Provider) (attendance.Attendance, error) {
	if provider == nil {
		return attendance.Attendance{}, attendance.ErrGeolocationUnavailable
	}

	// The fix is taken without holding the ledger lock.
	reading, err := geo.Acquire(ctx, provider, s.config.GeoTimeout)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if limit := s.config.MaxAccuracyMeters; limit > 0 && reading.AccuracyMeters > limit {
		return attendance.Attendance{}, fmt.Errorf("%w: accuracy %.0fm is worse than %.0fm",
			attendance.ErrGeolocationUnavailable, reading.AccuracyMeters, limit)
	}

	if err := s.checkGeofence(userID, reading.Point); err != nil {
		return attendance.Attendance{}, err
	}

	point := reading.Point
	return s.checkIn(ctx, userID, at, &point, attendance.MethodGPS)
}

func (s *AttendanceServiceImpl) checkGeofence(userID string, p geo.Point) error {
	radius := s.calculator.Rules().GeofenceRadiusMeters
	if geo.IsWithinGeofence(p, s.config.ShopCenter, radius) {
		return nil
	}
	distance := geo.DistanceMeters(p, s.config.ShopCenter)
	slog.Info("check-in outside geofence", "user_id", userID, "distance_m", distance)
	return fmt.Errorf("%w: %.0fm away, must be within %.0fm",
		attendance.ErrGeofenceViolation, distance, radius)
}

// CheckInWithQR implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckInWithQR(ctx context.Context, userID string, at time.Time, code string) (attendance.Attendance, error) {
	if s.codes == nil {
		return attendance.Attendance{}, attendance.ErrQRDisabled
	}
	if !s.codes.Validate(code, at) {
		return attendance.Attendance{}, attendance.ErrInvalidQRCode
	}
	return s.checkIn(ctx, userID, at, nil, attendance.MethodQR)
}

func (s *AttendanceServiceImpl) checkIn(ctx context.Context, userID string, at time.Time, location *geo.Point, method attendance.Method) (attendance.Attendance, error) {
	if location != nil {
		if err := location.Validate(); err != nil {
			return attendance.Attendance{}, err
		}
	}

	at = s.local(at)
	day := attendance.BusinessDay(at)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(userID, day) >= 0 {
		return attendance.Attendance{}, attendance.ErrDuplicateCheckIn
	}

	emp, err := s.employeeService.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.Attendance{}, attendance.ErrUnknownUser
		}
		return attendance.Attendance{}, fmt.Errorf("failed to look up employee: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate id: %w", err)
	}

	record := attendance.Attendance{
		ID:       id.String(),
		UserID:   userID,
		UserName: emp.Name,
		Date:     day,
		CheckIn:  at,
		IsLate:   s.calculator.IsLate(at),
		Location: location,
		Method:   method,
	}

	next := append(slices.Clone(s.records), record)
	if err := s.commit(ctx, next); err != nil {
		return attendance.Attendance{}, err
	}

	slog.Info("checked in", "user_id", userID, "date", day, "late", record.IsLate, "method", method)
	s.notify(notification.TypeCheckIn, notification.CheckInText(emp.Name, at, s.config.ShopName))

	return record, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string, at time.Time) (attendance.Attendance, error) {
	at = s.local(at)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.openRecordFor(userID, at)
	if idx < 0 {
		return attendance.Attendance{}, attendance.ErrNoOpenCheckIn
	}

	record := s.records[idx]
	if at.Before(record.CheckIn) {
		return attendance.Attendance{}, attendance.ErrCheckOutBeforeCheckIn
	}

	var ot payroll.Overtime
	switch s.config.Policy {
	case attendance.PolicyOpenRecord:
		day, err := time.ParseInLocation(attendance.DateLayout, record.Date, at.Location())
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to parse record date: %w", err)
		}
		ot = s.calculator.OvertimeOn(day, at)
	default:
		ot = s.calculator.Overtime(at)
	}

	checkOut := at
	record.CheckOut = &checkOut
	record.OTMinutes = ot.Minutes
	record.OTPay = ot.Pay

	next := slices.Clone(s.records)
	next[idx] = record
	if err := s.commit(ctx, next); err != nil {
		return attendance.Attendance{}, err
	}

	slog.Info("checked out", "user_id", userID, "date", record.Date, "ot_minutes", ot.Minutes, "ot_pay", ot.Pay)
	s.notify(notification.TypeCheckOut, notification.CheckOutText(record.UserName, at, ot.Pay))

	return record, nil
}

// Query implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Query(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]attendance.Attendance, 0)
	for _, r := range s.records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, userID string, now time.Time) (attendance.TodayResponse, error) {
	now = s.local(now)
	day := attendance.BusinessDay(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(userID, day)
	if idx < 0 && s.config.Policy == attendance.PolicyOpenRecord {
		idx = s.openRecordFor(userID, now)
	}
	if idx < 0 {
		return attendance.TodayResponse{Date: day, Status: attendance.StatusNotStarted}, nil
	}

	resp := attendance.ToResponse(s.records[idx])
	return attendance.TodayResponse{Date: day, Status: resp.Status, Record: &resp}, nil
}

// Close implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.attendanceRepo.Save(ctx, s.records); err != nil {
		return fmt.Errorf("failed to flush attendance ledger: %w", err)
	}
	return nil
}

// indexOf finds the record for (userID, day). Caller holds mu.
func (s *AttendanceServiceImpl) indexOf(userID, day string) int {
	return slices.IndexFunc(s.records, func(r attendance.Attendance) bool {
		return r.UserID == userID && r.Date == day
	})
}

// openRecordFor resolves the record a check-out at `at` closes. Caller holds mu.
func (s *AttendanceServiceImpl) openRecordFor(userID string, at time.Time) int {
	today := attendance.BusinessDay(at)

	if idx := s.indexOf(userID, today); idx >= 0 {
		if s.records[idx].IsOpen() {
			return idx
		}
		return -1
	}
	if s.config.Policy != attendance.PolicyOpenRecord {
		return -1
	}

	// Yesterday is only considered while today has no record at all.
	yesterday := attendance.BusinessDay(at.AddDate(0, 0, -1))
	if idx := s.indexOf(userID, yesterday); idx >= 0 && s.records[idx].IsOpen() {
		return idx
	}
	return -1
}

// commit persists next and only then makes it the live ledger. Caller holds mu.
func (s *AttendanceServiceImpl) commit(ctx context.Context, next []attendance.Attendance) error {
	if err := s.attendanceRepo.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save attendance ledger: %w", err)
	}
	s.records = next
	return nil
}

func (s *AttendanceServiceImpl) notify(typ notification.Type, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Queue(notification.Message{Type: typ, Text: text}); err != nil {
		slog.Warn("notification not queued", "type", typ, "error", err)
	}
}
