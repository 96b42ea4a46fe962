package timerule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ClockTime is a wall-clock time of day ("HH:MM") without a date or zone.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM" (24h).
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// MustParseClockTime is ParseClockTime for compile-time constants.
func MustParseClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// On returns the instant with t's own calendar date and location and c's hour and minute.
// No timezone conversion is applied.
func (c ClockTime) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TimeRules is the shop's attendance and overtime policy.
type TimeRules struct {
	OpenTime             ClockTime       `json:"open_time"`
	LateThreshold        ClockTime       `json:"late_threshold"`
	CloseTime            ClockTime       `json:"close_time"`
	OTStart              ClockTime       `json:"ot_start"`
	OTEnd                ClockTime       `json:"ot_end"`
	OTRatePerHour        decimal.Decimal `json:"ot_rate_per_hour"`
	GeofenceRadiusMeters float64         `json:"geofence_radius_meters"`
}

// Default returns the shop's standing rules.
func Default() TimeRules {
	return TimeRules{
		OpenTime:             MustParseClockTime("08:00"),
		LateThreshold:        MustParseClockTime("08:15"),
		CloseTime:            MustParseClockTime("18:00"),
		OTStart:              MustParseClockTime("18:00"),
		OTEnd:                MustParseClockTime("20:30"),
		OTRatePerHour:        decimal.NewFromInt(75),
		GeofenceRadiusMeters: 100,
	}
}

// Validate checks the rules are internally consistent.
func (r TimeRules) Validate() error {
	if r.OvertimeWindowMinutes() < 0 {
		return ErrOvertimeWindowInverted
	}
	if r.OTRatePerHour.IsNegative() {
		return ErrNegativeRate
	}
	if r.GeofenceRadiusMeters < 0 {
		return ErrNegativeRadius
	}
	return nil
}

// OvertimeWindowMinutes is the longest overtime a single day can accrue.
func (r TimeRules) OvertimeWindowMinutes() int {
	return r.OTEnd.Minutes() - r.OTStart.Minutes()
}
