package payroll

import (
	"testing"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/timerule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	day      = time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)
	otStart  = timerule.MustParseClockTime("18:00")
	otEnd    = timerule.MustParseClockTime("20:30")
	lateAt   = timerule.MustParseClockTime("08:15")
	rate75   = decimal.NewFromInt(75)
	scenario = NewCalculator(timerule.TimeRules{
		LateThreshold: lateAt,
		OTStart:       otStart,
		OTEnd:         otEnd,
		OTRatePerHour: rate75,
	})
)

func at(h, m, s int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, day.Location())
}

func TestIsLate(t *testing.T) {
	tests := []struct {
		name    string
		checkIn time.Time
		want    bool
	}{
		{name: "before open", checkIn: at(7, 45, 0), want: false},
		{name: "exactly at threshold is on time", checkIn: at(8, 15, 0), want: false},
		{name: "one second after threshold", checkIn: at(8, 15, 1), want: true},
		{name: "scenario A 08:20", checkIn: at(8, 20, 0), want: true},
		{name: "afternoon", checkIn: at(13, 0, 0), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLate(tt.checkIn, lateAt))
			assert.Equal(t, tt.want, scenario.IsLate(tt.checkIn))
		})
	}
}

func TestComputeOvertime(t *testing.T) {
	tests := []struct {
		name     string
		checkOut time.Time
		want     Overtime
	}{
		{name: "scenario C before window", checkOut: at(17, 45, 0), want: Overtime{}},
		{name: "exactly at window start", checkOut: at(18, 0, 0), want: Overtime{}},
		{name: "morning data error", checkOut: at(6, 0, 0), want: Overtime{}},
		{name: "partial minute floors", checkOut: at(18, 0, 59), want: Overtime{Minutes: 0, Pay: 0}},
		{name: "one minute", checkOut: at(18, 1, 0), want: Overtime{Minutes: 1, Pay: 1}},
		{name: "two minutes rounds 2.5 up", checkOut: at(18, 2, 0), want: Overtime{Minutes: 2, Pay: 3}},
		{name: "scenario A 19:30", checkOut: at(19, 30, 0), want: Overtime{Minutes: 90, Pay: 113}},
		{name: "exactly at window end", checkOut: at(20, 30, 0), want: Overtime{Minutes: 150, Pay: 188}},
		{name: "scenario B capped 21:00", checkOut: at(21, 0, 0), want: Overtime{Minutes: 150, Pay: 188}},
		{name: "late night capped", checkOut: at(23, 59, 59), want: Overtime{Minutes: 150, Pay: 188}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeOvertime(tt.checkOut, otStart, otEnd, rate75)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ComputeOvertime(tt.checkOut, otStart, otEnd, rate75), "must be deterministic")
			assert.Equal(t, tt.want, scenario.Overtime(tt.checkOut))
		})
	}
}

func TestComputeOvertime_Monotonic(t *testing.T) {
	prev := Overtime{}
	for ts := at(18, 0, 0); !ts.After(at(21, 0, 0)); ts = ts.Add(37 * time.Second) {
		got := ComputeOvertime(ts, otStart, otEnd, rate75)
		assert.GreaterOrEqual(t, got.Minutes, prev.Minutes, "at %s", ts)
		assert.GreaterOrEqual(t, got.Pay, prev.Pay, "at %s", ts)
		prev = got
	}
}

func TestComputeOvertime_FractionalRate(t *testing.T) {
	rate := decimal.RequireFromString("62.5")
	// 45 * 62.5 / 60 = 46.875
	got := ComputeOvertime(at(18, 45, 0), otStart, otEnd, rate)
	assert.Equal(t, Overtime{Minutes: 45, Pay: 47}, got)
}

func TestComputeOvertimeOn_AnchorsOnBusinessDay(t *testing.T) {
	nextMorning := at(0, 30, 0).AddDate(0, 0, 1)

	onCheckoutDate := ComputeOvertime(nextMorning, otStart, otEnd, rate75)
	onBusinessDay := ComputeOvertimeOn(day, nextMorning, otStart, otEnd, rate75)

	assert.Equal(t, Overtime{}, onCheckoutDate)
	assert.Equal(t, Overtime{Minutes: 150, Pay: 188}, onBusinessDay)
	assert.Equal(t, onBusinessDay, scenario.OvertimeOn(day, nextMorning))
}
