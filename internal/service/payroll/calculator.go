package payroll

import (
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/timerule"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// Overtime is the overtime accrued by a single check-out.
type Overtime struct {
	Minutes int   `json:"minutes"`
	Pay     int64 `json:"pay"`
}

// IsLate reports whether checkIn is strictly after the threshold on checkIn's own date.
// Checking in exactly at the threshold is on time.
func IsLate(checkIn time.Time, lateThreshold timerule.ClockTime) bool {
	return checkIn.After(lateThreshold.On(checkIn))
}

// ComputeOvertime returns the overtime earned by checking out at checkOut, with the
// overtime window built on checkOut's own calendar date.
func ComputeOvertime(checkOut time.Time, otStart, otEnd timerule.ClockTime, ratePerHour decimal.Decimal) Overtime {
	return ComputeOvertimeOn(checkOut, checkOut, otStart, otEnd, ratePerHour)
}

// ComputeOvertimeOn is ComputeOvertime with the window anchored on day's date.
//
// Minutes are whole minutes between the window start and min(checkOut, window end),
// floored. Pay is minutes × rate / 60 rounded half away from zero to a whole unit.
func ComputeOvertimeOn(day, checkOut time.Time, otStart, otEnd timerule.ClockTime, ratePerHour decimal.Decimal) Overtime {
	start := otStart.On(day)
	end := otEnd.On(day)

	if !checkOut.After(start) {
		return Overtime{}
	}

	effectiveEnd := checkOut
	if effectiveEnd.After(end) {
		effectiveEnd = end
	}
	if !effectiveEnd.After(start) {
		return Overtime{}
	}

	minutes := int(effectiveEnd.Sub(start) / time.Minute)
	pay := decimal.NewFromInt(int64(minutes)).
		Mul(ratePerHour).
		Div(minutesPerHour).
		Round(0).
		IntPart()
	if pay < 0 {
		pay = 0
	}

	return Overtime{Minutes: minutes, Pay: pay}
}

// Calculator binds the payroll rules to a fixed TimeRules value.
type Calculator struct {
	rules timerule.TimeRules
}

func NewCalculator(rules timerule.TimeRules) *Calculator {
	return &Calculator{rules: rules}
}

func (c *Calculator) Rules() timerule.TimeRules {
	return c.rules
}

func (c *Calculator) IsLate(checkIn time.Time) bool {
	return IsLate(checkIn, c.rules.LateThreshold)
}

func (c *Calculator) Overtime(checkOut time.Time) Overtime {
	return ComputeOvertime(checkOut, c.rules.OTStart, c.rules.OTEnd, c.rules.OTRatePerHour)
}

func (c *Calculator) OvertimeOn(day, checkOut time.Time) Overtime {
	return ComputeOvertimeOn(day, checkOut, c.rules.OTStart, c.rules.OTEnd, c.rules.OTRatePerHour)
}
