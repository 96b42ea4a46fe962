package report

import (
	"github.com/senani-kuruwita/attendance-backend/internal/domain/attendance"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/validator"
)

// ========================================
// DAILY STATS
// ========================================

type DailyStats struct {
	Date         string `json:"date"`
	PresentCount int    `json:"present_count"`
	TotalOTPay   int64  `json:"total_ot_pay"`
}

// ========================================
// MONTHLY COST
// ========================================

type MonthlyCost struct {
	Month    string `json:"month"`
	Records  int    `json:"records"`
	BasicPay int64  `json:"basic_pay"`
	OTPay    int64  `json:"ot_pay"`
	Total    int64  `json:"total"`
}

// ========================================
// PAYSLIP
// ========================================

type Payslip struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Month      string `json:"month"`
	DaysWorked int    `json:"days_worked"` // includes days without a check-out
	LateDays   int    `json:"late_days"`
	OTMinutes  int    `json:"ot_minutes"`
	DailyPay   int64  `json:"daily_pay"`
	BasicPay   int64  `json:"basic_pay"`
	OTPay      int64  `json:"ot_pay"`
	Total      int64  `json:"total"`
}

// ========================================
// DASHBOARD
// ========================================

type Dashboard struct {
	Date           string `json:"date"`
	Month          string `json:"month"`
	TotalEmployees int    `json:"total_employees"`
	PresentToday   int    `json:"present_today"`
	OTToday        int64  `json:"ot_today"`
	MonthlyCost    int64  `json:"monthly_cost"`
}

// ========================================
// PERSONAL HISTORY
// ========================================

type History struct {
	UserID            string                          `json:"user_id"`
	DaysWorked        int                             `json:"days_worked"`
	OTPay             int64                           `json:"ot_pay"`
	EstimatedEarnings int64                           `json:"estimated_earnings"`
	Records           []attendance.AttendanceResponse `json:"records"` // newest first
}

// ValidateMonth checks a YYYY-MM month prefix.
func ValidateMonth(month string) error {
	if _, ok := validator.IsValidMonth(month); !ok {
		return validator.ValidationErrors{{Field: "month", Message: "month must be YYYY-MM"}}
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD business day.
func ValidateDate(date string) error {
	if _, ok := validator.IsValidDate(date); !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be YYYY-MM-DD"}}
	}
	return nil
}
