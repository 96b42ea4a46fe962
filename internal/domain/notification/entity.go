package notification

import "time"

// Type identifies what a message reports.
type Type string

const (
	TypeCheckIn      Type = "check_in"
	TypeCheckOut     Type = "check_out"
	TypePayslip      Type = "payslip"
	TypeDailySummary Type = "daily_summary"
)

// Message is one outbound text to the shop owner.
type Message struct {
	Type      Type      `json:"type"`
	Recipient string    `json:"recipient"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
