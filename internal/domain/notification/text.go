package notification

import (
	"fmt"
	"time"
)

const clockLayout = "15:04:05"

func CheckInText(name string, at time.Time, shop string) string {
	return fmt.Sprintf("%s checked IN at %s\nShop: %s", name, at.Format(clockLayout), shop)
}

func CheckOutText(name string, at time.Time, otPay int64) string {
	return fmt.Sprintf("%s checked OUT at %s\nOT Earned: LKR %d", name, at.Format(clockLayout), otPay)
}

func DailySummaryText(shop, date string, present, total int, otPay int64) string {
	return fmt.Sprintf("--- DAILY SUMMARY: %s ---\nDate: %s\nPresent: %d / %d\nOT Paid: LKR %d", shop, date, present, total, otPay)
}
