package report

import (
	"fmt"
	"strings"
)

// PayslipText renders the slip sent to the owner's phone.
func PayslipText(p Payslip, shop string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- PAYSLIP: %s ---\n", p.Name)
	fmt.Fprintf(&b, "Month: %s\n", p.Month)
	fmt.Fprintf(&b, "Days Worked: %d\n", p.DaysWorked)
	fmt.Fprintf(&b, "Basic Salary: LKR %d\n", p.BasicPay)
	fmt.Fprintf(&b, "OT Earned: LKR %d\n", p.OTPay)
	b.WriteString("-------------------------\n")
	fmt.Fprintf(&b, "TOTAL PAYABLE: LKR %d\n", p.Total)
	b.WriteString("-------------------------\n")
	b.WriteString(shop)
	return b.String()
}
