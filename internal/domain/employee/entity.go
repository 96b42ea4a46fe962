package employee

type Role string

const (
	RoleAdmin    Role = "ADMIN"    // Shop owner - roster, reports, payslips
	RoleEmployee Role = "EMPLOYEE" // Checks in and out
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Employee is a roster entry. Admins and employees share the same shape.
type Employee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
	DailyPay     int64  `json:"daily_pay"`
}

// IsAdmin checks if the entry is the shop administrator
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
