package employee

import (
	"context"
)

// EmployeeService is the shop roster (the Directory).
type EmployeeService interface {
	// List returns every roster entry in insertion order
	List(ctx context.Context) ([]Employee, error)

	// Get retrieves an entry by ID
	Get(ctx context.Context, id string) (Employee, error)

	// GetByUsername retrieves an entry by its case-sensitive username
	GetByUsername(ctx context.Context, username string) (Employee, error)

	// Create adds a new entry (admin only)
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)

	// Remove deletes an employee entry (admin only). Attendance records are kept.
	Remove(ctx context.Context, id string) error

	// UpdateDailyPay changes an entry's daily rate (admin only)
	UpdateDailyPay(ctx context.Context, req UpdateDailyPayRequest) (Employee, error)

	// Close flushes the roster snapshot
	Close(ctx context.Context) error
}
