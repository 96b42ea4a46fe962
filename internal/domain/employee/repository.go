package employee

import "context"

// EmployeeRepository persists the whole roster as one snapshot.
type EmployeeRepository interface {
	// Load returns the stored roster, kvstore.ErrNotFound when nothing was ever
	// saved and kvstore.ErrCorruptSnapshot when the stored data is malformed.
	Load(ctx context.Context) ([]Employee, error)

	// Save replaces the stored roster.
	Save(ctx context.Context, employees []Employee) error
}
