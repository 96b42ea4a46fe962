package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/employee"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/validator"
)

type employeeRepositoryImpl struct {
	store Store
}

func NewEmployeeRepository(store Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

func (r *employeeRepositoryImpl) Load(ctx context.Context) ([]employee.Employee, error) {
	raw, err := r.store.Get(ctx, KeyEmployees)
	if err != nil {
		return nil, err
	}

	var employees []employee.Employee
	if err := json.Unmarshal(raw, &employees); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, KeyEmployees, err)
	}

	seenID := make(map[string]struct{}, len(employees))
	seenUsername := make(map[string]struct{}, len(employees))
	for i, e := range employees {
		if err := validateEmployee(e); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrCorruptSnapshot, KeyEmployees, i, err)
		}
		if _, dup := seenID[e.ID]; dup {
			return nil, fmt.Errorf("%w: %s[%d]: duplicate id %q", ErrCorruptSnapshot, KeyEmployees, i, e.ID)
		}
		if _, dup := seenUsername[e.Username]; dup {
			return nil, fmt.Errorf("%w: %s[%d]: duplicate username %q", ErrCorruptSnapshot, KeyEmployees, i, e.Username)
		}
		seenID[e.ID] = struct{}{}
		seenUsername[e.Username] = struct{}{}
	}

	return employees, nil
}

func (r *employeeRepositoryImpl) Save(ctx context.Context, employees []employee.Employee) error {
	if employees == nil {
		employees = []employee.Employee{}
	}
	raw, err := json.Marshal(employees)
	if err != nil {
		return fmt.Errorf("failed to encode employees: %w", err)
	}
	return r.store.Put(ctx, KeyEmployees, raw)
}

func validateEmployee(e employee.Employee) error {
	switch {
	case validator.IsEmpty(e.ID):
		return fmt.Errorf("missing id")
	case !validator.IsValidUsername(e.Username):
		return fmt.Errorf("invalid username %q", e.Username)
	case validator.IsEmpty(e.PasswordHash):
		return fmt.Errorf("missing credential")
	case !e.Role.Valid():
		return fmt.Errorf("invalid role %q", e.Role)
	case e.DailyPay < 0:
		return fmt.Errorf("negative daily pay")
	}
	return nil
}
