package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/employee"
	"github.com/senani-kuruwita/attendance-backend/internal/repository/kvstore"
	"golang.org/x/crypto/bcrypt"
)

// Options tune roster seeding.
type Options struct {
	// AdminPassword replaces the seeded admin credential when set.
	AdminPassword string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

type seed struct {
	id       string
	name     string
	username string
	password string
	role     employee.Role
	dailyPay int64
}

var defaultRoster = []seed{
	{"admin-0", "Admin Boss", "admin", "1234", employee.RoleAdmin, 0},
	{"emp-1", "Shashikala", "shashi", "password", employee.RoleEmployee, 1200},
	{"emp-2", "Avishka", "avishka", "password", employee.RoleEmployee, 1200},
	{"emp-3", "Lakshan", "lakshan", "password", employee.RoleEmployee, 1200},
}

type EmployeeServiceImpl struct {
	mu           sync.Mutex
	employees    []employee.Employee
	employeeRepo employee.EmployeeRepository
	cost         int
}

// NewEmployeeService loads the roster. Missing or corrupt data is replaced by the
// default roster, which is written back immediately.
func NewEmployeeService(ctx context.Context, employeeRepo employee.EmployeeRepository, opts Options) (employee.EmployeeService, error) {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	s := &EmployeeServiceImpl{employeeRepo: employeeRepo, cost: cost}

	employees, err := employeeRepo.Load(ctx)
	switch {
	case err == nil:
		s.employees = employees
		return s, nil
	case errors.Is(err, kvstore.ErrNotFound):
		slog.Info("no roster stored, seeding default roster")
	case errors.Is(err, kvstore.ErrCorruptSnapshot):
		slog.Warn("stored roster is corrupt, falling back to default roster", "error", err)
	default:
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	seeded, err := s.seedRoster(opts.AdminPassword)
	if err != nil {
		return nil, err
	}
	if err := employeeRepo.Save(ctx, seeded); err != nil {
		return nil, fmt.Errorf("failed to save default roster: %w", err)
	}
	s.employees = seeded
	return s, nil
}

func (s *EmployeeServiceImpl) seedRoster(adminPassword string) ([]employee.Employee, error) {
	roster := make([]employee.Employee, 0, len(defaultRoster))
	for _, sd := range defaultRoster {
		password := sd.password
		if sd.role == employee.RoleAdmin && adminPassword != "" {
			password = adminPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash seed password: %w", err)
		}
		roster = append(roster, employee.Employee{
			ID:           sd.id,
			Name:         sd.name,
			Username:     sd.username,
			PasswordHash: string(hash),
			Role:         sd.role,
			DailyPay:     sd.dailyPay,
		})
	}
	return roster, nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.employees), nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *EmployeeServiceImpl) GetByUsername(ctx context.Context, username string) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.Username == username {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.Username == req.Username {
			return employee.Employee{}, employee.ErrUsernameExists
		}
	}

	newEmployee := employee.Employee{
		ID:           id.String(),
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		DailyPay:     *req.DailyPay,
	}

	next := append(slices.Clone(s.employees), newEmployee)
	if err := s.commit(ctx, next); err != nil {
		return employee.Employee{}, err
	}

	slog.Info("employee added", "id", newEmployee.ID, "username", newEmployee.Username)
	return newEmployee, nil
}

func (s *EmployeeServiceImpl) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.employees, func(e employee.Employee) bool { return e.ID == id })
	if idx < 0 {
		return employee.ErrEmployeeNotFound
	}
	if s.employees[idx].IsAdmin() {
		return employee.ErrAdminRemovalForbidden
	}

	next := slices.Delete(slices.Clone(s.employees), idx, idx+1)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	slog.Info("employee removed", "id", id)
	return nil
}

func (s *EmployeeServiceImpl) UpdateDailyPay(ctx context.Context, req employee.UpdateDailyPayRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.employees, func(e employee.Employee) bool { return e.ID == req.ID })
	if idx < 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	next := slices.Clone(s.employees)
	next[idx].DailyPay = req.DailyPay
	if err := s.commit(ctx, next); err != nil {
		return employee.Employee{}, err
	}

	return next[idx], nil
}

func (s *EmployeeServiceImpl) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.employeeRepo.Save(ctx, s.employees); err != nil {
		return fmt.Errorf("failed to flush roster: %w", err)
	}
	return nil
}

// commit persists next and only then makes it the live roster. Caller holds mu.
func (s *EmployeeServiceImpl) commit(ctx context.Context, next []employee.Employee) error {
	if err := s.employeeRepo.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	s.employees = next
	return nil
}
