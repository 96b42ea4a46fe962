package employee

import (
	"strings"

	"github.com/senani-kuruwita/attendance-backend/internal/pkg/validator"
)

const defaultDailyPay int64 = 1200

type CreateEmployeeRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	DailyPay *int64 `json:"daily_pay"`
	Role     Role   `json:"role"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsValidUsername(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username must be 3-50 characters of letters, digits, '.', '_' or '-'",
		})
	}

	if len(r.Password) < 4 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 4 characters",
		})
	}

	if r.DailyPay == nil {
		pay := defaultDailyPay
		r.DailyPay = &pay
	} else if *r.DailyPay < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "daily_pay",
			Message: ErrNegativeDailyPay.Error(),
		})
	}

	if r.Role == "" {
		r.Role = RoleEmployee
	} else if !r.Role.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: ErrInvalidRole.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateDailyPayRequest struct {
	ID       string `json:"-"`
	DailyPay int64  `json:"daily_pay"`
}

func (r *UpdateDailyPayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.DailyPay < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "daily_pay",
			Message: ErrNegativeDailyPay.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EmployeeResponse never carries the credential.
type EmployeeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	DailyPay int64  `json:"daily_pay"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:       e.ID,
		Name:     e.Name,
		Username: e.Username,
		Role:     e.Role,
		DailyPay: e.DailyPay,
	}
}
