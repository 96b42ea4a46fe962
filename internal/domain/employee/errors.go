package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrUsernameExists        = errors.New("username already taken")
	ErrAdminRemovalForbidden = errors.New("administrator accounts cannot be removed")
	ErrNegativeDailyPay      = errors.New("daily pay must not be negative")
	ErrInvalidRole           = errors.New("role must be ADMIN or EMPLOYEE")
)
