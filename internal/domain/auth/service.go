package auth

import (
	"context"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/employee"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Logout revokes token until it expires
	Logout(ctx context.Context, token string, expiresAt int64) error
	Me(ctx context.Context, userID string) (employee.EmployeeResponse, error)
}
