package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/auth"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/employee"
	"github.com/senani-kuruwita/attendance-backend/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared when the username is unknown so both failure paths cost one bcrypt run.
var dummyHash []byte

func init() {
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to hash dummy password: %v", err))
	}
	dummyHash = hash
}

type AuthServiceImpl struct {
	employee.EmployeeService
	jwt.Service
}

func NewAuthService(employeeService employee.EmployeeService, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeService: employeeService,
		Service:         jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.EmployeeService.GetByUsername(ctx, loginReq.Username)
	if err != nil {
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, fmt.Errorf("failed to get user by username: %w", err)
		}
		bcrypt.CompareHashAndPassword(dummyHash, []byte(loginReq.Password))
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		slog.Info("login rejected", "username", loginReq.Username)
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Username, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		User:                 employee.ToResponse(userData),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string, expiresAt int64) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	if !a.Service.IsTokenRevoked(token) {
		a.Service.RevokeToken(token, expiresAt)
	}
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (employee.EmployeeResponse, error) {
	e, err := a.EmployeeService.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, auth.ErrUserNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return employee.ToResponse(e), nil
}
