package auth

import "errors"

var (
	// Same message for unknown usernames and wrong passwords
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)
