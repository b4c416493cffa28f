package ports

import "context"

// ChangePasswordInput is the ephemeral payload of a password rotation.
// It is consumed once and never persisted.
type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// AuthService defines the login and password-rotation use cases.
type AuthService interface {
	// Login verifies credentials and returns a signed token string.
	Login(ctx context.Context, username, password string) (string, error)
	ChangePassword(ctx context.Context, username string, input ChangePasswordInput) error
}
