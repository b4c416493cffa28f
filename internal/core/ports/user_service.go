package ports

import (
	"context"

	"github.com/microstore/auth-platform/internal/core/domain"
)

// RegisterInput carries all data needed to create a new identity.
// Shape validation (password policy, phone pattern, role enum) happens at
// the transport boundary; the service re-checks only what it must.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	Role        string
}

// UserService defines the registration use case.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}
