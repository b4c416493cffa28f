package ports

import (
	"context"

	"github.com/microstore/auth-platform/internal/core/domain"
)

// UserRepository defines persistence operations for registered identities.
// Uniqueness of username and email is ultimately enforced by the storage
// layer (unique indexes); Exists* are pre-checks that give friendlier errors
// but do not guarantee atomicity against concurrent registration.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdatePassword atomically replaces the stored hash for the user.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}
