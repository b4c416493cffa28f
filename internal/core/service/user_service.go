package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/microstore/auth-platform/internal/core/domain"
	"github.com/microstore/auth-platform/internal/core/ports"
)

// UserService implements registration.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	audit  ports.AuditRecorder
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, audit ports.AuditRecorder, log zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, audit: audit, log: log}
}

// Register creates a new identity. The Exists* pre-checks give specific
// conflict errors but are racy by design; the unique indexes on username and
// email make the insert the authoritative uniqueness check.
func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	role := domain.Role(input.Role)
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	taken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Username:  created.Username,
		Action:    domain.AuditUserRegistered,
		Timestamp: now,
	})
	s.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")

	return created, nil
}
