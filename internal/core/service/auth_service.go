package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/microstore/auth-platform/internal/core/domain"
	"github.com/microstore/auth-platform/internal/core/ports"
	"github.com/microstore/auth-platform/internal/core/token"
)

// LoginThrottle abstracts the failed-attempt counter (Redis).
type LoginThrottle interface {
	// IsLocked reports whether the username has exceeded the failure budget.
	IsLocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthService implements login and password rotation.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	codec    *token.Codec
	throttle LoginThrottle
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	codec *token.Codec,
	throttle LoginThrottle,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		codec:    codec,
		throttle: throttle,
		audit:    audit,
		log:      log,
	}
}

// Login verifies the credentials and returns a signed token. Identity-not-found
// and password-mismatch are distinct errors here; the HTTP layer collapses
// them into one unauthorized response to avoid username enumeration.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	locked, err := s.throttle.IsLocked(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle check failed, processing anyway")
	} else if locked {
		s.recordAudit(username, domain.AuditLoginFailed, "throttled")
		return "", domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.loginFailed(ctx, username, "user_not_found")
		return "", err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.loginFailed(ctx, username, "bad_password")
		return "", domain.ErrPasswordIncorrect
	}

	signed, err := s.codec.Issue(user, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("token issue failed")
		return "", err
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
	}
	s.recordAudit(username, domain.AuditLoginSucceeded, "")
	s.log.Info().Str("username", username).Msg("user logged in")

	return signed, nil
}

// ChangePassword rotates the stored hash after the ordered checks pass:
// identity exists, old password matches, new differs from old, new equals
// confirmation. Previously issued tokens stay valid until natural expiry.
func (s *AuthService) ChangePassword(ctx context.Context, username string, input ports.ChangePasswordInput) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !s.hasher.Compare(user.PasswordHash, input.OldPassword) {
		return domain.ErrOldPasswordIncorrect
	}
	if input.NewPassword == input.OldPassword {
		return domain.ErrPasswordReused
	}
	if input.NewPassword != input.ConfirmPassword {
		return domain.ErrConfirmMismatch
	}

	newHash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, username, newHash); err != nil {
		return err
	}

	s.recordAudit(username, domain.AuditPasswordChanged, "")
	s.log.Info().Str("username", username).Msg("password changed")

	return nil
}

func (s *AuthService) loginFailed(ctx context.Context, username, reason string) {
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
	s.recordAudit(username, domain.AuditLoginFailed, reason)
}

func (s *AuthService) recordAudit(username string, action domain.AuditAction, reason string) {
	s.audit.Record(domain.AuditEvent{
		Username:  username,
		Action:    action,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}
