package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/microstore/auth-platform/internal/core/domain"
	"github.com/microstore/auth-platform/internal/core/ports"
	"github.com/microstore/auth-platform/internal/core/token"
	"github.com/microstore/auth-platform/internal/pkg/hash"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	clone := cloneUser(user)
	if clone.ID == "" {
		clone.ID = user.Username
	}
	r.users[clone.Username] = cloneUser(clone)
	return cloneUser(clone), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, username, passwordHash string) error {
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type stubThrottle struct {
	failures map[string]int
	locked   map[string]bool
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), locked: make(map[string]bool)}
}

func (t *stubThrottle) IsLocked(_ context.Context, username string) (bool, error) {
	return t.locked[username], nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, username string) error {
	t.failures[username]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, username string) error {
	t.failures[username] = 0
	return nil
}

type stubAudit struct {
	events []domain.AuditEvent
}

func (a *stubAudit) Record(event domain.AuditEvent) {
	a.events = append(a.events, event)
}

func (a *stubAudit) lastAction() domain.AuditAction {
	if len(a.events) == 0 {
		return ""
	}
	return a.events[len(a.events)-1].Action
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type authFixture struct {
	repo     *stubUserRepo
	throttle *stubThrottle
	audit    *stubAudit
	codec    *token.Codec
	svc      *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	codec, err := token.NewCodec(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewCodec returned error: %v", err)
	}

	repo := newStubUserRepo()
	throttle := newStubThrottle()
	audit := &stubAudit{}
	svc := NewAuthService(repo, hash.NewBcrypt(), codec, throttle, audit, zerolog.Nop())

	return &authFixture{repo: repo, throttle: throttle, audit: audit, codec: codec, svc: svc}
}

func (f *authFixture) addUser(t *testing.T, username, password string) {
	t.Helper()
	h, err := hash.NewBcrypt().Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	f.repo.users[username] = &domain.User{
		ID:           "id_" + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: h,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice", "Abcdef1!")

	signed, err := f.svc.Login(context.Background(), "alice", "Abcdef1!")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected token, got empty string")
	}

	claims, err := f.codec.Verify(signed, time.Now().UTC())
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Username != "alice" || claims.Email != "alice@example.com" || claims.Role != "USER" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "id_alice" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if f.audit.lastAction() != domain.AuditLoginSucceeded {
		t.Fatalf("expected login_succeeded audit event, got %q", f.audit.lastAction())
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice", "Abcdef1!")

	if _, err := f.svc.Login(context.Background(), "alice", "WrongPw1!"); err != domain.ErrPasswordIncorrect {
		t.Fatalf("expected ErrPasswordIncorrect, got %v", err)
	}
	if f.throttle.failures["alice"] != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", f.throttle.failures["alice"])
	}
	if f.audit.lastAction() != domain.AuditLoginFailed {
		t.Fatalf("expected login_failed audit event, got %q", f.audit.lastAction())
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Login(context.Background(), "ghost", "Abcdef1!"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if f.throttle.failures["ghost"] != 1 {
		t.Fatalf("expected failure recorded for unknown user")
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice", "Abcdef1!")
	f.throttle.locked["alice"] = true

	if _, err := f.svc.Login(context.Background(), "alice", "Abcdef1!"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ResetsThrottleOnSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice", "Abcdef1!")

	_, _ = f.svc.Login(context.Background(), "alice", "WrongPw1!")
	_, _ = f.svc.Login(context.Background(), "alice", "WrongPw1!")
	if f.throttle.failures["alice"] != 2 {
		t.Fatalf("expected 2 failures, got %d", f.throttle.failures["alice"])
	}

	if _, err := f.svc.Login(context.Background(), "alice", "Abcdef1!"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if f.throttle.failures["alice"] != 0 {
		t.Fatalf("expected throttle reset after success, got %d failures", f.throttle.failures["alice"])
	}
}

// ---------------------------------------------------------------------------
// Password change
// ---------------------------------------------------------------------------

func TestAuthService_ChangePassword_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice", "Abcdef1!")
	oldHash := f.repo.users["alice"].PasswordHash

	err := f.svc.ChangePassword(context.Background(), "alice", ports.ChangePasswordInput{
		OldPassword:     "Abcdef1!",
		NewPassword:     "Newpass1!",
		ConfirmPassword: "Newpass1!",
	})
	if err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	newHash := f.repo.users["alice"].PasswordHash
	if newHash == oldHash {
		t.Fatalf("stored hash was not replaced")
	}
	if !hash.NewBcrypt().Compare(newHash, "Newpass1!") {
		t.Fatalf("new hash does not match new password")
	}
	if f.audit.lastAction() != domain.AuditPasswordChanged {
		t.Fatalf("expected password_changed audit event, got %q", f.audit.lastAction())
	}
}

func TestAuthService_ChangePassword_UserNotFound(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ChangePassword(context.Background(), "ghost", ports.ChangePasswordInput{
		OldPassword:     "Abcdef1!",
		NewPassword:     "Newpass1!",
		ConfirmPassword: "Newpass1!",
	})
	if err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ChangePassword_OldPasswordIncorrect(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice", "Abcdef1!")

	err := f.svc.ChangePassword(context.Background(), "alice", ports.ChangePasswordInput{
		OldPassword:     "WrongPw1!",
		NewPassword:     "Newpass1!",
		ConfirmPassword: "Newpass1!",
	})
	if err != domain.ErrOldPasswordIncorrect {
		t.Fatalf("expected ErrOldPasswordIncorrect, got %v", err)
	}
}

func TestAuthService_ChangePassword_RejectsReuse(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice", "Abcdef1!")

	// Reuse is rejected regardless of what the confirmation says.
	for _, confirm := range []string{"Abcdef1!", "Different1!"} {
		err := f.svc.ChangePassword(context.Background(), "alice", ports.ChangePasswordInput{
			OldPassword:     "Abcdef1!",
			NewPassword:     "Abcdef1!",
			ConfirmPassword: confirm,
		})
		if err != domain.ErrPasswordReused {
			t.Fatalf("confirm=%q: expected ErrPasswordReused, got %v", confirm, err)
		}
	}
}

func TestAuthService_ChangePassword_ConfirmMismatch(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice", "Abcdef1!")
	oldHash := f.repo.users["alice"].PasswordHash

	err := f.svc.ChangePassword(context.Background(), "alice", ports.ChangePasswordInput{
		OldPassword:     "Abcdef1!",
		NewPassword:     "Newpass1!",
		ConfirmPassword: "Other123!",
	})
	if err != domain.ErrConfirmMismatch {
		t.Fatalf("expected ErrConfirmMismatch, got %v", err)
	}
	if f.repo.users["alice"].PasswordHash != oldHash {
		t.Fatalf("hash must not change on rejected request")
	}
}

func TestAuthService_ChangePassword_KeepsOldTokensValid(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "alice", "Abcdef1!")

	signed, err := f.svc.Login(context.Background(), "alice", "Abcdef1!")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	err = f.svc.ChangePassword(context.Background(), "alice", ports.ChangePasswordInput{
		OldPassword:     "Abcdef1!",
		NewPassword:     "Newpass1!",
		ConfirmPassword: "Newpass1!",
	})
	if err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	// Stateless tokens carry no revocation state; rotation does not cut
	// previously issued tokens short.
	if _, err := f.codec.Verify(signed, time.Now().UTC()); err != nil {
		t.Fatalf("token issued before password change failed verification: %v", err)
	}
}
