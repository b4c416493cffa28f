package domain

import (
	"errors"
	"time"
)

// Role is the access level embedded in issued tokens.
type Role string

const (
	RoleUser   Role = "USER"
	RoleAdmin  Role = "ADMIN"
	RoleSeller Role = "SELLER"
)

// StatusActive is the lifecycle status assigned to every newly registered user.
const StatusActive = "active"

// IsValid reports whether the role is one of the enumerated values.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSeller:
		return true
	}
	return false
}

// The error texts double as the client-facing reason strings, so they keep
// their original casing.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRole          = errors.New("role must be one of USER, ADMIN, SELLER")
	ErrUsernameTaken        = errors.New("Username is already in use")
	ErrEmailTaken           = errors.New("Email is already in use")
	ErrPasswordIncorrect    = errors.New("Password incorrect")
	ErrOldPasswordIncorrect = errors.New("Old password incorrect")
	ErrPasswordReused       = errors.New("New password cannot be the same")
	ErrConfirmMismatch      = errors.New("Confirm password incorrect")
	ErrTooManyAttempts      = errors.New("too many failed login attempts")
)

// User models a registered identity. Username and email are unique; the
// password hash never leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number"`
	Role         Role      `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
