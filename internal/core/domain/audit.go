package domain

import "time"

// AuditAction identifies the kind of security-relevant event being recorded.
type AuditAction string

const (
	AuditLoginSucceeded  AuditAction = "login_succeeded"
	AuditLoginFailed     AuditAction = "login_failed"
	AuditPasswordChanged AuditAction = "password_changed"
	AuditUserRegistered  AuditAction = "user_registered"
)

// AuditEvent records a single auth-related action for the security trail.
type AuditEvent struct {
	Username  string      `bson:"username"`
	Action    AuditAction `bson:"action"`
	Reason    string      `bson:"reason,omitempty"`
	Timestamp time.Time   `bson:"timestamp"`
}
