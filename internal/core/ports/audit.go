package ports

import (
	"context"

	"github.com/microstore/auth-platform/internal/core/domain"
)

// AuditRecorder accepts security events for asynchronous recording.
// Record must not block the request path.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
