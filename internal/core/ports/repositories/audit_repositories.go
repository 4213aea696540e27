package repositories

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
)

// AuditLogWriter is the audit-trail sink consumed by the service decorators.
type AuditLogWriter interface {
	// AppendAuditLog persists one audit entry.
	AppendAuditLog(ctx context.Context, entry domain.AuditLog) error
}
