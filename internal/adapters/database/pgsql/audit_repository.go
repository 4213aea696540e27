package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
)

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates the audit-trail sink.
func NewAuditRepository(pool *pgxpool.Pool) portsrepo.AuditLogWriter {
	return &auditRepository{pool: pool}
}

// AppendAuditLog persists one audit entry.
func (r *auditRepository) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (audit_id, actor_id, screen, action, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		entry.AuditID,
		entry.ActorID,
		entry.Screen,
		entry.Action,
		entry.Description,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit log %s: %w", entry.AuditID, err)
	}
	return nil
}
