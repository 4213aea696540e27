package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
)

const accrualColumns = `accrual_id, partner_id, loan_id, repayment_id, period_id, raw_share, company_cut, partner_final, is_closed, is_distributed, created_at, created_by, last_updated_at, last_updated_by`

type accrualRepository struct {
	pool *pgxpool.Pool
}

// NewAccrualRepository creates a new repository for partner share accruals.
func NewAccrualRepository(pool *pgxpool.Pool) portsrepo.AccrualRepositoryFacade {
	return &accrualRepository{pool: pool}
}

// ListAccrualsByPeriod retrieves all accrual rows booked into one period.
func (r *accrualRepository) ListAccrualsByPeriod(ctx context.Context, periodID string) ([]domain.PartnerShareAccrual, error) {
	query := `SELECT ` + accrualColumns + ` FROM partner_share_accruals WHERE period_id = $1 ORDER BY created_at, accrual_id;`

	rows, err := querier(ctx, r.pool).Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accruals of period %s: %w", periodID, err)
	}
	defer rows.Close()

	accruals := []domain.PartnerShareAccrual{}
	for rows.Next() {
		var a domain.PartnerShareAccrual
		if err := rows.Scan(
			&a.AccrualID,
			&a.PartnerID,
			&a.LoanID,
			&a.RepaymentID,
			&a.PeriodID,
			&a.RawShare,
			&a.CompanyCut,
			&a.PartnerFinal,
			&a.IsClosed,
			&a.IsDistributed,
			&a.CreatedAt,
			&a.CreatedBy,
			&a.LastUpdatedAt,
			&a.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan accrual row: %w", err)
		}
		accruals = append(accruals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accrual rows: %w", err)
	}
	return accruals, nil
}

// ListPartnerPeriodProfits retrieves the per-partner profit summaries of one period.
func (r *accrualRepository) ListPartnerPeriodProfits(ctx context.Context, periodID string) ([]domain.PartnerPeriodProfit, error) {
	query := `
		SELECT profit_id, partner_id, period_id, total_profit, created_at, created_by, last_updated_at, last_updated_by
		FROM partner_period_profits
		WHERE period_id = $1
		ORDER BY partner_id;
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query partner profits of period %s: %w", periodID, err)
	}
	defer rows.Close()

	profits := []domain.PartnerPeriodProfit{}
	for rows.Next() {
		var p domain.PartnerPeriodProfit
		if err := rows.Scan(
			&p.ProfitID,
			&p.PartnerID,
			&p.PeriodID,
			&p.TotalProfit,
			&p.CreatedAt,
			&p.CreatedBy,
			&p.LastUpdatedAt,
			&p.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan partner profit row: %w", err)
		}
		profits = append(profits, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner profit rows: %w", err)
	}
	return profits, nil
}

// SaveAccrual persists a new accrual row.
func (r *accrualRepository) SaveAccrual(ctx context.Context, accrual domain.PartnerShareAccrual) error {
	query := `
		INSERT INTO partner_share_accruals (` + accrualColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		accrual.AccrualID,
		accrual.PartnerID,
		accrual.LoanID,
		accrual.RepaymentID,
		accrual.PeriodID,
		accrual.RawShare,
		accrual.CompanyCut,
		accrual.PartnerFinal,
		accrual.IsClosed,
		accrual.IsDistributed,
		accrual.CreatedAt,
		accrual.CreatedBy,
		accrual.LastUpdatedAt,
		accrual.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save accrual %s: %w", accrual.AccrualID, err)
	}
	return nil
}

// MarkAccrualsClosed flags every accrual of one period as closed.
func (r *accrualRepository) MarkAccrualsClosed(ctx context.Context, periodID string, updatedBy string) error {
	query := `
		UPDATE partner_share_accruals
		SET is_closed = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1;
	`
	if _, err := querier(ctx, r.pool).Exec(ctx, query, periodID, time.Now().UTC(), updatedBy); err != nil {
		return fmt.Errorf("failed to mark accruals of period %s closed: %w", periodID, err)
	}
	return nil
}

// ResetAccrualFlags clears the closed and distributed flags of every accrual
// of one period.
func (r *accrualRepository) ResetAccrualFlags(ctx context.Context, periodID string, updatedBy string) error {
	query := `
		UPDATE partner_share_accruals
		SET is_closed = FALSE, is_distributed = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1;
	`
	if _, err := querier(ctx, r.pool).Exec(ctx, query, periodID, time.Now().UTC(), updatedBy); err != nil {
		return fmt.Errorf("failed to reset accrual flags of period %s: %w", periodID, err)
	}
	return nil
}

// SavePartnerPeriodProfits persists a batch of per-partner profit summaries.
func (r *accrualRepository) SavePartnerPeriodProfits(ctx context.Context, profits []domain.PartnerPeriodProfit) error {
	query := `
		INSERT INTO partner_period_profits (profit_id, partner_id, period_id, total_profit, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, p := range profits {
		batch.Queue(query,
			p.ProfitID,
			p.PartnerID,
			p.PeriodID,
			p.TotalProfit,
			p.CreatedAt,
			p.CreatedBy,
			p.LastUpdatedAt,
			p.LastUpdatedBy,
		)
	}
	if err := querier(ctx, r.pool).SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert partner profits: %w", err)
	}
	return nil
}

// DeletePartnerPeriodProfitsByPeriod removes the profit summaries of one period.
func (r *accrualRepository) DeletePartnerPeriodProfitsByPeriod(ctx context.Context, periodID string) error {
	query := `DELETE FROM partner_period_profits WHERE period_id = $1;`

	if _, err := querier(ctx, r.pool).Exec(ctx, query, periodID); err != nil {
		return fmt.Errorf("failed to delete partner profits of period %s: %w", periodID, err)
	}
	return nil
}
