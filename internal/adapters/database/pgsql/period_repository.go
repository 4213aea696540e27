package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qardhos/microfin_app/internal/apperrors"
	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
)

const periodColumns = `period_id, name, start_date, end_date, is_closed, closing_journal_id, created_at, created_by, last_updated_at, last_updated_by`

type periodRepository struct {
	pool *pgxpool.Pool
}

// NewPeriodRepository creates a new repository for accounting periods.
func NewPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &periodRepository{pool: pool}
}

func scanPeriod(row pgx.Row) (*domain.Period, error) {
	var p domain.Period
	err := row.Scan(
		&p.PeriodID,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.IsClosed,
		&p.ClosingJournalID,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPeriodByID retrieves a period by its ID.
func (r *periodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE period_id = $1;`

	period, err := scanPeriod(querier(ctx, r.pool).QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period by ID %s: %w", periodID, err)
	}
	return period, nil
}

// FindOpenPeriod retrieves the single period with no end date.
func (r *periodRepository) FindOpenPeriod(ctx context.Context) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE end_date IS NULL ORDER BY start_date DESC LIMIT 1;`

	period, err := scanPeriod(querier(ctx, r.pool).QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open period: %w", err)
	}
	return period, nil
}

// FindMostRecentlyClosedPeriod retrieves the closed period with the latest end date.
func (r *periodRepository) FindMostRecentlyClosedPeriod(ctx context.Context) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE is_closed ORDER BY end_date DESC LIMIT 1;`

	period, err := scanPeriod(querier(ctx, r.pool).QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find most recently closed period: %w", err)
	}
	return period, nil
}

// ListPeriods retrieves all periods, newest start date first.
func (r *periodRepository) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods ORDER BY start_date DESC;`

	rows, err := querier(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer rows.Close()

	periods := []domain.Period{}
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return periods, nil
}

// SavePeriod persists a new period.
func (r *periodRepository) SavePeriod(ctx context.Context, period domain.Period) error {
	query := `
		INSERT INTO periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		period.PeriodID,
		period.Name,
		period.StartDate,
		period.EndDate,
		period.IsClosed,
		period.ClosingJournalID,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save period %s: %w", period.PeriodID, err)
	}
	return nil
}

// UpdatePeriod overwrites a period's mutable fields.
func (r *periodRepository) UpdatePeriod(ctx context.Context, period domain.Period) error {
	query := `
		UPDATE periods
		SET name = $2, start_date = $3, end_date = $4, is_closed = $5, closing_journal_id = $6, last_updated_at = $7, last_updated_by = $8
		WHERE period_id = $1;
	`
	tag, err := querier(ctx, r.pool).Exec(ctx, query,
		period.PeriodID,
		period.Name,
		period.StartDate,
		period.EndDate,
		period.IsClosed,
		period.ClosingJournalID,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update period %s: %w", period.PeriodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeletePeriod removes a period row.
func (r *periodRepository) DeletePeriod(ctx context.Context, periodID string) error {
	query := `DELETE FROM periods WHERE period_id = $1;`

	tag, err := querier(ctx, r.pool).Exec(ctx, query, periodID)
	if err != nil {
		return fmt.Errorf("failed to delete period %s: %w", periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
