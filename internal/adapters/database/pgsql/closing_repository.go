package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
)

const snapshotValueColumns = `opening_debit, opening_credit, opening_balance, closing_debit, closing_credit, closing_balance, last_updated`

type closingRepository struct {
	pool *pgxpool.Pool
}

// NewClosingRepository creates a new repository for closing snapshot data.
func NewClosingRepository(pool *pgxpool.Pool) portsrepo.ClosingRepositoryFacade {
	return &closingRepository{pool: pool}
}

// LatestAccountSnapshots retrieves each account's most recent closing
// snapshot. Recency follows the end date of the period the snapshot belongs
// to, so reversing a close transparently re-exposes the previous snapshot.
func (r *closingRepository) LatestAccountSnapshots(ctx context.Context) (map[string]domain.AccountClosingSnapshot, error) {
	query := `
		SELECT DISTINCT ON (s.account_id)
			s.snapshot_id, s.account_id, s.period_id, s.` + snapshotValueColumns + `
		FROM account_closing_snapshots s
		JOIN periods p ON p.period_id = s.period_id
		ORDER BY s.account_id, p.end_date DESC;
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest account snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := map[string]domain.AccountClosingSnapshot{}
	for rows.Next() {
		var s domain.AccountClosingSnapshot
		if err := scanAccountSnapshot(rows, &s); err != nil {
			return nil, err
		}
		snapshots[s.AccountID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account snapshot rows: %w", err)
	}
	return snapshots, nil
}

// LatestClientSnapshots retrieves each client's most recent closing snapshot.
func (r *closingRepository) LatestClientSnapshots(ctx context.Context) (map[string]domain.ClientClosingSnapshot, error) {
	query := `
		SELECT DISTINCT ON (s.client_id)
			s.snapshot_id, s.client_id, s.period_id, s.` + snapshotValueColumns + `
		FROM client_closing_snapshots s
		JOIN periods p ON p.period_id = s.period_id
		ORDER BY s.client_id, p.end_date DESC;
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest client snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := map[string]domain.ClientClosingSnapshot{}
	for rows.Next() {
		var s domain.ClientClosingSnapshot
		if err := scanClientSnapshot(rows, &s); err != nil {
			return nil, err
		}
		snapshots[s.ClientID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client snapshot rows: %w", err)
	}
	return snapshots, nil
}

// ListAccountSnapshotsByPeriod retrieves all account snapshots of one period.
func (r *closingRepository) ListAccountSnapshotsByPeriod(ctx context.Context, periodID string) ([]domain.AccountClosingSnapshot, error) {
	query := `
		SELECT snapshot_id, account_id, period_id, ` + snapshotValueColumns + `
		FROM account_closing_snapshots
		WHERE period_id = $1
		ORDER BY account_id;
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account snapshots of period %s: %w", periodID, err)
	}
	defer rows.Close()

	snapshots := []domain.AccountClosingSnapshot{}
	for rows.Next() {
		var s domain.AccountClosingSnapshot
		if err := scanAccountSnapshot(rows, &s); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account snapshot rows: %w", err)
	}
	return snapshots, nil
}

// ListClientSnapshotsByPeriod retrieves all client snapshots of one period.
func (r *closingRepository) ListClientSnapshotsByPeriod(ctx context.Context, periodID string) ([]domain.ClientClosingSnapshot, error) {
	query := `
		SELECT snapshot_id, client_id, period_id, ` + snapshotValueColumns + `
		FROM client_closing_snapshots
		WHERE period_id = $1
		ORDER BY client_id;
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query client snapshots of period %s: %w", periodID, err)
	}
	defer rows.Close()

	snapshots := []domain.ClientClosingSnapshot{}
	for rows.Next() {
		var s domain.ClientClosingSnapshot
		if err := scanClientSnapshot(rows, &s); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client snapshot rows: %w", err)
	}
	return snapshots, nil
}

// SaveAccountSnapshots persists a batch of account snapshots.
func (r *closingRepository) SaveAccountSnapshots(ctx context.Context, snapshots []domain.AccountClosingSnapshot) error {
	query := `
		INSERT INTO account_closing_snapshots (snapshot_id, account_id, period_id, ` + snapshotValueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, s := range snapshots {
		batch.Queue(query,
			s.SnapshotID, s.AccountID, s.PeriodID,
			s.OpeningDebit, s.OpeningCredit, s.OpeningBalance,
			s.ClosingDebit, s.ClosingCredit, s.ClosingBalance,
			s.LastUpdated,
		)
	}
	if err := querier(ctx, r.pool).SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert account snapshots: %w", err)
	}
	return nil
}

// SaveClientSnapshots persists a batch of client snapshots.
func (r *closingRepository) SaveClientSnapshots(ctx context.Context, snapshots []domain.ClientClosingSnapshot) error {
	query := `
		INSERT INTO client_closing_snapshots (snapshot_id, client_id, period_id, ` + snapshotValueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, s := range snapshots {
		batch.Queue(query,
			s.SnapshotID, s.ClientID, s.PeriodID,
			s.OpeningDebit, s.OpeningCredit, s.OpeningBalance,
			s.ClosingDebit, s.ClosingCredit, s.ClosingBalance,
			s.LastUpdated,
		)
	}
	if err := querier(ctx, r.pool).SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert client snapshots: %w", err)
	}
	return nil
}

// DeleteSnapshotsByPeriod removes every account and client snapshot of one period.
func (r *closingRepository) DeleteSnapshotsByPeriod(ctx context.Context, periodID string) error {
	q := querier(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM account_closing_snapshots WHERE period_id = $1;`, periodID); err != nil {
		return fmt.Errorf("failed to delete account snapshots of period %s: %w", periodID, err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM client_closing_snapshots WHERE period_id = $1;`, periodID); err != nil {
		return fmt.Errorf("failed to delete client snapshots of period %s: %w", periodID, err)
	}
	return nil
}

func scanAccountSnapshot(rows pgx.Rows, s *domain.AccountClosingSnapshot) error {
	if err := rows.Scan(
		&s.SnapshotID, &s.AccountID, &s.PeriodID,
		&s.OpeningDebit, &s.OpeningCredit, &s.OpeningBalance,
		&s.ClosingDebit, &s.ClosingCredit, &s.ClosingBalance,
		&s.LastUpdated,
	); err != nil {
		return fmt.Errorf("failed to scan account snapshot row: %w", err)
	}
	return nil
}

func scanClientSnapshot(rows pgx.Rows, s *domain.ClientClosingSnapshot) error {
	if err := rows.Scan(
		&s.SnapshotID, &s.ClientID, &s.PeriodID,
		&s.OpeningDebit, &s.OpeningCredit, &s.OpeningBalance,
		&s.ClosingDebit, &s.ClosingCredit, &s.ClosingBalance,
		&s.LastUpdated,
	); err != nil {
		return fmt.Errorf("failed to scan client snapshot row: %w", err)
	}
	return nil
}
