package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qardhos/microfin_app/internal/apperrors"
	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
)

const journalColumns = `journal_id, period_id, reference, description, journal_type, source_type, source_id, status, posted_by_id, journal_date, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, journal_id, account_id, debit, credit, description, client_id, balance, created_at, created_by, last_updated_at, last_updated_by`

type journalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new repository for journal and line data.
func NewJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &journalRepository{pool: pool}
}

func scanJournal(row pgx.Row) (*domain.JournalHeader, error) {
	var j domain.JournalHeader
	err := row.Scan(
		&j.JournalID,
		&j.PeriodID,
		&j.Reference,
		&j.Description,
		&j.JournalType,
		&j.SourceType,
		&j.SourceID,
		&j.Status,
		&j.PostedByID,
		&j.JournalDate,
		&j.CreatedAt,
		&j.CreatedBy,
		&j.LastUpdatedAt,
		&j.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func scanJournalLines(rows pgx.Rows) ([]domain.JournalLine, error) {
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var line domain.JournalLine
		if err := rows.Scan(
			&line.LineID,
			&line.JournalID,
			&line.AccountID,
			&line.Debit,
			&line.Credit,
			&line.Description,
			&line.ClientID,
			&line.Balance,
			&line.CreatedAt,
			&line.CreatedBy,
			&line.LastUpdatedAt,
			&line.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}
	return lines, nil
}

// FindJournalByID retrieves a journal header by its ID.
func (r *journalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	journal, err := scanJournal(querier(ctx, r.pool).QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	return journal, nil
}

// FindJournalLines retrieves all lines of one journal in creation order.
func (r *journalRepository) FindJournalLines(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY created_at, line_id;`

	rows, err := querier(ctx, r.pool).Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of journal %s: %w", journalID, err)
	}
	return scanJournalLines(rows)
}

// FindJournalLinesByClient retrieves all lines carrying the given client link,
// newest first.
func (r *journalRepository) FindJournalLinesByClient(ctx context.Context, clientID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE client_id = $1 ORDER BY created_at DESC, line_id;`

	rows, err := querier(ctx, r.pool).Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of client %s: %w", clientID, err)
	}
	return scanJournalLines(rows)
}

// ListJournalsByPeriod retrieves the journal headers of one period, newest first.
func (r *journalRepository) ListJournalsByPeriod(ctx context.Context, periodID string) ([]domain.JournalHeader, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE period_id = $1 ORDER BY journal_date DESC, journal_id;`

	rows, err := querier(ctx, r.pool).Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journals of period %s: %w", periodID, err)
	}
	defer rows.Close()

	journals := []domain.JournalHeader{}
	for rows.Next() {
		journal, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		journals = append(journals, *journal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}
	return journals, nil
}

// CountJournalsByPeriod counts all journals booked into one period.
func (r *journalRepository) CountJournalsByPeriod(ctx context.Context, periodID string) (int, error) {
	query := `SELECT COUNT(*) FROM journals WHERE period_id = $1;`

	var count int
	if err := querier(ctx, r.pool).QueryRow(ctx, query, periodID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count journals of period %s: %w", periodID, err)
	}
	return count, nil
}

// CountDraftJournalsByPeriod counts the DRAFT journals of one period.
func (r *journalRepository) CountDraftJournalsByPeriod(ctx context.Context, periodID string) (int, error) {
	query := `SELECT COUNT(*) FROM journals WHERE period_id = $1 AND status = $2;`

	var count int
	if err := querier(ctx, r.pool).QueryRow(ctx, query, periodID, domain.Draft).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count draft journals of period %s: %w", periodID, err)
	}
	return count, nil
}

// CountJournalLinesByAccount counts lines referencing the given account.
func (r *journalRepository) CountJournalLinesByAccount(ctx context.Context, accountID string) (int, error) {
	query := `SELECT COUNT(*) FROM journal_lines WHERE account_id = $1;`

	var count int
	if err := querier(ctx, r.pool).QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lines of account %s: %w", accountID, err)
	}
	return count, nil
}

// SumPostedLinesByAccount aggregates the debit/credit of all POSTED journals'
// lines in one period, grouped by account.
func (r *journalRepository) SumPostedLinesByAccount(ctx context.Context, periodID string) (map[string]domain.ActivityTotals, error) {
	query := `
		SELECT l.account_id, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE j.period_id = $1 AND j.status = $2
		GROUP BY l.account_id;
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, periodID, domain.Posted)
	if err != nil {
		return nil, fmt.Errorf("failed to sum posted lines of period %s: %w", periodID, err)
	}
	defer rows.Close()

	totals := map[string]domain.ActivityTotals{}
	for rows.Next() {
		var accountID string
		var t domain.ActivityTotals
		if err := rows.Scan(&accountID, &t.Debit, &t.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan account activity row: %w", err)
		}
		totals[accountID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account activity rows: %w", err)
	}
	return totals, nil
}

// SumPostedLinesByClient aggregates the debit/credit of all POSTED journals'
// lines in one period, grouped by client link.
func (r *journalRepository) SumPostedLinesByClient(ctx context.Context, periodID string) (map[string]domain.ActivityTotals, error) {
	query := `
		SELECT l.client_id, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE j.period_id = $1 AND j.status = $2 AND l.client_id IS NOT NULL
		GROUP BY l.client_id;
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, periodID, domain.Posted)
	if err != nil {
		return nil, fmt.Errorf("failed to sum posted client lines of period %s: %w", periodID, err)
	}
	defer rows.Close()

	totals := map[string]domain.ActivityTotals{}
	for rows.Next() {
		var clientID string
		var t domain.ActivityTotals
		if err := rows.Scan(&clientID, &t.Debit, &t.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan client activity row: %w", err)
		}
		totals[clientID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client activity rows: %w", err)
	}
	return totals, nil
}

func queueLineInserts(batch *pgx.Batch, lines []domain.JournalLine) {
	query := `
		INSERT INTO journal_lines (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, line := range lines {
		batch.Queue(query,
			line.LineID,
			line.JournalID,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.Description,
			line.ClientID,
			line.Balance,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
}

// SaveJournal persists a journal header with its lines. Callers run it inside
// TxManager.WithTx so header and lines land atomically.
func (r *journalRepository) SaveJournal(ctx context.Context, journal domain.JournalHeader, lines []domain.JournalLine) error {
	q := querier(ctx, r.pool)

	headerQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := q.Exec(ctx, headerQuery,
		journal.JournalID,
		journal.PeriodID,
		journal.Reference,
		journal.Description,
		journal.JournalType,
		journal.SourceType,
		journal.SourceID,
		journal.Status,
		journal.PostedByID,
		journal.JournalDate,
		journal.CreatedAt,
		journal.CreatedBy,
		journal.LastUpdatedAt,
		journal.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal %s: %w", journal.JournalID, err)
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, lines)
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert lines of journal %s: %w", journal.JournalID, err)
	}
	return nil
}

// UpdateJournalHeader updates the mutable header fields of a journal.
func (r *journalRepository) UpdateJournalHeader(ctx context.Context, journal domain.JournalHeader) error {
	query := `
		UPDATE journals
		SET reference = $2, description = $3, journal_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE journal_id = $1;
	`
	tag, err := querier(ctx, r.pool).Exec(ctx, query,
		journal.JournalID,
		journal.Reference,
		journal.Description,
		journal.JournalDate,
		journal.LastUpdatedAt,
		journal.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal %s: %w", journal.JournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceJournalLines deletes the existing lines of a journal and inserts the
// replacement set.
func (r *journalRepository) ReplaceJournalLines(ctx context.Context, journalID string, lines []domain.JournalLine) error {
	q := querier(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, journalID); err != nil {
		return fmt.Errorf("failed to delete lines of journal %s: %w", journalID, err)
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, lines)
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert replacement lines of journal %s: %w", journalID, err)
	}
	return nil
}

// UpdateJournalStatus flips a journal's status and posted-by stamp.
func (r *journalRepository) UpdateJournalStatus(ctx context.Context, journalID string, status domain.JournalStatus, postedByID *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2, posted_by_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1;
	`
	tag, err := querier(ctx, r.pool).Exec(ctx, query, journalID, status, postedByID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of journal %s: %w", journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteJournal removes a journal's lines and then its header.
func (r *journalRepository) DeleteJournal(ctx context.Context, journalID string) error {
	q := querier(ctx, r.pool)

	if _, err := q.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, journalID); err != nil {
		return fmt.Errorf("failed to delete lines of journal %s: %w", journalID, err)
	}

	tag, err := q.Exec(ctx, `DELETE FROM journals WHERE journal_id = $1;`, journalID)
	if err != nil {
		return fmt.Errorf("failed to delete journal %s: %w", journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
