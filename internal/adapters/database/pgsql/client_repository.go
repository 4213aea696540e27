package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/qardhos/microfin_app/internal/apperrors"
	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
)

const clientColumns = `client_id, name, debit, credit, balance, created_at, created_by, last_updated_at, last_updated_by`

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new repository for client sub-ledgers.
func NewClientRepository(pool *pgxpool.Pool) portsrepo.ClientLedgerRepositoryFacade {
	return &clientRepository{pool: pool}
}

func scanClient(row pgx.Row) (*domain.ClientLedger, error) {
	var c domain.ClientLedger
	err := row.Scan(
		&c.ClientID,
		&c.Name,
		&c.Debit,
		&c.Credit,
		&c.Balance,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindClientLedgerByID retrieves one client ledger row.
func (r *clientRepository) FindClientLedgerByID(ctx context.Context, clientID string) (*domain.ClientLedger, error) {
	query := `SELECT ` + clientColumns + ` FROM client_ledgers WHERE client_id = $1;`

	client, err := scanClient(querier(ctx, r.pool).QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client ledger %s: %w", clientID, err)
	}
	return client, nil
}

// ListClientLedgers retrieves every client ledger row.
func (r *clientRepository) ListClientLedgers(ctx context.Context) ([]domain.ClientLedger, error) {
	query := `SELECT ` + clientColumns + ` FROM client_ledgers ORDER BY name, client_id;`

	rows, err := querier(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query client ledgers: %w", err)
	}
	defer rows.Close()

	clients := []domain.ClientLedger{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client ledger row: %w", err)
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client ledger rows: %w", err)
	}
	return clients, nil
}

// SaveClientLedger persists a new client ledger row.
func (r *clientRepository) SaveClientLedger(ctx context.Context, ledger domain.ClientLedger) error {
	query := `
		INSERT INTO client_ledgers (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		ledger.ClientID,
		ledger.Name,
		ledger.Debit,
		ledger.Credit,
		ledger.Balance,
		ledger.CreatedAt,
		ledger.CreatedBy,
		ledger.LastUpdatedAt,
		ledger.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save client ledger %s: %w", ledger.ClientID, err)
	}
	return nil
}

// UpdateClientTotals overwrites a client's running debit, credit and balance.
func (r *clientRepository) UpdateClientTotals(ctx context.Context, clientID string, debit, credit, balance decimal.Decimal) error {
	query := `
		UPDATE client_ledgers
		SET debit = $2, credit = $3, balance = $4
		WHERE client_id = $1;
	`
	tag, err := querier(ctx, r.pool).Exec(ctx, query, clientID, debit, credit, balance)
	if err != nil {
		return fmt.Errorf("failed to update totals of client %s: %w", clientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const partnerColumns = `partner_id, name, payable_account_id, equity_account_id, created_at, created_by, last_updated_at, last_updated_by`

type partnerRepository struct {
	pool *pgxpool.Pool
}

// NewPartnerRepository creates a read-only repository for partner ledger links.
func NewPartnerRepository(pool *pgxpool.Pool) portsrepo.PartnerReader {
	return &partnerRepository{pool: pool}
}

func scanPartner(row pgx.Row) (*domain.Partner, error) {
	var p domain.Partner
	err := row.Scan(
		&p.PartnerID,
		&p.Name,
		&p.PayableAccountID,
		&p.EquityAccountID,
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

// FindPartnerByID retrieves one partner.
func (r *partnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE partner_id = $1;`

	partner, err := scanPartner(querier(ctx, r.pool).QueryRow(ctx, query, partnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, err)
	}
	return partner, nil
}

// FindPartnersByIDs retrieves multiple partners keyed by their IDs.
func (r *partnerRepository) FindPartnersByIDs(ctx context.Context, partnerIDs []string) (map[string]domain.Partner, error) {
	partners := make(map[string]domain.Partner, len(partnerIDs))
	if len(partnerIDs) == 0 {
		return partners, nil
	}

	query := `SELECT ` + partnerColumns + ` FROM partners WHERE partner_id = ANY($1);`

	rows, err := querier(ctx, r.pool).Query(ctx, query, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner row: %w", err)
		}
		partners[partner.PartnerID] = *partner
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner rows: %w", err)
	}
	return partners, nil
}
