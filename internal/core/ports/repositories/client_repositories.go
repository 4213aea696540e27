package repositories

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClientLedgerReader defines read operations for client sub-ledgers.
type ClientLedgerReader interface {
	// FindClientLedgerByID retrieves one client ledger row.
	FindClientLedgerByID(ctx context.Context, clientID string) (*domain.ClientLedger, error)

	// ListClientLedgers retrieves every client ledger row.
	ListClientLedgers(ctx context.Context) ([]domain.ClientLedger, error)
}

// ClientLedgerWriter defines write operations for client sub-ledgers.
type ClientLedgerWriter interface {
	// SaveClientLedger persists a new client ledger row.
	SaveClientLedger(ctx context.Context, ledger domain.ClientLedger) error

	// UpdateClientTotals overwrites a client's running debit, credit and
	// balance. Used exclusively by journal posting/unposting.
	UpdateClientTotals(ctx context.Context, clientID string, debit, credit, balance decimal.Decimal) error
}

// ClientLedgerRepositoryFacade combines the client ledger interfaces.
type ClientLedgerRepositoryFacade interface {
	ClientLedgerReader
	ClientLedgerWriter
}

// PartnerReader resolves partner ledger links for the period close.
type PartnerReader interface {
	// FindPartnerByID retrieves one partner.
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)

	// FindPartnersByIDs retrieves multiple partners keyed by their IDs.
	FindPartnersByIDs(ctx context.Context, partnerIDs []string) (map[string]domain.Partner, error)
}
