package repositories

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations over the chart of accounts.
type AccountReader interface {
	// FindAccountByID retrieves a single account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves a single account by its unique code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindFirstAccountByBasicType retrieves the first account tagged with the
	// given basic type, in code order.
	FindFirstAccountByBasicType(ctx context.Context, basicType domain.BasicAccountType) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by their IDs.
	// Missing IDs are simply absent from the result.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves every account, in code order.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// HasChildAccounts reports whether any account references the given one
	// as its parent.
	HasChildAccounts(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations over the chart of accounts.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountDetails updates the mutable descriptive fields of an
	// account (name, parent, basic type, active flag).
	UpdateAccountDetails(ctx context.Context, account domain.Account) error

	// UpdateAccountTotals overwrites the live cumulative debit, credit and
	// balance of one account. Used exclusively by journal posting/unposting.
	UpdateAccountTotals(ctx context.Context, accountID string, debit, credit, balance decimal.Decimal) error

	// DeleteAccount removes an account row.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
