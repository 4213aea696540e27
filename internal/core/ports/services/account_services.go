package services

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/qardhos/microfin_app/internal/dto"
)

// AccountSvcFacade defines the account directory operations.
type AccountSvcFacade interface {
	// CreateAccount adds a node to the chart of accounts.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// UpdateAccount patches descriptive fields. Parent changes are rejected
	// when they would make the account its own ancestor.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)

	// DeleteAccount removes an account that has no children and no journal lines.
	DeleteAccount(ctx context.Context, accountID string, actorID string) error

	// GetAccountByID retrieves one account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves one account by its unique code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// GetFirstAccountByBasicType retrieves the first account carrying the
	// given semantic tag.
	GetFirstAccountByBasicType(ctx context.Context, basicType domain.BasicAccountType) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by id.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the whole chart of accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// GetAncestorChain walks parent pointers from the account to its root,
	// returning the chain starting with the account itself.
	GetAncestorChain(ctx context.Context, accountID string) ([]domain.Account, error)
}
