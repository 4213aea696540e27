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

const accountColumns = `account_id, code, name, parent_account_id, account_type, nature, basic_type, debit, credit, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new repository for chart-of-accounts data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &accountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.Code,
		&acc.Name,
		&acc.ParentAccountID,
		&acc.AccountType,
		&acc.Nature,
		&acc.BasicType,
		&acc.Debit,
		&acc.Credit,
		&acc.Balance,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	acc, err := scanAccount(querier(ctx, r.pool).QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return acc, nil
}

// FindAccountByCode retrieves an account by its unique code.
func (r *accountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`

	acc, err := scanAccount(querier(ctx, r.pool).QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return acc, nil
}

// FindFirstAccountByBasicType retrieves the first account tagged with the
// given basic type, in code order.
func (r *accountRepository) FindFirstAccountByBasicType(ctx context.Context, basicType domain.BasicAccountType) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE basic_type = $1 ORDER BY code LIMIT 1;`

	acc, err := scanAccount(querier(ctx, r.pool).QueryRow(ctx, query, basicType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by basic type %s: %w", basicType, err)
	}
	return acc, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by their IDs.
func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := querier(ctx, r.pool).Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[acc.AccountID] = *acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves every account, in code order.
func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code;`

	rows, err := querier(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// HasChildAccounts reports whether any account references the given one as parent.
func (r *accountRepository) HasChildAccounts(ctx context.Context, accountID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE parent_account_id = $1);`

	var exists bool
	if err := querier(ctx, r.pool).QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check children of account %s: %w", accountID, err)
	}
	return exists, nil
}

// SaveAccount inserts a new account.
func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		account.AccountID,
		account.Code,
		account.Name,
		account.ParentAccountID,
		account.AccountType,
		account.Nature,
		account.BasicType,
		account.Debit,
		account.Credit,
		account.Balance,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// UpdateAccountDetails updates the mutable descriptive fields of an account.
// Live totals are untouched; only posting may change those.
func (r *accountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET code = $2, name = $3, parent_account_id = $4, account_type = $5, nature = $6, basic_type = $7, is_active = $8, last_updated_at = $9, last_updated_by = $10
		WHERE account_id = $1;
	`
	tag, err := querier(ctx, r.pool).Exec(ctx, query,
		account.AccountID,
		account.Code,
		account.Name,
		account.ParentAccountID,
		account.AccountType,
		account.Nature,
		account.BasicType,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateAccountTotals overwrites the live cumulative totals of one account.
func (r *accountRepository) UpdateAccountTotals(ctx context.Context, accountID string, debit, credit, balance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET debit = $2, credit = $3, balance = $4
		WHERE account_id = $1;
	`
	tag, err := querier(ctx, r.pool).Exec(ctx, query, accountID, debit, credit, balance)
	if err != nil {
		return fmt.Errorf("failed to update totals of account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAccount removes an account row.
func (r *accountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	query := `DELETE FROM accounts WHERE account_id = $1;`

	tag, err := querier(ctx, r.pool).Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
