package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qardhos/microfin_app/internal/apperrors"
	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
	portssvc "github.com/qardhos/microfin_app/internal/core/ports/services"
	"github.com/qardhos/microfin_app/internal/dto"
	"github.com/qardhos/microfin_app/internal/middleware"
)

// accountService implements the account directory: chart-of-accounts lookups
// and structural maintenance of the tree.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalReader
}

// NewAccountService creates a new account directory service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalReader) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.ParentAccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID); err != nil {
			logger.Warn("Parent account not found for account creation", slog.String("parent_id", *req.ParentAccountID))
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
	}

	if existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, req.Code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code uniqueness: %w", err)
	}

	basicType := req.BasicType
	if basicType == "" {
		basicType = domain.BasicOther
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		ParentAccountID: req.ParentAccountID,
		AccountType:     req.AccountType,
		Nature:          req.Nature,
		BasicType:       basicType,
		Debit:           decimal.Zero,
		Credit:          decimal.Zero,
		Balance:         decimal.Zero,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.BasicType != nil {
		account.BasicType = *req.BasicType
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if req.ParentAccountID != nil {
		newParentID := *req.ParentAccountID
		if newParentID == accountID {
			return nil, fmt.Errorf("%w: account cannot be its own parent", apperrors.ErrValidation)
		}
		// Walking the proposed parent's ancestor chain keeps the tree acyclic
		// by construction; posting relies on this to terminate.
		if err := s.ensureNotDescendant(ctx, accountID, newParentID); err != nil {
			return nil, err
		}
		account.ParentAccountID = &newParentID
		updated = true
	}

	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actorID

	if err := s.accountRepo.UpdateAccountDetails(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// ensureNotDescendant fails when candidateParentID is the account itself or
// lies in the account's subtree.
func (s *accountService) ensureNotDescendant(ctx context.Context, accountID, candidateParentID string) error {
	currentID := candidateParentID
	for {
		if currentID == accountID {
			return fmt.Errorf("%w: account %s cannot become a child of its own descendant %s", apperrors.ErrValidation, accountID, candidateParentID)
		}
		current, err := s.accountRepo.FindAccountByID(ctx, currentID)
		if err != nil {
			return fmt.Errorf("invalid parent account %s: %w", candidateParentID, err)
		}
		if current.ParentAccountID == nil {
			return nil
		}
		currentID = *current.ParentAccountID
	}
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}

	hasChildren, err := s.accountRepo.HasChildAccounts(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check child accounts: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s has child accounts", apperrors.ErrValidation, accountID)
	}

	lineCount, err := s.journalRepo.CountJournalLinesByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count journal lines: %w", err)
	}
	if lineCount > 0 {
		return fmt.Errorf("%w: account %s is referenced by %d journal lines", apperrors.ErrValidation, accountID, lineCount)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	logger.Info("Account deleted", slog.String("account_id", accountID), slog.String("actor_id", actorID))
	return nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

func (s *accountService) GetFirstAccountByBasicType(ctx context.Context, basicType domain.BasicAccountType) (*domain.Account, error) {
	return s.accountRepo.FindFirstAccountByBasicType(ctx, basicType)
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

// GetAncestorChain walks parent pointers iteratively from the account to its
// root. The chain starts with the account itself.
func (s *accountService) GetAncestorChain(ctx context.Context, accountID string) ([]domain.Account, error) {
	chain := []domain.Account{}
	currentID := accountID
	for {
		account, err := s.accountRepo.FindAccountByID(ctx, currentID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *account)
		if account.ParentAccountID == nil {
			return chain, nil
		}
		currentID = *account.ParentAccountID
	}
}
