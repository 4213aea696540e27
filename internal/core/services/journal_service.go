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

// applyDirection selects whether a journal's deltas are added to or removed
// from the live running totals.
type applyDirection int

const (
	directionPost applyDirection = iota
	directionUnpost
)

// journalService implements the journal engine: balanced journal entry
// validation, persistence, and the posting cycle that keeps account and
// client running totals live.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	clientRepo  portsrepo.ClientLedgerRepositoryFacade
	periodRepo  portsrepo.PeriodReader
	txManager   portsrepo.TxManager
}

// NewJournalService creates a new journal engine service.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	clientRepo portsrepo.ClientLedgerRepositoryFacade,
	periodRepo portsrepo.PeriodReader,
	txManager portsrepo.TxManager,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
		periodRepo:  periodRepo,
		txManager:   txManager,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateLineSums checks every amount is non-negative and that the debit and
// credit sums match exactly.
func validateLineSums(lines []dto.CreateJournalLineRequest) error {
	debitSum := decimal.Zero
	creditSum := decimal.Zero
	for _, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: negative amount on account %s", apperrors.ErrValidation, line.AccountID)
		}
		debitSum = debitSum.Add(line.Debit)
		creditSum = creditSum.Add(line.Credit)
	}
	if !debitSum.Equal(creditSum) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s", apperrors.ErrUnbalanced, debitSum, creditSum)
	}
	return nil
}

// resolveAccounts fetches every referenced account, failing with ErrNotFound
// naming the first missing id.
func (s *journalService) resolveAccounts(ctx context.Context, lines []dto.CreateJournalLineRequest) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		if _, found := accounts[id]; !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// buildLines materializes domain lines, computing each line's signed balance
// from the referenced account's nature.
func buildLines(journalID string, reqs []dto.CreateJournalLineRequest, accounts map[string]domain.Account, actorID string, now time.Time) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, req := range reqs {
		account := accounts[req.AccountID]
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   req.AccountID,
			Debit:       req.Debit,
			Credit:      req.Credit,
			Description: req.Description,
			ClientID:    req.ClientID,
			Balance:     account.Nature.BalanceOf(req.Debit, req.Credit),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}
	return lines
}

// CreateJournal validates and persists a balanced journal entry in DRAFT.
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, actorID string) (*domain.JournalHeader, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: journal requires at least one line", apperrors.ErrValidation)
	}
	if err := validateLineSums(req.Lines); err != nil {
		return nil, err
	}

	periodID, err := s.resolvePeriodID(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.resolveAccounts(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journalDate := req.Date
	if journalDate.IsZero() {
		journalDate = now
	}
	journalType := req.JournalType
	if journalType == "" {
		journalType = domain.TypeGeneral
	}
	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = domain.SourceManual
	}

	journal := domain.JournalHeader{
		JournalID:   uuid.NewString(),
		PeriodID:    periodID,
		Reference:   req.Reference,
		Description: req.Description,
		JournalType: journalType,
		SourceType:  sourceType,
		SourceID:    req.SourceID,
		Status:      domain.Draft,
		JournalDate: journalDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	journal.Lines = buildLines(journal.JournalID, req.Lines, accounts, actorID, now)

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		return s.journalRepo.SaveJournal(ctx, journal, journal.Lines)
	})
	if err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Journal created", slog.String("journal_id", journal.JournalID), slog.String("period_id", periodID))
	return &journal, nil
}

// resolvePeriodID uses the explicit period when given, otherwise the current
// open period.
func (s *journalService) resolvePeriodID(ctx context.Context, explicit *string) (string, error) {
	if explicit != nil {
		period, err := s.periodRepo.FindPeriodByID(ctx, *explicit)
		if err != nil {
			return "", fmt.Errorf("failed to resolve period %s: %w", *explicit, err)
		}
		return period.PeriodID, nil
	}
	period, err := s.periodRepo.FindOpenPeriod(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrNoOpenPeriod
		}
		return "", fmt.Errorf("failed to resolve open period: %w", err)
	}
	return period.PeriodID, nil
}

// GetJournalByID retrieves a journal header with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindJournalLines(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for journal %s: %w", journalID, err)
	}
	journal.Lines = lines
	return journal, nil
}

// ListJournalsByPeriod retrieves the journal headers of one period.
func (s *journalService) ListJournalsByPeriod(ctx context.Context, periodID string) ([]domain.JournalHeader, error) {
	return s.journalRepo.ListJournalsByPeriod(ctx, periodID)
}

// UpdateJournal patches a DRAFT journal. A supplied line set replaces the
// previous one wholesale (delete-all, recreate), with line balances
// recomputed from each account's nature, the same rule CreateJournal uses.
func (s *journalService) UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, actorID string) (*domain.JournalHeader, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status == domain.Posted {
		return nil, fmt.Errorf("%w: journal %s", apperrors.ErrAlreadyPosted, journalID)
	}

	now := time.Now().UTC()
	if req.Reference != nil {
		journal.Reference = *req.Reference
	}
	if req.Description != nil {
		journal.Description = *req.Description
	}
	if req.Date != nil {
		journal.JournalDate = *req.Date
	}
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actorID

	var newLines []domain.JournalLine
	if req.Lines != nil {
		if len(*req.Lines) == 0 {
			return nil, fmt.Errorf("%w: journal requires at least one line", apperrors.ErrValidation)
		}
		if err := validateLineSums(*req.Lines); err != nil {
			return nil, err
		}
		accounts, err := s.resolveAccounts(ctx, *req.Lines)
		if err != nil {
			return nil, err
		}
		newLines = buildLines(journalID, *req.Lines, accounts, actorID, now)
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.journalRepo.UpdateJournalHeader(ctx, *journal); err != nil {
			return err
		}
		if newLines != nil {
			return s.journalRepo.ReplaceJournalLines(ctx, journalID, newLines)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to update journal: %w", err)
	}

	if newLines != nil {
		journal.Lines = newLines
	}
	logger.Info("Journal updated", slog.String("journal_id", journalID))
	return journal, nil
}

// DeleteJournal removes a DRAFT journal and its lines.
func (s *journalService) DeleteJournal(ctx context.Context, journalID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return err
	}
	if journal.Status == domain.Posted {
		return fmt.Errorf("%w: journal %s", apperrors.ErrAlreadyPosted, journalID)
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		return s.journalRepo.DeleteJournal(ctx, journalID)
	})
	if err != nil {
		logger.Error("Failed to delete journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return fmt.Errorf("failed to delete journal: %w", err)
	}

	logger.Info("Journal deleted", slog.String("journal_id", journalID), slog.String("actor_id", actorID))
	return nil
}

// PostJournal applies every line's debit/credit to its account, to every
// ancestor of that account, and to any linked client sub-ledger, then flips
// the journal to POSTED. Runs as one atomic transaction.
func (s *journalService) PostJournal(ctx context.Context, journalID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return err
	}
	if journal.Status == domain.Posted {
		return fmt.Errorf("%w: journal %s", apperrors.ErrAlreadyPosted, journalID)
	}

	lines, err := s.journalRepo.FindJournalLines(ctx, journalID)
	if err != nil {
		return fmt.Errorf("failed to retrieve lines for journal %s: %w", journalID, err)
	}

	now := time.Now().UTC()
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, line := range lines {
			if err := s.applyLine(ctx, line, directionPost); err != nil {
				return err
			}
		}
		return s.journalRepo.UpdateJournalStatus(ctx, journalID, domain.Posted, &actorID, actorID, now)
	})
	if err != nil {
		logger.Error("Failed to post journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return fmt.Errorf("failed to post journal %s: %w", journalID, err)
	}

	logger.Info("Journal posted", slog.String("journal_id", journalID), slog.String("posted_by", actorID))
	return nil
}

// UnpostJournal reverses a POSTED journal's effects and returns it to DRAFT.
// Zakat journals are permanent and refuse unposting.
func (s *journalService) UnpostJournal(ctx context.Context, journalID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return err
	}
	if journal.Status != domain.Posted {
		return fmt.Errorf("%w: journal %s", apperrors.ErrNotPosted, journalID)
	}
	if journal.IsZakat() {
		return fmt.Errorf("%w: journal %s", apperrors.ErrZakatImmutable, journalID)
	}

	lines, err := s.journalRepo.FindJournalLines(ctx, journalID)
	if err != nil {
		return fmt.Errorf("failed to retrieve lines for journal %s: %w", journalID, err)
	}

	now := time.Now().UTC()
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, line := range lines {
			if err := s.applyLine(ctx, line, directionUnpost); err != nil {
				return err
			}
		}
		return s.journalRepo.UpdateJournalStatus(ctx, journalID, domain.Draft, nil, actorID, now)
	})
	if err != nil {
		logger.Error("Failed to unpost journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return fmt.Errorf("failed to unpost journal %s: %w", journalID, err)
	}

	logger.Info("Journal unposted", slog.String("journal_id", journalID), slog.String("actor_id", actorID))
	return nil
}

// applyLine pushes one line's deltas onto its account and every ancestor, and
// onto the linked client sub-ledger when the line carries one. The client is
// touched only for the directly-referenced account, never for ancestors.
func (s *journalService) applyLine(ctx context.Context, line domain.JournalLine, direction applyDirection) error {
	debitDelta := line.Debit
	creditDelta := line.Credit
	if direction == directionUnpost {
		debitDelta = debitDelta.Neg()
		creditDelta = creditDelta.Neg()
	}

	if err := s.applyToAccountChain(ctx, line.AccountID, debitDelta, creditDelta); err != nil {
		return err
	}

	if line.ClientID != nil {
		if err := s.applyToClient(ctx, *line.ClientID, debitDelta, creditDelta); err != nil {
			return err
		}
	}
	return nil
}

// applyToAccountChain walks parent pointers iteratively from the account to
// its root, applying the same deltas at every level so a root account always
// reflects the sum of all descendant postings. The walk terminates because
// the directory keeps the tree acyclic by construction.
func (s *journalService) applyToAccountChain(ctx context.Context, accountID string, debitDelta, creditDelta decimal.Decimal) error {
	currentID := accountID
	for {
		account, err := s.accountRepo.FindAccountByID(ctx, currentID)
		if err != nil {
			return fmt.Errorf("failed to load account %s: %w", currentID, err)
		}

		newDebit := account.Debit.Add(debitDelta)
		newCredit := account.Credit.Add(creditDelta)
		newBalance := account.Nature.BalanceOf(newDebit, newCredit)

		if err := s.accountRepo.UpdateAccountTotals(ctx, currentID, newDebit, newCredit, newBalance); err != nil {
			return fmt.Errorf("failed to update totals of account %s: %w", currentID, err)
		}

		if account.ParentAccountID == nil {
			return nil
		}
		currentID = *account.ParentAccountID
	}
}

// applyToClient updates a client's flat sub-ledger. Client balances are
// always debit − credit, independent of any account nature.
func (s *journalService) applyToClient(ctx context.Context, clientID string, debitDelta, creditDelta decimal.Decimal) error {
	client, err := s.clientRepo.FindClientLedgerByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to load client ledger %s: %w", clientID, err)
	}

	newDebit := client.Debit.Add(debitDelta)
	newCredit := client.Credit.Add(creditDelta)
	newBalance := newDebit.Sub(newCredit)

	if err := s.clientRepo.UpdateClientTotals(ctx, clientID, newDebit, newCredit, newBalance); err != nil {
		return fmt.Errorf("failed to update totals of client %s: %w", clientID, err)
	}
	return nil
}
