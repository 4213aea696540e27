package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
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

// periodService implements the period closer: authoritative per-period
// balance recomputation, partner accrual folding, and reversible closes.
type periodService struct {
	periodRepo  portsrepo.PeriodRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	clientRepo  portsrepo.ClientLedgerReader
	closingRepo portsrepo.ClosingRepositoryFacade
	accrualRepo portsrepo.AccrualRepositoryFacade
	partnerRepo portsrepo.PartnerReader
	journalSvc  portssvc.JournalSvcFacade
	txManager   portsrepo.TxManager
}

// NewPeriodService creates a new period closer service.
func NewPeriodService(
	periodRepo portsrepo.PeriodRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	clientRepo portsrepo.ClientLedgerReader,
	closingRepo portsrepo.ClosingRepositoryFacade,
	accrualRepo portsrepo.AccrualRepositoryFacade,
	partnerRepo portsrepo.PartnerReader,
	journalSvc portssvc.JournalSvcFacade,
	txManager portsrepo.TxManager,
) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo:  periodRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
		closingRepo: closingRepo,
		accrualRepo: accrualRepo,
		partnerRepo: partnerRepo,
		journalSvc:  journalSvc,
		txManager:   txManager,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// ResolveCurrentPeriod returns the single open period.
func (s *periodService) ResolveCurrentPeriod(ctx context.Context) (*domain.Period, error) {
	period, err := s.periodRepo.FindOpenPeriod(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNoOpenPeriod
		}
		return nil, fmt.Errorf("failed to resolve open period: %w", err)
	}
	return period, nil
}

// EnsureOpenPeriod returns the current open period, creating the first one
// when no period exists yet. A fresh database has no rows in periods, so
// nothing could be journaled before this runs.
func (s *periodService) EnsureOpenPeriod(ctx context.Context, actorID string) (*domain.Period, error) {
	period, err := s.periodRepo.FindOpenPeriod(ctx)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve open period: %w", err)
	}

	now := time.Now().UTC()
	first := domain.Period{
		PeriodID:  uuid.NewString(),
		Name:      fmt.Sprintf("Period from %s", now.Format("2006-01-02")),
		StartDate: now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.periodRepo.SavePeriod(ctx, first); err != nil {
		return nil, fmt.Errorf("failed to create initial period: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Initial period created", slog.String("period_id", first.PeriodID))
	return &first, nil
}

func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

func (s *periodService) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	return s.periodRepo.ListPeriods(ctx)
}

// partnerTotal accumulates one partner's accrued share during grouping.
type partnerTotal struct {
	partnerID string
	total     decimal.Decimal
}

// groupAccruals sums partnerFinal per partner (sorted by partner id for a
// deterministic closing journal) and the total company cut.
func groupAccruals(accruals []domain.PartnerShareAccrual) ([]partnerTotal, decimal.Decimal) {
	byPartner := make(map[string]decimal.Decimal)
	companyTotal := decimal.Zero
	for _, accrual := range accruals {
		byPartner[accrual.PartnerID] = byPartner[accrual.PartnerID].Add(accrual.PartnerFinal)
		companyTotal = companyTotal.Add(accrual.CompanyCut)
	}

	totals := make([]partnerTotal, 0, len(byPartner))
	for partnerID, total := range byPartner {
		totals = append(totals, partnerTotal{partnerID: partnerID, total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].partnerID < totals[j].partnerID })
	return totals, companyTotal
}

// ClosePeriod recomputes every account's and client's authoritative period
// balances, folds the period's partner accruals into one DRAFT closing
// journal, closes the period and opens a successor. Atomic.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, actorID string) (*dto.ClosePeriodResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed || period.ClosingJournalID != nil {
		return nil, fmt.Errorf("%w: period %s", apperrors.ErrAlreadyClosed, periodID)
	}

	draftCount, err := s.journalRepo.CountDraftJournalsByPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to count draft journals: %w", err)
	}
	if draftCount > 0 {
		return nil, fmt.Errorf("%w: %d draft journals in period %s", apperrors.ErrUnclosedDrafts, draftCount, periodID)
	}

	accruals, err := s.accrualRepo.ListAccrualsByPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accruals: %w", err)
	}

	now := time.Now().UTC()
	result := &dto.ClosePeriodResult{}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		closingJournalID, err := s.createClosingJournal(ctx, period, accruals, actorID, now)
		if err != nil {
			return err
		}
		result.ClosingJournalID = closingJournalID

		if len(accruals) > 0 {
			if err := s.accrualRepo.MarkAccrualsClosed(ctx, periodID, actorID); err != nil {
				return fmt.Errorf("failed to mark accruals closed: %w", err)
			}
			if err := s.savePartnerProfits(ctx, periodID, accruals, actorID, now); err != nil {
				return err
			}
		}

		if err := s.snapshotAccounts(ctx, periodID, now); err != nil {
			return err
		}
		if err := s.snapshotClients(ctx, periodID, now); err != nil {
			return err
		}

		// Stamp the closing period before inserting the successor. The
		// periods table enforces at most one open row per statement, so the
		// old row must lose its open state first.
		endDate := now
		period.IsClosed = true
		period.EndDate = &endDate
		period.ClosingJournalID = closingJournalID
		period.LastUpdatedAt = now
		period.LastUpdatedBy = actorID
		if err := s.periodRepo.UpdatePeriod(ctx, *period); err != nil {
			return fmt.Errorf("failed to close period: %w", err)
		}

		newPeriod := domain.Period{
			PeriodID:  uuid.NewString(),
			Name:      fmt.Sprintf("Period from %s", now.Format("2006-01-02")),
			StartDate: now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
		if err := s.periodRepo.SavePeriod(ctx, newPeriod); err != nil {
			return fmt.Errorf("failed to open successor period: %w", err)
		}
		result.NewPeriodID = newPeriod.PeriodID
		return nil
	})
	if err != nil {
		logger.Error("Failed to close period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, err
	}

	logger.Info("Period closed",
		slog.String("period_id", periodID),
		slog.String("new_period_id", result.NewPeriodID),
		slog.Bool("closing_journal_created", result.ClosingJournalID != nil))
	return result, nil
}

// createClosingJournal folds accrued partner shares into one DRAFT closing
// journal: per partner, debit loan income / credit the partner's payable;
// plus one pair recognizing the company's cut. Amounts are rounded to 2
// decimals so float drift from many small accruals cannot accumulate. When
// nothing rounds to a nonzero amount, no journal is created.
func (s *periodService) createClosingJournal(ctx context.Context, period *domain.Period, accruals []domain.PartnerShareAccrual, actorID string, now time.Time) (*string, error) {
	partnerTotals, companyTotal := groupAccruals(accruals)

	var lineReqs []dto.CreateJournalLineRequest
	if len(partnerTotals) > 0 {
		partnerIDs := make([]string, len(partnerTotals))
		for i, pt := range partnerTotals {
			partnerIDs[i] = pt.partnerID
		}
		partners, err := s.partnerRepo.FindPartnersByIDs(ctx, partnerIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve partners: %w", err)
		}

		loanIncome, err := s.accountRepo.FindFirstAccountByBasicType(ctx, domain.BasicLoanIncome)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve loan income account: %w", err)
		}

		for _, pt := range partnerTotals {
			amount := pt.total.Round(2)
			if amount.IsZero() {
				continue
			}
			partner, found := partners[pt.partnerID]
			if !found {
				return nil, fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, pt.partnerID)
			}
			lineReqs = append(lineReqs,
				dto.CreateJournalLineRequest{
					AccountID:   loanIncome.AccountID,
					Debit:       amount,
					Description: fmt.Sprintf("Profit share accrued to %s", partner.Name),
				},
				dto.CreateJournalLineRequest{
					AccountID:   partner.PayableAccountID,
					Credit:      amount,
					Description: fmt.Sprintf("Profit share payable to %s", partner.Name),
				},
			)
		}

		companyCut := companyTotal.Round(2)
		if companyCut.IsPositive() {
			companyShares, err := s.accountRepo.FindFirstAccountByBasicType(ctx, domain.BasicCompanyShares)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve company share account: %w", err)
			}
			lineReqs = append(lineReqs,
				dto.CreateJournalLineRequest{
					AccountID:   loanIncome.AccountID,
					Debit:       companyCut,
					Description: "Company share of accrued profit",
				},
				dto.CreateJournalLineRequest{
					AccountID:   companyShares.AccountID,
					Credit:      companyCut,
					Description: "Company share of accrued profit",
				},
			)
		}
	}

	if len(lineReqs) == 0 {
		return nil, nil
	}

	closing, err := s.journalSvc.CreateJournal(ctx, dto.CreateJournalRequest{
		PeriodID:    &period.PeriodID,
		Reference:   fmt.Sprintf("CLOSE-%s", period.PeriodID),
		Description: fmt.Sprintf("Closing journal for %s", period.Name),
		JournalType: domain.TypeClosing,
		SourceType:  domain.SourcePeriodClosing,
		Date:        now,
		Lines:       lineReqs,
	}, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create closing journal: %w", err)
	}
	return &closing.JournalID, nil
}

// savePartnerProfits writes one PartnerPeriodProfit row per partner with that
// partner's summed accrued share.
func (s *periodService) savePartnerProfits(ctx context.Context, periodID string, accruals []domain.PartnerShareAccrual, actorID string, now time.Time) error {
	partnerTotals, _ := groupAccruals(accruals)
	profits := make([]domain.PartnerPeriodProfit, len(partnerTotals))
	for i, pt := range partnerTotals {
		profits[i] = domain.PartnerPeriodProfit{
			ProfitID:    uuid.NewString(),
			PartnerID:   pt.partnerID,
			PeriodID:    periodID,
			TotalProfit: pt.total,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}
	if err := s.accrualRepo.SavePartnerPeriodProfits(ctx, profits); err != nil {
		return fmt.Errorf("failed to save partner period profits: %w", err)
	}
	return nil
}

// snapshotAccounts recomputes every account's period activity from posted
// journal lines, folds descendants bottom-up (memoized, one pass per
// account), carries the prior snapshot forward as opening values, and writes
// one snapshot per account. The result is independent of the live running
// totals and must agree with them.
func (s *periodService) snapshotAccounts(ctx context.Context, periodID string, now time.Time) error {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	activity, err := s.journalRepo.SumPostedLinesByAccount(ctx, periodID)
	if err != nil {
		return fmt.Errorf("failed to aggregate period lines by account: %w", err)
	}

	childIndex := make(map[string][]string)
	for _, account := range accounts {
		if account.ParentAccountID != nil {
			childIndex[*account.ParentAccountID] = append(childIndex[*account.ParentAccountID], account.AccountID)
		}
	}

	memo := make(map[string]domain.ActivityTotals, len(accounts))
	var fold func(accountID string) domain.ActivityTotals
	fold = func(accountID string) domain.ActivityTotals {
		if totals, ok := memo[accountID]; ok {
			return totals
		}
		totals := activity[accountID]
		for _, childID := range childIndex[accountID] {
			totals = totals.Add(fold(childID))
		}
		memo[accountID] = totals
		return totals
	}

	prior, err := s.closingRepo.LatestAccountSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to load prior account snapshots: %w", err)
	}

	snapshots := make([]domain.AccountClosingSnapshot, len(accounts))
	for i, account := range accounts {
		totals := fold(account.AccountID)

		snapshot := domain.AccountClosingSnapshot{
			SnapshotID:  uuid.NewString(),
			AccountID:   account.AccountID,
			PeriodID:    periodID,
			LastUpdated: now,
		}
		if previous, ok := prior[account.AccountID]; ok {
			snapshot.OpeningDebit = previous.ClosingDebit
			snapshot.OpeningCredit = previous.ClosingCredit
			snapshot.OpeningBalance = previous.ClosingBalance
		}
		snapshot.ClosingDebit = snapshot.OpeningDebit.Add(totals.Debit)
		snapshot.ClosingCredit = snapshot.OpeningCredit.Add(totals.Credit)
		snapshot.ClosingBalance = snapshot.OpeningBalance.Add(account.Nature.BalanceOf(totals.Debit, totals.Credit))
		snapshots[i] = snapshot
	}

	if err := s.closingRepo.SaveAccountSnapshots(ctx, snapshots); err != nil {
		return fmt.Errorf("failed to save account snapshots: %w", err)
	}
	return nil
}

// snapshotClients writes one snapshot per client ledger row, including
// zero-activity clients, from period-scoped posted line aggregation.
func (s *periodService) snapshotClients(ctx context.Context, periodID string, now time.Time) error {
	clients, err := s.clientRepo.ListClientLedgers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list client ledgers: %w", err)
	}

	activity, err := s.journalRepo.SumPostedLinesByClient(ctx, periodID)
	if err != nil {
		return fmt.Errorf("failed to aggregate period lines by client: %w", err)
	}

	prior, err := s.closingRepo.LatestClientSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to load prior client snapshots: %w", err)
	}

	snapshots := make([]domain.ClientClosingSnapshot, len(clients))
	for i, client := range clients {
		totals := activity[client.ClientID]

		snapshot := domain.ClientClosingSnapshot{
			SnapshotID:  uuid.NewString(),
			ClientID:    client.ClientID,
			PeriodID:    periodID,
			LastUpdated: now,
		}
		if previous, ok := prior[client.ClientID]; ok {
			snapshot.OpeningDebit = previous.ClosingDebit
			snapshot.OpeningCredit = previous.ClosingCredit
			snapshot.OpeningBalance = previous.ClosingBalance
		}
		snapshot.ClosingDebit = snapshot.OpeningDebit.Add(totals.Debit)
		snapshot.ClosingCredit = snapshot.OpeningCredit.Add(totals.Credit)
		snapshot.ClosingBalance = snapshot.ClosingDebit.Sub(snapshot.ClosingCredit)
		snapshots[i] = snapshot
	}

	if err := s.closingRepo.SaveClientSnapshots(ctx, snapshots); err != nil {
		return fmt.Errorf("failed to save client snapshots: %w", err)
	}
	return nil
}

// ReverseClosePeriod undoes the most recent close. Closings are reversed in
// reverse chronological order only, since each period's opening values come
// from its predecessor's closing snapshot.
func (s *periodService) ReverseClosePeriod(ctx context.Context, periodID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if !period.IsClosed {
		return fmt.Errorf("%w: period %s", apperrors.ErrNotClosed, periodID)
	}

	mostRecent, err := s.periodRepo.FindMostRecentlyClosedPeriod(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve most recently closed period: %w", err)
	}
	if mostRecent.PeriodID != periodID {
		return fmt.Errorf("%w: period %s closed after %s", apperrors.ErrNotMostRecent, mostRecent.PeriodID, periodID)
	}

	if period.ClosingJournalID != nil {
		closing, err := s.journalRepo.FindJournalByID(ctx, *period.ClosingJournalID)
		if err != nil {
			return fmt.Errorf("failed to load closing journal: %w", err)
		}
		if closing.Status == domain.Posted {
			return fmt.Errorf("%w: closing journal %s must be unposted before reversal", apperrors.ErrAlreadyPosted, closing.JournalID)
		}
	}

	successor, err := s.periodRepo.FindOpenPeriod(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve successor period: %w", err)
	}
	journalCount, err := s.journalRepo.CountJournalsByPeriod(ctx, successor.PeriodID)
	if err != nil {
		return fmt.Errorf("failed to count successor journals: %w", err)
	}
	if journalCount > 0 {
		return fmt.Errorf("%w: successor period %s already holds %d journals", apperrors.ErrValidation, successor.PeriodID, journalCount)
	}

	now := time.Now().UTC()
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.closingRepo.DeleteSnapshotsByPeriod(ctx, periodID); err != nil {
			return fmt.Errorf("failed to delete snapshots: %w", err)
		}
		if err := s.accrualRepo.ResetAccrualFlags(ctx, periodID, actorID); err != nil {
			return fmt.Errorf("failed to reset accrual flags: %w", err)
		}
		if err := s.accrualRepo.DeletePartnerPeriodProfitsByPeriod(ctx, periodID); err != nil {
			return fmt.Errorf("failed to delete partner period profits: %w", err)
		}
		if period.ClosingJournalID != nil {
			if err := s.journalRepo.DeleteJournal(ctx, *period.ClosingJournalID); err != nil {
				return fmt.Errorf("failed to delete closing journal: %w", err)
			}
		}
		if err := s.periodRepo.DeletePeriod(ctx, successor.PeriodID); err != nil {
			return fmt.Errorf("failed to delete successor period: %w", err)
		}

		period.IsClosed = false
		period.EndDate = nil
		period.ClosingJournalID = nil
		period.LastUpdatedAt = now
		period.LastUpdatedBy = actorID
		if err := s.periodRepo.UpdatePeriod(ctx, *period); err != nil {
			return fmt.Errorf("failed to restore period: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to reverse period close", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return err
	}

	logger.Info("Period close reversed", slog.String("period_id", periodID), slog.String("actor_id", actorID))
	return nil
}
