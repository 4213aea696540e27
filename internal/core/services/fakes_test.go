package services_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qardhos/microfin_app/internal/apperrors"
	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
)

// The fakes below are in-memory repository implementations. They keep full
// state so tests can assert on the ledger after multi-step flows (post,
// unpost, close, reverse) instead of only on call expectations.

// --- fakeTxManager ---

type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- fakeAccountRepo ---

type fakeAccountRepo struct {
	accounts map[string]domain.Account
}

var _ portsrepo.AccountRepositoryFacade = (*fakeAccountRepo)(nil)

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *fakeAccountRepo) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	account, ok := r.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (r *fakeAccountRepo) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Code == code {
			found := account
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeAccountRepo) FindFirstAccountByBasicType(_ context.Context, basicType domain.BasicAccountType) (*domain.Account, error) {
	var best *domain.Account
	for _, account := range r.accounts {
		if account.BasicType != basicType {
			continue
		}
		if best == nil || account.Code < best.Code {
			found := account
			best = &found
		}
	}
	if best == nil {
		return nil, apperrors.ErrNotFound
	}
	return best, nil
}

func (r *fakeAccountRepo) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := r.accounts[id]; ok {
			result[id] = account
		}
	}
	return result, nil
}

func (r *fakeAccountRepo) ListAccounts(_ context.Context) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (r *fakeAccountRepo) HasChildAccounts(_ context.Context, accountID string) (bool, error) {
	for _, account := range r.accounts {
		if account.ParentAccountID != nil && *account.ParentAccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) SaveAccount(_ context.Context, account domain.Account) error {
	r.accounts[account.AccountID] = account
	return nil
}

func (r *fakeAccountRepo) UpdateAccountDetails(_ context.Context, account domain.Account) error {
	existing, ok := r.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	account.Debit = existing.Debit
	account.Credit = existing.Credit
	account.Balance = existing.Balance
	r.accounts[account.AccountID] = account
	return nil
}

func (r *fakeAccountRepo) UpdateAccountTotals(_ context.Context, accountID string, debit, credit, balance decimal.Decimal) error {
	account, ok := r.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	account.Debit = debit
	account.Credit = credit
	account.Balance = balance
	r.accounts[accountID] = account
	return nil
}

func (r *fakeAccountRepo) DeleteAccount(_ context.Context, accountID string) error {
	if _, ok := r.accounts[accountID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.accounts, accountID)
	return nil
}

// --- fakeJournalRepo ---

type fakeJournalRepo struct {
	journals map[string]domain.JournalHeader
	lines    map[string][]domain.JournalLine
}

var _ portsrepo.JournalRepositoryFacade = (*fakeJournalRepo)(nil)

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{
		journals: make(map[string]domain.JournalHeader),
		lines:    make(map[string][]domain.JournalLine),
	}
}

func (r *fakeJournalRepo) FindJournalByID(_ context.Context, journalID string) (*domain.JournalHeader, error) {
	journal, ok := r.journals[journalID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	journal.Lines = nil
	return &journal, nil
}

func (r *fakeJournalRepo) FindJournalLines(_ context.Context, journalID string) ([]domain.JournalLine, error) {
	return append([]domain.JournalLine{}, r.lines[journalID]...), nil
}

func (r *fakeJournalRepo) FindJournalLinesByClient(_ context.Context, clientID string) ([]domain.JournalLine, error) {
	var result []domain.JournalLine
	for _, lines := range r.lines {
		for _, line := range lines {
			if line.ClientID != nil && *line.ClientID == clientID {
				result = append(result, line)
			}
		}
	}
	return result, nil
}

func (r *fakeJournalRepo) ListJournalsByPeriod(_ context.Context, periodID string) ([]domain.JournalHeader, error) {
	var result []domain.JournalHeader
	for _, journal := range r.journals {
		if journal.PeriodID == periodID {
			result = append(result, journal)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].JournalID < result[j].JournalID })
	return result, nil
}

func (r *fakeJournalRepo) CountJournalsByPeriod(_ context.Context, periodID string) (int, error) {
	count := 0
	for _, journal := range r.journals {
		if journal.PeriodID == periodID {
			count++
		}
	}
	return count, nil
}

func (r *fakeJournalRepo) CountDraftJournalsByPeriod(_ context.Context, periodID string) (int, error) {
	count := 0
	for _, journal := range r.journals {
		if journal.PeriodID == periodID && journal.Status == domain.Draft {
			count++
		}
	}
	return count, nil
}

func (r *fakeJournalRepo) CountJournalLinesByAccount(_ context.Context, accountID string) (int, error) {
	count := 0
	for _, lines := range r.lines {
		for _, line := range lines {
			if line.AccountID == accountID {
				count++
			}
		}
	}
	return count, nil
}

func (r *fakeJournalRepo) SumPostedLinesByAccount(_ context.Context, periodID string) (map[string]domain.ActivityTotals, error) {
	totals := make(map[string]domain.ActivityTotals)
	for journalID, journal := range r.journals {
		if journal.PeriodID != periodID || journal.Status != domain.Posted {
			continue
		}
		for _, line := range r.lines[journalID] {
			t := totals[line.AccountID]
			t.Debit = t.Debit.Add(line.Debit)
			t.Credit = t.Credit.Add(line.Credit)
			totals[line.AccountID] = t
		}
	}
	return totals, nil
}

func (r *fakeJournalRepo) SumPostedLinesByClient(_ context.Context, periodID string) (map[string]domain.ActivityTotals, error) {
	totals := make(map[string]domain.ActivityTotals)
	for journalID, journal := range r.journals {
		if journal.PeriodID != periodID || journal.Status != domain.Posted {
			continue
		}
		for _, line := range r.lines[journalID] {
			if line.ClientID == nil {
				continue
			}
			t := totals[*line.ClientID]
			t.Debit = t.Debit.Add(line.Debit)
			t.Credit = t.Credit.Add(line.Credit)
			totals[*line.ClientID] = t
		}
	}
	return totals, nil
}

func (r *fakeJournalRepo) SaveJournal(_ context.Context, journal domain.JournalHeader, lines []domain.JournalLine) error {
	journal.Lines = nil
	r.journals[journal.JournalID] = journal
	r.lines[journal.JournalID] = append([]domain.JournalLine{}, lines...)
	return nil
}

func (r *fakeJournalRepo) UpdateJournalHeader(_ context.Context, journal domain.JournalHeader) error {
	existing, ok := r.journals[journal.JournalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Reference = journal.Reference
	existing.Description = journal.Description
	existing.JournalDate = journal.JournalDate
	existing.LastUpdatedAt = journal.LastUpdatedAt
	existing.LastUpdatedBy = journal.LastUpdatedBy
	r.journals[journal.JournalID] = existing
	return nil
}

func (r *fakeJournalRepo) ReplaceJournalLines(_ context.Context, journalID string, lines []domain.JournalLine) error {
	r.lines[journalID] = append([]domain.JournalLine{}, lines...)
	return nil
}

func (r *fakeJournalRepo) UpdateJournalStatus(_ context.Context, journalID string, status domain.JournalStatus, postedByID *string, updatedBy string, updatedAt time.Time) error {
	journal, ok := r.journals[journalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	journal.Status = status
	journal.PostedByID = postedByID
	journal.LastUpdatedBy = updatedBy
	journal.LastUpdatedAt = updatedAt
	r.journals[journalID] = journal
	return nil
}

func (r *fakeJournalRepo) DeleteJournal(_ context.Context, journalID string) error {
	if _, ok := r.journals[journalID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.journals, journalID)
	delete(r.lines, journalID)
	return nil
}

// --- fakePeriodRepo ---

type fakePeriodRepo struct {
	periods map[string]domain.Period
}

var _ portsrepo.PeriodRepositoryFacade = (*fakePeriodRepo)(nil)

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: make(map[string]domain.Period)}
}

func (r *fakePeriodRepo) FindPeriodByID(_ context.Context, periodID string) (*domain.Period, error) {
	period, ok := r.periods[periodID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &period, nil
}

func (r *fakePeriodRepo) FindOpenPeriod(_ context.Context) (*domain.Period, error) {
	for _, period := range r.periods {
		if period.EndDate == nil {
			found := period
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakePeriodRepo) FindMostRecentlyClosedPeriod(_ context.Context) (*domain.Period, error) {
	var best *domain.Period
	for _, period := range r.periods {
		if !period.IsClosed || period.EndDate == nil {
			continue
		}
		if best == nil || period.EndDate.After(*best.EndDate) {
			found := period
			best = &found
		}
	}
	if best == nil {
		return nil, apperrors.ErrNotFound
	}
	return best, nil
}

func (r *fakePeriodRepo) ListPeriods(_ context.Context) ([]domain.Period, error) {
	periods := make([]domain.Period, 0, len(r.periods))
	for _, period := range r.periods {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate.After(periods[j].StartDate) })
	return periods, nil
}

// checkSingleOpen mirrors the periods table's partial unique index: at most
// one row with a null end date, checked per write.
func (r *fakePeriodRepo) checkSingleOpen(candidate domain.Period) error {
	if candidate.EndDate != nil {
		return nil
	}
	for id, period := range r.periods {
		if id != candidate.PeriodID && period.EndDate == nil {
			return fmt.Errorf("%w: period %s is already open", apperrors.ErrDuplicate, id)
		}
	}
	return nil
}

func (r *fakePeriodRepo) SavePeriod(_ context.Context, period domain.Period) error {
	if err := r.checkSingleOpen(period); err != nil {
		return err
	}
	r.periods[period.PeriodID] = period
	return nil
}

func (r *fakePeriodRepo) UpdatePeriod(_ context.Context, period domain.Period) error {
	if _, ok := r.periods[period.PeriodID]; !ok {
		return apperrors.ErrNotFound
	}
	if err := r.checkSingleOpen(period); err != nil {
		return err
	}
	r.periods[period.PeriodID] = period
	return nil
}

func (r *fakePeriodRepo) DeletePeriod(_ context.Context, periodID string) error {
	if _, ok := r.periods[periodID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.periods, periodID)
	return nil
}

// --- fakeClosingRepo ---

// fakeClosingRepo keeps per-account and per-client snapshot history in
// insertion order, so the last element is the most recent close.
type fakeClosingRepo struct {
	accountSnapshots map[string][]domain.AccountClosingSnapshot
	clientSnapshots  map[string][]domain.ClientClosingSnapshot
}

var _ portsrepo.ClosingRepositoryFacade = (*fakeClosingRepo)(nil)

func newFakeClosingRepo() *fakeClosingRepo {
	return &fakeClosingRepo{
		accountSnapshots: make(map[string][]domain.AccountClosingSnapshot),
		clientSnapshots:  make(map[string][]domain.ClientClosingSnapshot),
	}
}

func (r *fakeClosingRepo) LatestAccountSnapshots(_ context.Context) (map[string]domain.AccountClosingSnapshot, error) {
	latest := make(map[string]domain.AccountClosingSnapshot)
	for accountID, history := range r.accountSnapshots {
		if len(history) > 0 {
			latest[accountID] = history[len(history)-1]
		}
	}
	return latest, nil
}

func (r *fakeClosingRepo) LatestClientSnapshots(_ context.Context) (map[string]domain.ClientClosingSnapshot, error) {
	latest := make(map[string]domain.ClientClosingSnapshot)
	for clientID, history := range r.clientSnapshots {
		if len(history) > 0 {
			latest[clientID] = history[len(history)-1]
		}
	}
	return latest, nil
}

func (r *fakeClosingRepo) ListAccountSnapshotsByPeriod(_ context.Context, periodID string) ([]domain.AccountClosingSnapshot, error) {
	var result []domain.AccountClosingSnapshot
	for _, history := range r.accountSnapshots {
		for _, snapshot := range history {
			if snapshot.PeriodID == periodID {
				result = append(result, snapshot)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AccountID < result[j].AccountID })
	return result, nil
}

func (r *fakeClosingRepo) ListClientSnapshotsByPeriod(_ context.Context, periodID string) ([]domain.ClientClosingSnapshot, error) {
	var result []domain.ClientClosingSnapshot
	for _, history := range r.clientSnapshots {
		for _, snapshot := range history {
			if snapshot.PeriodID == periodID {
				result = append(result, snapshot)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClientID < result[j].ClientID })
	return result, nil
}

func (r *fakeClosingRepo) SaveAccountSnapshots(_ context.Context, snapshots []domain.AccountClosingSnapshot) error {
	for _, snapshot := range snapshots {
		r.accountSnapshots[snapshot.AccountID] = append(r.accountSnapshots[snapshot.AccountID], snapshot)
	}
	return nil
}

func (r *fakeClosingRepo) SaveClientSnapshots(_ context.Context, snapshots []domain.ClientClosingSnapshot) error {
	for _, snapshot := range snapshots {
		r.clientSnapshots[snapshot.ClientID] = append(r.clientSnapshots[snapshot.ClientID], snapshot)
	}
	return nil
}

func (r *fakeClosingRepo) DeleteSnapshotsByPeriod(_ context.Context, periodID string) error {
	for accountID, history := range r.accountSnapshots {
		kept := history[:0]
		for _, snapshot := range history {
			if snapshot.PeriodID != periodID {
				kept = append(kept, snapshot)
			}
		}
		r.accountSnapshots[accountID] = kept
	}
	for clientID, history := range r.clientSnapshots {
		kept := history[:0]
		for _, snapshot := range history {
			if snapshot.PeriodID != periodID {
				kept = append(kept, snapshot)
			}
		}
		r.clientSnapshots[clientID] = kept
	}
	return nil
}

// --- fakeAccrualRepo ---

type fakeAccrualRepo struct {
	accruals map[string]domain.PartnerShareAccrual
	profits  map[string]domain.PartnerPeriodProfit
}

var _ portsrepo.AccrualRepositoryFacade = (*fakeAccrualRepo)(nil)

func newFakeAccrualRepo() *fakeAccrualRepo {
	return &fakeAccrualRepo{
		accruals: make(map[string]domain.PartnerShareAccrual),
		profits:  make(map[string]domain.PartnerPeriodProfit),
	}
}

func (r *fakeAccrualRepo) ListAccrualsByPeriod(_ context.Context, periodID string) ([]domain.PartnerShareAccrual, error) {
	var result []domain.PartnerShareAccrual
	for _, accrual := range r.accruals {
		if accrual.PeriodID == periodID {
			result = append(result, accrual)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AccrualID < result[j].AccrualID })
	return result, nil
}

func (r *fakeAccrualRepo) ListPartnerPeriodProfits(_ context.Context, periodID string) ([]domain.PartnerPeriodProfit, error) {
	var result []domain.PartnerPeriodProfit
	for _, profit := range r.profits {
		if profit.PeriodID == periodID {
			result = append(result, profit)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PartnerID < result[j].PartnerID })
	return result, nil
}

func (r *fakeAccrualRepo) SaveAccrual(_ context.Context, accrual domain.PartnerShareAccrual) error {
	r.accruals[accrual.AccrualID] = accrual
	return nil
}

func (r *fakeAccrualRepo) MarkAccrualsClosed(_ context.Context, periodID string, updatedBy string) error {
	for id, accrual := range r.accruals {
		if accrual.PeriodID == periodID {
			accrual.IsClosed = true
			accrual.LastUpdatedBy = updatedBy
			r.accruals[id] = accrual
		}
	}
	return nil
}

func (r *fakeAccrualRepo) ResetAccrualFlags(_ context.Context, periodID string, updatedBy string) error {
	for id, accrual := range r.accruals {
		if accrual.PeriodID == periodID {
			accrual.IsClosed = false
			accrual.IsDistributed = false
			accrual.LastUpdatedBy = updatedBy
			r.accruals[id] = accrual
		}
	}
	return nil
}

func (r *fakeAccrualRepo) SavePartnerPeriodProfits(_ context.Context, profits []domain.PartnerPeriodProfit) error {
	for _, profit := range profits {
		r.profits[profit.ProfitID] = profit
	}
	return nil
}

func (r *fakeAccrualRepo) DeletePartnerPeriodProfitsByPeriod(_ context.Context, periodID string) error {
	for id, profit := range r.profits {
		if profit.PeriodID == periodID {
			delete(r.profits, id)
		}
	}
	return nil
}

// --- fakeClientRepo ---

type fakeClientRepo struct {
	clients map[string]domain.ClientLedger
}

var _ portsrepo.ClientLedgerRepositoryFacade = (*fakeClientRepo)(nil)

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[string]domain.ClientLedger)}
}

func (r *fakeClientRepo) FindClientLedgerByID(_ context.Context, clientID string) (*domain.ClientLedger, error) {
	client, ok := r.clients[clientID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &client, nil
}

func (r *fakeClientRepo) ListClientLedgers(_ context.Context) ([]domain.ClientLedger, error) {
	clients := make([]domain.ClientLedger, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ClientID < clients[j].ClientID })
	return clients, nil
}

func (r *fakeClientRepo) SaveClientLedger(_ context.Context, ledger domain.ClientLedger) error {
	r.clients[ledger.ClientID] = ledger
	return nil
}

func (r *fakeClientRepo) UpdateClientTotals(_ context.Context, clientID string, debit, credit, balance decimal.Decimal) error {
	client, ok := r.clients[clientID]
	if !ok {
		return apperrors.ErrNotFound
	}
	client.Debit = debit
	client.Credit = credit
	client.Balance = balance
	r.clients[clientID] = client
	return nil
}

// --- fakePartnerRepo ---

type fakePartnerRepo struct {
	partners map[string]domain.Partner
}

var _ portsrepo.PartnerReader = (*fakePartnerRepo)(nil)

func newFakePartnerRepo() *fakePartnerRepo {
	return &fakePartnerRepo{partners: make(map[string]domain.Partner)}
}

func (r *fakePartnerRepo) FindPartnerByID(_ context.Context, partnerID string) (*domain.Partner, error) {
	partner, ok := r.partners[partnerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &partner, nil
}

func (r *fakePartnerRepo) FindPartnersByIDs(_ context.Context, partnerIDs []string) (map[string]domain.Partner, error) {
	result := make(map[string]domain.Partner, len(partnerIDs))
	for _, id := range partnerIDs {
		if partner, ok := r.partners[id]; ok {
			result[id] = partner
		}
	}
	return result, nil
}

// --- fakeAuditRepo ---

type fakeAuditRepo struct {
	entries []domain.AuditLog
}

var _ portsrepo.AuditLogWriter = (*fakeAuditRepo)(nil)

func (r *fakeAuditRepo) AppendAuditLog(_ context.Context, entry domain.AuditLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

// --- helpers ---

func strPtr(s string) *string {
	return &s
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("bad decimal literal %q: %v", s, err))
	}
	return d
}
