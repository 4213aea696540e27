package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/qardhos/microfin_app/internal/apperrors"
	"github.com/qardhos/microfin_app/internal/core/domain"
	portssvc "github.com/qardhos/microfin_app/internal/core/ports/services"
	"github.com/qardhos/microfin_app/internal/core/services"
	"github.com/qardhos/microfin_app/internal/dto"
)

type PeriodServiceTestSuite struct {
	suite.Suite

	accountRepo *fakeAccountRepo
	journalRepo *fakeJournalRepo
	clientRepo  *fakeClientRepo
	periodRepo  *fakePeriodRepo
	closingRepo *fakeClosingRepo
	accrualRepo *fakeAccrualRepo
	partnerRepo *fakePartnerRepo

	journalSvc portssvc.JournalSvcFacade
	service    portssvc.PeriodSvcFacade

	actorID   string
	periodID  string
	clientID  string
	partnerID string

	assets         domain.Account
	microloans     domain.Account
	bank           domain.Account
	income         domain.Account
	loanIncome     domain.Account
	liabilities    domain.Account
	partnerPayable domain.Account
	companyShares  domain.Account
}

func (s *PeriodServiceTestSuite) SetupTest() {
	s.accountRepo = newFakeAccountRepo()
	s.journalRepo = newFakeJournalRepo()
	s.clientRepo = newFakeClientRepo()
	s.periodRepo = newFakePeriodRepo()
	s.closingRepo = newFakeClosingRepo()
	s.accrualRepo = newFakeAccrualRepo()
	s.partnerRepo = newFakePartnerRepo()

	tx := fakeTxManager{}
	s.journalSvc = services.NewJournalService(s.journalRepo, s.accountRepo, s.clientRepo, s.periodRepo, tx)
	s.service = services.NewPeriodService(
		s.periodRepo, s.journalRepo, s.accountRepo, s.clientRepo,
		s.closingRepo, s.accrualRepo, s.partnerRepo, s.journalSvc, tx,
	)

	s.actorID = uuid.NewString()
	s.periodID = uuid.NewString()
	s.clientID = uuid.NewString()
	s.partnerID = uuid.NewString()

	ctx := context.Background()
	s.Require().NoError(s.periodRepo.SavePeriod(ctx, domain.Period{
		PeriodID:  s.periodID,
		Name:      "Opening Period",
		StartDate: time.Now().UTC().AddDate(0, -3, 0),
	}))

	s.assets = s.addAccount("1000", "Assets", domain.Asset, domain.NatureDebit, domain.BasicOther, nil)
	s.microloans = s.addAccount("1100", "Microloans", domain.Asset, domain.NatureDebit, domain.BasicLoansReceivable, &s.assets.AccountID)
	s.bank = s.addAccount("1200", "Bank", domain.Asset, domain.NatureDebit, domain.BasicBank, &s.assets.AccountID)
	s.income = s.addAccount("4000", "Income", domain.Revenue, domain.NatureCredit, domain.BasicOther, nil)
	s.loanIncome = s.addAccount("4100", "Loan Income", domain.Revenue, domain.NatureCredit, domain.BasicLoanIncome, &s.income.AccountID)
	s.liabilities = s.addAccount("2000", "Liabilities", domain.Liability, domain.NatureCredit, domain.BasicOther, nil)
	s.partnerPayable = s.addAccount("2100", "Partner Payable", domain.Liability, domain.NatureCredit, domain.BasicPartnerPayable, &s.liabilities.AccountID)
	s.companyShares = s.addAccount("3100", "Company Shares", domain.Equity, domain.NatureCredit, domain.BasicCompanyShares, nil)

	s.Require().NoError(s.clientRepo.SaveClientLedger(ctx, domain.ClientLedger{
		ClientID: s.clientID,
		Name:     "Yusuf B.",
	}))
	s.partnerRepo.partners[s.partnerID] = domain.Partner{
		PartnerID:        s.partnerID,
		Name:             "Partner One",
		PayableAccountID: s.partnerPayable.AccountID,
	}
}

func (s *PeriodServiceTestSuite) addAccount(code, name string, accType domain.AccountType, nature domain.AccountNature, basicType domain.BasicAccountType, parentID *string) domain.Account {
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            name,
		ParentAccountID: parentID,
		AccountType:     accType,
		Nature:          nature,
		BasicType:       basicType,
		Debit:           decimal.Zero,
		Credit:          decimal.Zero,
		Balance:         decimal.Zero,
		IsActive:        true,
	}
	s.Require().NoError(s.accountRepo.SaveAccount(context.Background(), account))
	return account
}

func (s *PeriodServiceTestSuite) postJournal(req dto.CreateJournalRequest) *domain.JournalHeader {
	ctx := context.Background()
	journal, err := s.journalSvc.CreateJournal(ctx, req, s.actorID)
	s.Require().NoError(err)
	s.Require().NoError(s.journalSvc.PostJournal(ctx, journal.JournalID, s.actorID))
	return journal
}

func (s *PeriodServiceTestSuite) addAccrual(raw, companyCut string) {
	rawShare := dec(raw)
	cut := dec(companyCut)
	s.Require().NoError(s.accrualRepo.SaveAccrual(context.Background(), domain.PartnerShareAccrual{
		AccrualID:    uuid.NewString(),
		PartnerID:    s.partnerID,
		LoanID:       uuid.NewString(),
		RepaymentID:  uuid.NewString(),
		PeriodID:     s.periodID,
		RawShare:     rawShare,
		CompanyCut:   cut,
		PartnerFinal: rawShare.Sub(cut),
	}))
}

func (s *PeriodServiceTestSuite) TestClosePeriod_RejectsDrafts() {
	ctx := context.Background()

	_, err := s.journalSvc.CreateJournal(ctx, dto.CreateJournalRequest{
		Description: "Pending entry",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.bank.AccountID, Debit: dec("10")},
			{AccountID: s.loanIncome.AccountID, Credit: dec("10")},
		},
	}, s.actorID)
	s.Require().NoError(err)

	_, err = s.service.ClosePeriod(ctx, s.periodID, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrUnclosedDrafts)
}

func (s *PeriodServiceTestSuite) TestClosePeriod_AlreadyClosed() {
	ctx := context.Background()

	_, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)

	_, err = s.service.ClosePeriod(ctx, s.periodID, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrAlreadyClosed)
}

func (s *PeriodServiceTestSuite) TestClosePeriod_ZeroActivity() {
	ctx := context.Background()

	result, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)

	s.Require().NoError(err)
	s.Nil(result.ClosingJournalID)
	s.NotEmpty(result.NewPeriodID)

	closed, err := s.periodRepo.FindPeriodByID(ctx, s.periodID)
	s.Require().NoError(err)
	s.True(closed.IsClosed)
	s.Require().NotNil(closed.EndDate)
	s.Nil(closed.ClosingJournalID)

	successor, err := s.periodRepo.FindOpenPeriod(ctx)
	s.Require().NoError(err)
	s.Equal(result.NewPeriodID, successor.PeriodID)

	// Every account and client gets a snapshot, all zeroes here.
	accountSnapshots, err := s.closingRepo.ListAccountSnapshotsByPeriod(ctx, s.periodID)
	s.Require().NoError(err)
	s.Len(accountSnapshots, 8)
	for _, snapshot := range accountSnapshots {
		s.True(snapshot.ClosingBalance.Equal(snapshot.OpeningBalance))
		s.True(snapshot.ClosingBalance.IsZero())
	}
	clientSnapshots, err := s.closingRepo.ListClientSnapshotsByPeriod(ctx, s.periodID)
	s.Require().NoError(err)
	s.Len(clientSnapshots, 1)
}

// The recomputed snapshots must agree with the live running totals that
// posting maintained incrementally, for leaves and rolled-up ancestors alike.
func (s *PeriodServiceTestSuite) TestClosePeriod_SnapshotsMatchLiveBalances() {
	ctx := context.Background()

	s.postJournal(dto.CreateJournalRequest{
		Description: "Loan disbursement",
		SourceType:  domain.SourceLoanDisbursement,
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.microloans.AccountID, Debit: dec("500.00"), ClientID: &s.clientID},
			{AccountID: s.bank.AccountID, Credit: dec("500.00")},
		},
	})
	s.postJournal(dto.CreateJournalRequest{
		Description: "Repayment with interest",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.bank.AccountID, Debit: dec("120.00")},
			{AccountID: s.microloans.AccountID, Credit: dec("100.00"), ClientID: &s.clientID},
			{AccountID: s.loanIncome.AccountID, Credit: dec("20.00")},
		},
	})

	result, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)
	s.Nil(result.ClosingJournalID)

	accountSnapshots, err := s.closingRepo.ListAccountSnapshotsByPeriod(ctx, s.periodID)
	s.Require().NoError(err)
	s.Require().Len(accountSnapshots, 8)
	for _, snapshot := range accountSnapshots {
		account, err := s.accountRepo.FindAccountByID(ctx, snapshot.AccountID)
		s.Require().NoError(err)
		s.True(snapshot.ClosingDebit.Equal(account.Debit), "debit of %s", account.Code)
		s.True(snapshot.ClosingCredit.Equal(account.Credit), "credit of %s", account.Code)
		s.True(snapshot.ClosingBalance.Equal(account.Balance), "balance of %s", account.Code)
	}

	clientSnapshots, err := s.closingRepo.ListClientSnapshotsByPeriod(ctx, s.periodID)
	s.Require().NoError(err)
	s.Require().Len(clientSnapshots, 1)
	client, err := s.clientRepo.FindClientLedgerByID(ctx, s.clientID)
	s.Require().NoError(err)
	s.True(clientSnapshots[0].ClosingBalance.Equal(client.Balance))
	s.True(clientSnapshots[0].ClosingBalance.Equal(dec("400.00")))
}

func (s *PeriodServiceTestSuite) TestClosePeriod_FoldsAccruals() {
	ctx := context.Background()

	// Three small accruals whose unrounded sums carry third-decimal drift.
	s.addAccrual("10.005", "1.001")
	s.addAccrual("20.005", "2.001")
	s.addAccrual("5.111", "0.511")

	result, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)
	s.Require().NotNil(result.ClosingJournalID)

	closing, err := s.journalSvc.GetJournalByID(ctx, *result.ClosingJournalID)
	s.Require().NoError(err)
	s.Equal(domain.Draft, closing.Status)
	s.Equal(domain.TypeClosing, closing.JournalType)
	s.Equal(domain.SourcePeriodClosing, closing.SourceType)
	s.Equal(s.periodID, closing.PeriodID)
	s.Require().Len(closing.Lines, 4)

	// Partner: (10.005-1.001)+(20.005-2.001)+(5.111-0.511) = 31.608 -> 31.61
	s.Equal(s.loanIncome.AccountID, closing.Lines[0].AccountID)
	s.True(closing.Lines[0].Debit.Equal(dec("31.61")))
	s.Equal(s.partnerPayable.AccountID, closing.Lines[1].AccountID)
	s.True(closing.Lines[1].Credit.Equal(dec("31.61")))

	// Company: 1.001+2.001+0.511 = 3.513 -> 3.51
	s.Equal(s.loanIncome.AccountID, closing.Lines[2].AccountID)
	s.True(closing.Lines[2].Debit.Equal(dec("3.51")))
	s.Equal(s.companyShares.AccountID, closing.Lines[3].AccountID)
	s.True(closing.Lines[3].Credit.Equal(dec("3.51")))

	profits, err := s.accrualRepo.ListPartnerPeriodProfits(ctx, s.periodID)
	s.Require().NoError(err)
	s.Require().Len(profits, 1)
	s.Equal(s.partnerID, profits[0].PartnerID)
	s.True(profits[0].TotalProfit.Equal(dec("31.608")))

	accruals, err := s.accrualRepo.ListAccrualsByPeriod(ctx, s.periodID)
	s.Require().NoError(err)
	for _, accrual := range accruals {
		s.True(accrual.IsClosed)
	}

	// The closed period holds the draft closing journal for later review.
	closedPeriod, err := s.periodRepo.FindPeriodByID(ctx, s.periodID)
	s.Require().NoError(err)
	s.Require().NotNil(closedPeriod.ClosingJournalID)
	s.Equal(*result.ClosingJournalID, *closedPeriod.ClosingJournalID)
}

func (s *PeriodServiceTestSuite) TestReverseClosePeriod_RestoresEverything() {
	ctx := context.Background()

	s.addAccrual("40.00", "4.00")
	result, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)
	s.Require().NotNil(result.ClosingJournalID)

	s.Require().NoError(s.service.ReverseClosePeriod(ctx, s.periodID, s.actorID))

	reopened, err := s.periodRepo.FindPeriodByID(ctx, s.periodID)
	s.Require().NoError(err)
	s.False(reopened.IsClosed)
	s.Nil(reopened.EndDate)
	s.Nil(reopened.ClosingJournalID)

	// The period is open again and the successor is gone.
	open, err := s.periodRepo.FindOpenPeriod(ctx)
	s.Require().NoError(err)
	s.Equal(s.periodID, open.PeriodID)
	_, err = s.periodRepo.FindPeriodByID(ctx, result.NewPeriodID)
	s.Require().ErrorIs(err, apperrors.ErrNotFound)

	// Closing journal, snapshots and profits are all gone; accrual flags reset.
	_, err = s.journalSvc.GetJournalByID(ctx, *result.ClosingJournalID)
	s.Require().ErrorIs(err, apperrors.ErrNotFound)

	accountSnapshots, err := s.closingRepo.ListAccountSnapshotsByPeriod(ctx, s.periodID)
	s.Require().NoError(err)
	s.Empty(accountSnapshots)

	profits, err := s.accrualRepo.ListPartnerPeriodProfits(ctx, s.periodID)
	s.Require().NoError(err)
	s.Empty(profits)

	accruals, err := s.accrualRepo.ListAccrualsByPeriod(ctx, s.periodID)
	s.Require().NoError(err)
	for _, accrual := range accruals {
		s.False(accrual.IsClosed)
		s.False(accrual.IsDistributed)
	}
}

func (s *PeriodServiceTestSuite) TestReverseClosePeriod_ReexposesPriorSnapshots() {
	ctx := context.Background()

	s.postJournal(dto.CreateJournalRequest{
		Description: "Interest received",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.bank.AccountID, Debit: dec("50.00")},
			{AccountID: s.loanIncome.AccountID, Credit: dec("50.00")},
		},
	})
	first, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)

	second, err := s.service.ClosePeriod(ctx, first.NewPeriodID, s.actorID)
	s.Require().NoError(err)
	s.Require().NoError(s.service.ReverseClosePeriod(ctx, first.NewPeriodID, s.actorID))
	_ = second

	// After reversing the second close, the first period's snapshots are the
	// latest again, so a re-close of the middle period reopens from them.
	latest, err := s.closingRepo.LatestAccountSnapshots(ctx)
	s.Require().NoError(err)
	s.True(latest[s.bank.AccountID].ClosingDebit.Equal(dec("50.00")))
	s.Equal(s.periodID, latest[s.bank.AccountID].PeriodID)
}

func (s *PeriodServiceTestSuite) TestReverseClosePeriod_NotClosed() {
	ctx := context.Background()

	err := s.service.ReverseClosePeriod(ctx, s.periodID, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrNotClosed)
}

func (s *PeriodServiceTestSuite) TestReverseClosePeriod_NotMostRecent() {
	ctx := context.Background()

	first, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)
	_, err = s.service.ClosePeriod(ctx, first.NewPeriodID, s.actorID)
	s.Require().NoError(err)

	err = s.service.ReverseClosePeriod(ctx, s.periodID, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrNotMostRecent)

	// Nothing was touched: the period stays closed with its snapshots.
	stillClosed, err := s.periodRepo.FindPeriodByID(ctx, s.periodID)
	s.Require().NoError(err)
	s.True(stillClosed.IsClosed)
	snapshots, err := s.closingRepo.ListAccountSnapshotsByPeriod(ctx, s.periodID)
	s.Require().NoError(err)
	s.NotEmpty(snapshots)
}

func (s *PeriodServiceTestSuite) TestReverseClosePeriod_PostedClosingJournal() {
	ctx := context.Background()

	s.addAccrual("40.00", "4.00")
	result, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)
	s.Require().NotNil(result.ClosingJournalID)
	s.Require().NoError(s.journalSvc.PostJournal(ctx, *result.ClosingJournalID, s.actorID))

	err = s.service.ReverseClosePeriod(ctx, s.periodID, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (s *PeriodServiceTestSuite) TestReverseClosePeriod_SuccessorHasJournals() {
	ctx := context.Background()

	result, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)

	// A journal booked into the successor blocks the reversal.
	_, err = s.journalSvc.CreateJournal(ctx, dto.CreateJournalRequest{
		Description: "Entry in successor",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.bank.AccountID, Debit: dec("5")},
			{AccountID: s.loanIncome.AccountID, Credit: dec("5")},
		},
	}, s.actorID)
	s.Require().NoError(err)
	_ = result

	err = s.service.ReverseClosePeriod(ctx, s.periodID, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

// The fake period repository rejects a second open row, the same constraint
// the periods table enforces per statement. Closing must therefore stamp the
// old period before inserting the successor, or the insert fails mid-close.
func (s *PeriodServiceTestSuite) TestClosePeriod_MaintainsSingleOpenPeriod() {
	ctx := context.Background()

	result, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)

	periods, err := s.periodRepo.ListPeriods(ctx)
	s.Require().NoError(err)
	openCount := 0
	for _, period := range periods {
		if period.EndDate == nil {
			openCount++
			s.Equal(result.NewPeriodID, period.PeriodID)
		}
	}
	s.Equal(1, openCount)
}

func (s *PeriodServiceTestSuite) TestEnsureOpenPeriod_BootstrapsFirstPeriod() {
	ctx := context.Background()

	// Empty the period table, as on a freshly migrated database.
	s.Require().NoError(s.periodRepo.DeletePeriod(ctx, s.periodID))
	_, err := s.journalSvc.CreateJournal(ctx, dto.CreateJournalRequest{
		Description: "Too early",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.bank.AccountID, Debit: dec("1")},
			{AccountID: s.loanIncome.AccountID, Credit: dec("1")},
		},
	}, s.actorID)
	s.Require().ErrorIs(err, apperrors.ErrNoOpenPeriod)

	created, err := s.service.EnsureOpenPeriod(ctx, s.actorID)
	s.Require().NoError(err)
	s.Nil(created.EndDate)

	// Idempotent: a second call returns the same period.
	again, err := s.service.EnsureOpenPeriod(ctx, s.actorID)
	s.Require().NoError(err)
	s.Equal(created.PeriodID, again.PeriodID)

	journal, err := s.journalSvc.CreateJournal(ctx, dto.CreateJournalRequest{
		Description: "First entry",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.bank.AccountID, Debit: dec("1")},
			{AccountID: s.loanIncome.AccountID, Credit: dec("1")},
		},
	}, s.actorID)
	s.Require().NoError(err)
	s.Equal(created.PeriodID, journal.PeriodID)
}

func (s *PeriodServiceTestSuite) TestResolveCurrentPeriod_NoOpenPeriod() {
	ctx := context.Background()

	_, err := s.service.ClosePeriod(ctx, s.periodID, s.actorID)
	s.Require().NoError(err)

	open, err := s.periodRepo.FindOpenPeriod(ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.periodRepo.DeletePeriod(ctx, open.PeriodID))

	_, err = s.service.ResolveCurrentPeriod(ctx)

	s.Require().ErrorIs(err, apperrors.ErrNoOpenPeriod)
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
