package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/qardhos/microfin_app/internal/apperrors"
	"github.com/qardhos/microfin_app/internal/core/domain"
	portssvc "github.com/qardhos/microfin_app/internal/core/ports/services"
	"github.com/qardhos/microfin_app/internal/core/services"
	"github.com/qardhos/microfin_app/internal/dto"
)

type ReportingServiceTestSuite struct {
	suite.Suite

	accountRepo *fakeAccountRepo
	journalRepo *fakeJournalRepo
	clientRepo  *fakeClientRepo
	periodRepo  *fakePeriodRepo
	closingRepo *fakeClosingRepo

	journalSvc portssvc.JournalSvcFacade
	service    portssvc.ReportingSvcFacade

	actorID  string
	clientID string

	assets domain.Account
	bank   domain.Account
	income domain.Account
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.accountRepo = newFakeAccountRepo()
	s.journalRepo = newFakeJournalRepo()
	s.clientRepo = newFakeClientRepo()
	s.periodRepo = newFakePeriodRepo()
	s.closingRepo = newFakeClosingRepo()

	s.journalSvc = services.NewJournalService(s.journalRepo, s.accountRepo, s.clientRepo, s.periodRepo, fakeTxManager{})
	s.service = services.NewReportingService(s.accountRepo, s.journalRepo, s.clientRepo, s.closingRepo)

	s.actorID = uuid.NewString()
	s.clientID = uuid.NewString()

	ctx := context.Background()
	s.Require().NoError(s.periodRepo.SavePeriod(ctx, domain.Period{
		PeriodID:  uuid.NewString(),
		Name:      "Open Period",
		StartDate: time.Now().UTC().AddDate(0, -1, 0),
	}))

	s.assets = domain.Account{
		AccountID: uuid.NewString(), Code: "1000", Name: "Assets",
		AccountType: domain.Asset, Nature: domain.NatureDebit, BasicType: domain.BasicOther, IsActive: true,
	}
	s.Require().NoError(s.accountRepo.SaveAccount(ctx, s.assets))
	s.bank = domain.Account{
		AccountID: uuid.NewString(), Code: "1200", Name: "Bank", ParentAccountID: &s.assets.AccountID,
		AccountType: domain.Asset, Nature: domain.NatureDebit, BasicType: domain.BasicBank, IsActive: true,
	}
	s.Require().NoError(s.accountRepo.SaveAccount(ctx, s.bank))
	s.income = domain.Account{
		AccountID: uuid.NewString(), Code: "4000", Name: "Income",
		AccountType: domain.Revenue, Nature: domain.NatureCredit, BasicType: domain.BasicLoanIncome, IsActive: true,
	}
	s.Require().NoError(s.accountRepo.SaveAccount(ctx, s.income))

	s.Require().NoError(s.clientRepo.SaveClientLedger(ctx, domain.ClientLedger{
		ClientID: s.clientID,
		Name:     "Halima D.",
	}))
}

func (s *ReportingServiceTestSuite) TestTrialBalance_SumsRootsOnly() {
	ctx := context.Background()

	journal, err := s.journalSvc.CreateJournal(ctx, dto.CreateJournalRequest{
		Description: "Interest received",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.bank.AccountID, Debit: dec("90.00"), ClientID: &s.clientID},
			{AccountID: s.income.AccountID, Credit: dec("90.00")},
		},
	}, s.actorID)
	s.Require().NoError(err)
	s.Require().NoError(s.journalSvc.PostJournal(ctx, journal.JournalID, s.actorID))

	tb, err := s.service.TrialBalance(ctx)

	s.Require().NoError(err)
	s.Len(tb.Rows, 3)
	// Counting the bank leaf again would double the debit side.
	s.True(tb.TotalDebit.Equal(dec("90.00")))
	s.True(tb.TotalCredit.Equal(dec("90.00")))
}

func (s *ReportingServiceTestSuite) TestClientStatement() {
	ctx := context.Background()

	journal, err := s.journalSvc.CreateJournal(ctx, dto.CreateJournalRequest{
		Description: "Savings deposit",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.bank.AccountID, Debit: dec("40.00"), ClientID: &s.clientID},
			{AccountID: s.income.AccountID, Credit: dec("40.00")},
		},
	}, s.actorID)
	s.Require().NoError(err)
	s.Require().NoError(s.journalSvc.PostJournal(ctx, journal.JournalID, s.actorID))

	statement, err := s.service.ClientStatement(ctx, s.clientID)

	s.Require().NoError(err)
	s.Equal("Halima D.", statement.Name)
	s.True(statement.Balance.Equal(dec("40.00")))
	s.Require().Len(statement.Lines, 1)
	s.Equal(s.bank.AccountID, statement.Lines[0].AccountID)
}

func (s *ReportingServiceTestSuite) TestClientStatement_UnknownClient() {
	_, err := s.service.ClientStatement(context.Background(), uuid.NewString())

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func TestAuditedJournalService(t *testing.T) {
	ctx := context.Background()
	accountRepo := newFakeAccountRepo()
	journalRepo := newFakeJournalRepo()
	clientRepo := newFakeClientRepo()
	periodRepo := newFakePeriodRepo()
	auditRepo := &fakeAuditRepo{}

	require := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	require(periodRepo.SavePeriod(ctx, domain.Period{
		PeriodID:  uuid.NewString(),
		Name:      "Open Period",
		StartDate: time.Now().UTC(),
	}))
	bank := domain.Account{AccountID: uuid.NewString(), Code: "1200", Name: "Bank", AccountType: domain.Asset, Nature: domain.NatureDebit, BasicType: domain.BasicBank, IsActive: true}
	income := domain.Account{AccountID: uuid.NewString(), Code: "4000", Name: "Income", AccountType: domain.Revenue, Nature: domain.NatureCredit, BasicType: domain.BasicLoanIncome, IsActive: true}
	require(accountRepo.SaveAccount(ctx, bank))
	require(accountRepo.SaveAccount(ctx, income))

	inner := services.NewJournalService(journalRepo, accountRepo, clientRepo, periodRepo, fakeTxManager{})
	audited := services.NewAuditedJournalService(inner, auditRepo)

	actorID := uuid.NewString()
	journal, err := audited.CreateJournal(ctx, dto.CreateJournalRequest{
		Description: "Audited entry",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: bank.AccountID, Debit: dec("10")},
			{AccountID: income.AccountID, Credit: dec("10")},
		},
	}, actorID)
	require(err)
	require(audited.PostJournal(ctx, journal.JournalID, actorID))

	// A failed mutation must not leave a record.
	if err := audited.PostJournal(ctx, journal.JournalID, actorID); err == nil {
		t.Fatal("expected repost to fail")
	}

	if len(auditRepo.entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(auditRepo.entries))
	}
	if auditRepo.entries[0].Action != "CREATE" || auditRepo.entries[1].Action != "POST" {
		t.Fatalf("unexpected audit actions: %q, %q", auditRepo.entries[0].Action, auditRepo.entries[1].Action)
	}
	if auditRepo.entries[1].ActorID != actorID {
		t.Fatalf("unexpected audit actor: %q", auditRepo.entries[1].ActorID)
	}
}
