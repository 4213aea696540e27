package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
	portssvc "github.com/qardhos/microfin_app/internal/core/ports/services"
	"github.com/qardhos/microfin_app/internal/dto"
)

// reportingService provides read-only views over live totals and snapshots.
type reportingService struct {
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalReader
	clientRepo  portsrepo.ClientLedgerReader
	closingRepo portsrepo.ClosingReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	accountRepo portsrepo.AccountReader,
	journalRepo portsrepo.JournalReader,
	clientRepo portsrepo.ClientLedgerReader,
	closingRepo portsrepo.ClosingReader,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		clientRepo:  clientRepo,
		closingRepo: closingRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance returns every account's live totals. Root accounts already
// carry the roll-up of their subtrees, so the grand totals sum roots only.
func (s *reportingService) TrialBalance(ctx context.Context) (*dto.TrialBalanceResponse, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	resp := &dto.TrialBalanceResponse{
		Rows:        make([]dto.TrialBalanceRow, len(accounts)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for i, account := range accounts {
		resp.Rows[i] = dto.TrialBalanceRow{
			AccountID:   account.AccountID,
			Code:        account.Code,
			Name:        account.Name,
			AccountType: account.AccountType,
			Nature:      account.Nature,
			Debit:       account.Debit,
			Credit:      account.Credit,
			Balance:     account.Balance,
		}
		if account.ParentAccountID == nil {
			resp.TotalDebit = resp.TotalDebit.Add(account.Debit)
			resp.TotalCredit = resp.TotalCredit.Add(account.Credit)
		}
	}
	return resp, nil
}

// PeriodAccountSnapshots returns the account closing snapshots of one period.
func (s *reportingService) PeriodAccountSnapshots(ctx context.Context, periodID string) ([]dto.AccountSnapshotResponse, error) {
	snapshots, err := s.closingRepo.ListAccountSnapshotsByPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for period %s: %w", periodID, err)
	}
	responses := make([]dto.AccountSnapshotResponse, len(snapshots))
	for i := range snapshots {
		responses[i] = dto.ToAccountSnapshotResponse(&snapshots[i])
	}
	return responses, nil
}

// ClientStatement returns a client's sub-ledger row with its journal lines.
func (s *reportingService) ClientStatement(ctx context.Context, clientID string) (*dto.ClientStatementResponse, error) {
	client, err := s.clientRepo.FindClientLedgerByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindJournalLinesByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines for client %s: %w", clientID, err)
	}

	resp := &dto.ClientStatementResponse{
		ClientID: client.ClientID,
		Name:     client.Name,
		Debit:    client.Debit,
		Credit:   client.Credit,
		Balance:  client.Balance,
		Lines:    make([]dto.JournalLineResponse, len(lines)),
	}
	for i := range lines {
		resp.Lines[i] = dto.ToJournalLineResponse(&lines[i])
	}
	return resp, nil
}
