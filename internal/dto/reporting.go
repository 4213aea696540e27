package dto

import (
	"time"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's live totals in a trial balance.
type TrialBalanceRow struct {
	AccountID   string               `json:"accountID"`
	Code        string               `json:"code"`
	Name        string               `json:"name"`
	AccountType domain.AccountType   `json:"accountType"`
	Nature      domain.AccountNature `json:"nature"`
	Debit       decimal.Decimal      `json:"debit"`
	Credit      decimal.Decimal      `json:"credit"`
	Balance     decimal.Decimal      `json:"balance"`
}

// TrialBalanceResponse is the live trial balance. TotalDebit and TotalCredit
// are summed over root accounts only, so a healthy ledger shows them equal.
type TrialBalanceResponse struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountSnapshotResponse defines the data returned for an account closing snapshot.
type AccountSnapshotResponse struct {
	AccountID      string          `json:"accountID"`
	PeriodID       string          `json:"periodID"`
	OpeningDebit   decimal.Decimal `json:"openingDebit"`
	OpeningCredit  decimal.Decimal `json:"openingCredit"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingDebit   decimal.Decimal `json:"closingDebit"`
	ClosingCredit  decimal.Decimal `json:"closingCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}

// ClientStatementResponse is a client sub-ledger with its journal lines.
type ClientStatementResponse struct {
	ClientID string                `json:"clientID"`
	Name     string                `json:"name"`
	Debit    decimal.Decimal       `json:"debit"`
	Credit   decimal.Decimal       `json:"credit"`
	Balance  decimal.Decimal       `json:"balance"`
	Lines    []JournalLineResponse `json:"lines"`
}

// ToAccountSnapshotResponse converts a domain snapshot to its response DTO.
func ToAccountSnapshotResponse(s *domain.AccountClosingSnapshot) AccountSnapshotResponse {
	return AccountSnapshotResponse{
		AccountID:      s.AccountID,
		PeriodID:       s.PeriodID,
		OpeningDebit:   s.OpeningDebit,
		OpeningCredit:  s.OpeningCredit,
		OpeningBalance: s.OpeningBalance,
		ClosingDebit:   s.ClosingDebit,
		ClosingCredit:  s.ClosingCredit,
		ClosingBalance: s.ClosingBalance,
		LastUpdated:    s.LastUpdated,
	}
}
