package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountClosingSnapshot is the per (account, period) record written by a
// period close. Append-only history; the latest snapshot for an account
// supplies the next period's opening values. Deleted only when the period
// that produced it is reversed.
type AccountClosingSnapshot struct {
	SnapshotID     string          `json:"snapshotID"`
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

// ClientClosingSnapshot is the per (client, period) counterpart of
// AccountClosingSnapshot for flat client sub-ledgers.
type ClientClosingSnapshot struct {
	SnapshotID     string          `json:"snapshotID"`
	ClientID       string          `json:"clientID"`
	PeriodID       string          `json:"periodID"`
	OpeningDebit   decimal.Decimal `json:"openingDebit"`
	OpeningCredit  decimal.Decimal `json:"openingCredit"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingDebit   decimal.Decimal `json:"closingDebit"`
	ClosingCredit  decimal.Decimal `json:"closingCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}
