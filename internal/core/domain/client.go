package domain

import (
	"github.com/shopspring/decimal"
)

// ClientLedger is a client's flat running sub-ledger (no hierarchy).
// Balance is always debit − credit. Mutated only by journal posting and
// unposting of lines that carry the client link.
type ClientLedger struct {
	ClientID string          `json:"clientID"` // Primary Key (UUID)
	Name     string          `json:"name"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balance  decimal.Decimal `json:"balance"`
	AuditFields
}
