package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Actor reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // Actor reference
}

// ActivityTotals is a debit/credit pair aggregated over some scope
// (an account's period activity, a client's period activity).
type ActivityTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Add returns the element-wise sum of two totals.
func (t ActivityTotals) Add(other ActivityTotals) ActivityTotals {
	return ActivityTotals{
		Debit:  t.Debit.Add(other.Debit),
		Credit: t.Credit.Add(other.Credit),
	}
}
