package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountNature defines whether an account's balance grows with debits or credits.
type AccountNature string

const (
	NatureDebit  AccountNature = "DEBIT"
	NatureCredit AccountNature = "CREDIT"
)

// BalanceOf computes the signed balance of a debit/credit pair under this
// nature: debit − credit for DEBIT-natured accounts, credit − debit otherwise.
func (n AccountNature) BalanceOf(debit, credit decimal.Decimal) decimal.Decimal {
	if n == NatureDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// BasicAccountType tags an account for semantic lookups by business callers
// (e.g. "the loan income account"), independent of its position in the tree.
type BasicAccountType string

const (
	BasicBank            BasicAccountType = "BANK"
	BasicCash            BasicAccountType = "CASH"
	BasicLoansReceivable BasicAccountType = "LOANS_RECEIVABLE"
	BasicLoanIncome      BasicAccountType = "LOAN_INCOME"
	BasicPartnerPayable  BasicAccountType = "PARTNER_PAYABLE"
	BasicPartnerEquity   BasicAccountType = "PARTNER_EQUITY"
	BasicCompanyShares   BasicAccountType = "COMPANY_SHARES"
	BasicSavings         BasicAccountType = "SAVINGS"
	BasicOther           BasicAccountType = "OTHER"
)

// Account is one node of the chart-of-accounts tree. Its cumulative
// debit/credit/balance fields are "live": they always reflect posted-to-date
// totals of the account and all of its descendants, and are mutated only by
// journal posting and unposting.
type Account struct {
	AccountID       string           `json:"accountID"` // Primary Key (UUID)
	Code            string           `json:"code"`      // Unique human-assigned code
	Name            string           `json:"name"`
	ParentAccountID *string          `json:"parentAccountID"` // Nullable self-reference; nil for roots
	AccountType     AccountType      `json:"accountType"`
	Nature          AccountNature    `json:"nature"`
	BasicType       BasicAccountType `json:"basicType"`
	Debit           decimal.Decimal  `json:"debit"`
	Credit          decimal.Decimal  `json:"credit"`
	Balance         decimal.Decimal  `json:"balance"`
	IsActive        bool             `json:"isActive"`
	AuditFields
}
