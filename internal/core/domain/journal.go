package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
)

// JournalType classifies a journal by how it was produced.
type JournalType string

const (
	TypeGeneral JournalType = "GENERAL"
	TypeClosing JournalType = "CLOSING"
)

// SourceType is an opaque tag identifying the business process that produced
// a journal. The ledger core only interprets the zakat and period-closing tags.
type SourceType string

const (
	SourceLoanDisbursement SourceType = "LOAN_DISBURSEMENT"
	SourceLoanRepayment    SourceType = "LOAN_REPAYMENT"
	SourcePartnerCapital   SourceType = "PARTNER_CAPITAL"
	SourceProfitPayout     SourceType = "PROFIT_PAYOUT"
	SourceSavings          SourceType = "SAVINGS"
	SourceZakat            SourceType = "ZAKAT"
	SourcePeriodClosing    SourceType = "PERIOD_CLOSING"
	SourceManual           SourceType = "MANUAL"
)

// JournalHeader represents a single, balanced financial event composed of
// multiple lines. Created in DRAFT; POSTED exactly once per posting cycle.
type JournalHeader struct {
	JournalID   string        `json:"journalID"` // Primary Key (UUID)
	PeriodID    string        `json:"periodID"`  // FK -> periods
	Reference   string        `json:"reference"`
	Description string        `json:"description"`
	JournalType JournalType   `json:"journalType"`
	SourceType  SourceType    `json:"sourceType"`
	SourceID    *string       `json:"sourceID"` // Nullable traceability link
	Status      JournalStatus `json:"status"`
	PostedByID  *string       `json:"postedByID"` // Set when POSTED
	JournalDate time.Time     `json:"journalDate"`
	Lines       []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// IsZakat reports whether this journal is immutable once posted.
func (j *JournalHeader) IsZakat() bool {
	return j.SourceType == SourceZakat
}

// JournalLine is one debit/credit leg of a journal, affecting one account and
// optionally one client sub-ledger. Balance is the nature-signed contribution
// computed at line-creation time; it is audit data, not a running total.
type JournalLine struct {
	LineID      string          `json:"lineID"`    // Primary Key (UUID)
	JournalID   string          `json:"journalID"` // FK -> journals
	AccountID   string          `json:"accountID"` // FK -> accounts
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	ClientID    *string         `json:"clientID"` // Nullable FK -> client ledgers
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
}
