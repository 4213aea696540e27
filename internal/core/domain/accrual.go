package domain

import (
	"github.com/shopspring/decimal"
)

// PartnerShareAccrual records one partner's share of interest income from one
// repayment, pending distribution. Created by loan/repayment collaborators;
// consumed and flagged by the period close.
type PartnerShareAccrual struct {
	AccrualID     string          `json:"accrualID"` // Primary Key (UUID)
	PartnerID     string          `json:"partnerID"`
	LoanID        string          `json:"loanID"`
	RepaymentID   string          `json:"repaymentID"`
	PeriodID      string          `json:"periodID"`
	RawShare      decimal.Decimal `json:"rawShare"`     // Partner share before the company cut
	CompanyCut    decimal.Decimal `json:"companyCut"`   // Company's slice of the raw share
	PartnerFinal  decimal.Decimal `json:"partnerFinal"` // RawShare − CompanyCut
	IsClosed      bool            `json:"isClosed"`
	IsDistributed bool            `json:"isDistributed"`
	AuditFields
}

// PartnerPeriodProfit summarizes one partner's total accrued profit for one
// period. Written at close time, deleted on reversal.
type PartnerPeriodProfit struct {
	ProfitID    string          `json:"profitID"` // Primary Key (UUID)
	PartnerID   string          `json:"partnerID"`
	PeriodID    string          `json:"periodID"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
	AuditFields
}
