package dto

import (
	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordAccrualRequest is the payload loan/repayment collaborators send when
// interest income accrues to a partner. The caller supplies the already-split
// amounts; the ledger core only checks they reconcile.
type RecordAccrualRequest struct {
	PartnerID    string          `json:"partnerID" binding:"required"`
	LoanID       string          `json:"loanID" binding:"required"`
	RepaymentID  string          `json:"repaymentID" binding:"required"`
	RawShare     decimal.Decimal `json:"rawShare" binding:"nonneg"`
	CompanyCut   decimal.Decimal `json:"companyCut" binding:"nonneg"`
	PartnerFinal decimal.Decimal `json:"partnerFinal" binding:"nonneg"`
}

// AccrualResponse defines the data returned for a partner share accrual.
type AccrualResponse struct {
	AccrualID     string          `json:"accrualID"`
	PartnerID     string          `json:"partnerID"`
	LoanID        string          `json:"loanID"`
	RepaymentID   string          `json:"repaymentID"`
	PeriodID      string          `json:"periodID"`
	RawShare      decimal.Decimal `json:"rawShare"`
	CompanyCut    decimal.Decimal `json:"companyCut"`
	PartnerFinal  decimal.Decimal `json:"partnerFinal"`
	IsClosed      bool            `json:"isClosed"`
	IsDistributed bool            `json:"isDistributed"`
}

// ToAccrualResponse converts a domain.PartnerShareAccrual to its response DTO.
func ToAccrualResponse(a *domain.PartnerShareAccrual) AccrualResponse {
	return AccrualResponse{
		AccrualID:     a.AccrualID,
		PartnerID:     a.PartnerID,
		LoanID:        a.LoanID,
		RepaymentID:   a.RepaymentID,
		PeriodID:      a.PeriodID,
		RawShare:      a.RawShare,
		CompanyCut:    a.CompanyCut,
		PartnerFinal:  a.PartnerFinal,
		IsClosed:      a.IsClosed,
		IsDistributed: a.IsDistributed,
	}
}

// ToAccrualResponses converts a slice of accruals.
func ToAccrualResponses(accruals []domain.PartnerShareAccrual) []AccrualResponse {
	responses := make([]AccrualResponse, len(accruals))
	for i := range accruals {
		responses[i] = ToAccrualResponse(&accruals[i])
	}
	return responses
}
