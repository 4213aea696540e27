package dto

import (
	"time"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for creating a chart-of-accounts node.
type CreateAccountRequest struct {
	Code            string                  `json:"code" binding:"required"`
	Name            string                  `json:"name" binding:"required"`
	ParentAccountID *string                 `json:"parentAccountID"`
	AccountType     domain.AccountType      `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Nature          domain.AccountNature    `json:"nature" binding:"required,oneof=DEBIT CREDIT"`
	BasicType       domain.BasicAccountType `json:"basicType"`
}

// UpdateAccountRequest is the patch payload for an account's descriptive fields.
type UpdateAccountRequest struct {
	Name            *string                  `json:"name"`
	ParentAccountID *string                  `json:"parentAccountID"`
	BasicType       *domain.BasicAccountType `json:"basicType"`
	IsActive        *bool                    `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                  `json:"accountID"`
	Code            string                  `json:"code"`
	Name            string                  `json:"name"`
	ParentAccountID *string                 `json:"parentAccountID,omitempty"`
	AccountType     domain.AccountType      `json:"accountType"`
	Nature          domain.AccountNature    `json:"nature"`
	BasicType       domain.BasicAccountType `json:"basicType"`
	Debit           decimal.Decimal         `json:"debit"`
	Credit          decimal.Decimal         `json:"credit"`
	Balance         decimal.Decimal         `json:"balance"`
	IsActive        bool                    `json:"isActive"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		ParentAccountID: a.ParentAccountID,
		AccountType:     a.AccountType,
		Nature:          a.Nature,
		BasicType:       a.BasicType,
		Debit:           a.Debit,
		Credit:          a.Credit,
		Balance:         a.Balance,
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
