package dto

import (
	"time"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one debit/credit leg of a create/update request.
// By convention exactly one of debit/credit is nonzero; the core does not
// enforce that at the line level, only that the journal as a whole balances.
type CreateJournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit" binding:"nonneg"`
	Credit      decimal.Decimal `json:"credit" binding:"nonneg"`
	Description string          `json:"description"`
	ClientID    *string         `json:"clientID"`
}

// CreateJournalRequest is the payload for creating a DRAFT journal.
// PeriodID is optional; when absent the journal is booked into the current
// open period.
type CreateJournalRequest struct {
	PeriodID    *string                    `json:"periodID"`
	Reference   string                     `json:"reference"`
	Description string                     `json:"description" binding:"required"`
	JournalType domain.JournalType         `json:"journalType"`
	SourceType  domain.SourceType          `json:"sourceType"`
	SourceID    *string                    `json:"sourceID"`
	Date        time.Time                  `json:"date"`
	Lines       []CreateJournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateJournalRequest is the patch payload for a DRAFT journal. A non-nil
// Lines replaces the full line set.
type UpdateJournalRequest struct {
	Reference   *string                     `json:"reference"`
	Description *string                     `json:"description"`
	Date        *time.Time                  `json:"date"`
	Lines       *[]CreateJournalLineRequest `json:"lines"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description,omitempty"`
	ClientID    *string         `json:"clientID,omitempty"`
}

// JournalResponse defines the data returned for a journal header.
type JournalResponse struct {
	JournalID   string                `json:"journalID"`
	PeriodID    string                `json:"periodID"`
	Reference   string                `json:"reference"`
	Description string                `json:"description"`
	JournalType domain.JournalType    `json:"journalType"`
	SourceType  domain.SourceType     `json:"sourceType"`
	SourceID    *string               `json:"sourceID,omitempty"`
	Status      domain.JournalStatus  `json:"status"`
	PostedByID  *string               `json:"postedByID,omitempty"`
	Date        time.Time             `json:"date"`
	Lines       []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
}

// ToJournalLineResponse converts a domain.JournalLine to its response DTO.
func ToJournalLineResponse(line *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      line.LineID,
		AccountID:   line.AccountID,
		Debit:       line.Debit,
		Credit:      line.Credit,
		Balance:     line.Balance,
		Description: line.Description,
		ClientID:    line.ClientID,
	}
}

// ToJournalResponse converts a domain.JournalHeader (with any loaded lines)
// to its response DTO.
func ToJournalResponse(j *domain.JournalHeader) JournalResponse {
	resp := JournalResponse{
		JournalID:   j.JournalID,
		PeriodID:    j.PeriodID,
		Reference:   j.Reference,
		Description: j.Description,
		JournalType: j.JournalType,
		SourceType:  j.SourceType,
		SourceID:    j.SourceID,
		Status:      j.Status,
		PostedByID:  j.PostedByID,
		Date:        j.JournalDate,
		CreatedAt:   j.CreatedAt,
		CreatedBy:   j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i := range j.Lines {
			resp.Lines[i] = ToJournalLineResponse(&j.Lines[i])
		}
	}
	return resp
}
