package dto

import (
	"time"

	"github.com/qardhos/microfin_app/internal/core/domain"
)

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID         string     `json:"periodID"`
	Name             string     `json:"name"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	IsClosed         bool       `json:"isClosed"`
	ClosingJournalID *string    `json:"closingJournalID,omitempty"`
}

// ClosePeriodResult is returned by a successful period close. The closing
// journal stays DRAFT and ClosingJournalID is nil when the period had no
// partner accruals to fold.
type ClosePeriodResult struct {
	ClosingJournalID *string `json:"closingJournalID,omitempty"`
	NewPeriodID      string  `json:"newPeriodID"`
}

// ToPeriodResponse converts a domain.Period to its response DTO.
func ToPeriodResponse(p *domain.Period) PeriodResponse {
	return PeriodResponse{
		PeriodID:         p.PeriodID,
		Name:             p.Name,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		IsClosed:         p.IsClosed,
		ClosingJournalID: p.ClosingJournalID,
	}
}

// ToPeriodResponses converts a slice of periods.
func ToPeriodResponses(periods []domain.Period) []PeriodResponse {
	responses := make([]PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToPeriodResponse(&periods[i])
	}
	return responses
}
