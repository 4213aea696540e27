package domain

import "time"

// Period is a non-overlapping accounting time window. Exactly one period has
// a nil EndDate at any time: the "current" period that new journals default
// into. Closing a period stamps its EndDate and opens a successor.
type Period struct {
	PeriodID         string     `json:"periodID"` // Primary Key (UUID)
	Name             string     `json:"name"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          *time.Time `json:"endDate"` // nil while open
	IsClosed         bool       `json:"isClosed"`
	ClosingJournalID *string    `json:"closingJournalID"` // Set by period close when lines were generated
	AuditFields
}
