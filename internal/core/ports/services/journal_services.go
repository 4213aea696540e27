package services

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/qardhos/microfin_app/internal/dto"
)

// JournalSvcFacade defines the journal engine operations exposed to business
// callers (loans, repayments, partner onboarding, profit distribution, zakat).
type JournalSvcFacade interface {
	// CreateJournal validates and persists a balanced journal in DRAFT.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, actorID string) (*domain.JournalHeader, error)

	// GetJournalByID retrieves a journal header with its lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error)

	// ListJournalsByPeriod retrieves the journal headers of one period.
	ListJournalsByPeriod(ctx context.Context, periodID string) ([]domain.JournalHeader, error)

	// UpdateJournal patches a DRAFT journal; a supplied line set replaces the
	// existing one wholesale.
	UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, actorID string) (*domain.JournalHeader, error)

	// DeleteJournal removes a DRAFT journal with its lines.
	DeleteJournal(ctx context.Context, journalID string, actorID string) error

	// PostJournal applies a DRAFT journal's effects to its accounts, their
	// ancestors and any linked client sub-ledgers, then marks it POSTED.
	PostJournal(ctx context.Context, journalID string, actorID string) error

	// UnpostJournal reverses a POSTED journal's effects and returns it to DRAFT.
	UnpostJournal(ctx context.Context, journalID string, actorID string) error
}
