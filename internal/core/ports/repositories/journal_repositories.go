package repositories

import (
	"context"
	"time"

	"github.com/qardhos/microfin_app/internal/core/domain"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a journal header by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.JournalHeader, error)

	// FindJournalLines retrieves all lines of one journal in creation order.
	FindJournalLines(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// FindJournalLinesByClient retrieves all lines carrying the given client
	// link, newest first.
	FindJournalLinesByClient(ctx context.Context, clientID string) ([]domain.JournalLine, error)

	// ListJournalsByPeriod retrieves the journal headers of one period.
	ListJournalsByPeriod(ctx context.Context, periodID string) ([]domain.JournalHeader, error)

	// CountJournalsByPeriod counts all journals booked into one period.
	CountJournalsByPeriod(ctx context.Context, periodID string) (int, error)

	// CountDraftJournalsByPeriod counts the DRAFT journals of one period.
	CountDraftJournalsByPeriod(ctx context.Context, periodID string) (int, error)

	// CountJournalLinesByAccount counts lines referencing the given account,
	// across all journals.
	CountJournalLinesByAccount(ctx context.Context, accountID string) (int, error)

	// SumPostedLinesByAccount aggregates the debit/credit of all POSTED
	// journals' lines in one period, grouped by account. This is the
	// recomputation path of the period close, deliberately independent of
	// the live account totals.
	SumPostedLinesByAccount(ctx context.Context, periodID string) (map[string]domain.ActivityTotals, error)

	// SumPostedLinesByClient aggregates the debit/credit of all POSTED
	// journals' lines in one period, grouped by client link.
	SumPostedLinesByClient(ctx context.Context, periodID string) (map[string]domain.ActivityTotals, error)
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// SaveJournal persists a journal header with its lines.
	SaveJournal(ctx context.Context, journal domain.JournalHeader, lines []domain.JournalLine) error

	// UpdateJournalHeader updates the mutable header fields (reference,
	// description, date) of a journal.
	UpdateJournalHeader(ctx context.Context, journal domain.JournalHeader) error

	// ReplaceJournalLines deletes all existing lines of a journal and inserts
	// the given replacement set.
	ReplaceJournalLines(ctx context.Context, journalID string, lines []domain.JournalLine) error

	// UpdateJournalStatus flips a journal's status and posted-by stamp.
	UpdateJournalStatus(ctx context.Context, journalID string, status domain.JournalStatus, postedByID *string, updatedBy string, updatedAt time.Time) error

	// DeleteJournal removes a journal's lines and then its header.
	DeleteJournal(ctx context.Context, journalID string) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
