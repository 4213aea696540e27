package repositories

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods.
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error)

	// FindOpenPeriod retrieves the single period with no end date.
	// Returns apperrors.ErrNotFound when none exists.
	FindOpenPeriod(ctx context.Context) (*domain.Period, error)

	// FindMostRecentlyClosedPeriod retrieves the closed period with the
	// latest end date. Returns apperrors.ErrNotFound when none exists.
	FindMostRecentlyClosedPeriod(ctx context.Context) (*domain.Period, error)

	// ListPeriods retrieves all periods, newest start date first.
	ListPeriods(ctx context.Context) ([]domain.Period, error)
}

// PeriodWriter defines write operations for accounting periods.
type PeriodWriter interface {
	// SavePeriod persists a new period.
	SavePeriod(ctx context.Context, period domain.Period) error

	// UpdatePeriod overwrites a period's mutable fields (name, dates,
	// closed flag, closing journal link).
	UpdatePeriod(ctx context.Context, period domain.Period) error

	// DeletePeriod removes a period row.
	DeletePeriod(ctx context.Context, periodID string) error
}

// PeriodRepositoryFacade combines all period repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
