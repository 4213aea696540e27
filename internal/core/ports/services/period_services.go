package services

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/qardhos/microfin_app/internal/dto"
)

// PeriodSvcFacade defines the period closer operations.
type PeriodSvcFacade interface {
	// ResolveCurrentPeriod returns the single open period, or
	// apperrors.ErrNoOpenPeriod when none exists.
	ResolveCurrentPeriod(ctx context.Context) (*domain.Period, error)

	// EnsureOpenPeriod returns the open period, creating a first one when
	// the table holds none. Called once at startup.
	EnsureOpenPeriod(ctx context.Context, actorID string) (*domain.Period, error)

	// GetPeriodByID retrieves one period.
	GetPeriodByID(ctx context.Context, periodID string) (*domain.Period, error)

	// ListPeriods retrieves all periods, newest first.
	ListPeriods(ctx context.Context) ([]domain.Period, error)

	// ClosePeriod snapshots every account and client, folds the period's
	// partner accruals into a DRAFT closing journal, and opens a successor
	// period. The caller posts the closing journal explicitly.
	ClosePeriod(ctx context.Context, periodID string, actorID string) (*dto.ClosePeriodResult, error)

	// ReverseClosePeriod undoes the most recent close: snapshots, accrual
	// flags, profit rows, the closing journal and the successor period,
	// restoring the period as current.
	ReverseClosePeriod(ctx context.Context, periodID string, actorID string) error
}
