package repositories

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
)

// AccrualReader defines read operations for partner share accruals.
type AccrualReader interface {
	// ListAccrualsByPeriod retrieves all accrual rows booked into one period.
	ListAccrualsByPeriod(ctx context.Context, periodID string) ([]domain.PartnerShareAccrual, error)

	// ListPartnerPeriodProfits retrieves the per-partner profit summaries of
	// one period.
	ListPartnerPeriodProfits(ctx context.Context, periodID string) ([]domain.PartnerPeriodProfit, error)
}

// AccrualWriter defines write operations for partner share accruals.
type AccrualWriter interface {
	// SaveAccrual persists a new accrual row.
	SaveAccrual(ctx context.Context, accrual domain.PartnerShareAccrual) error

	// MarkAccrualsClosed flags every accrual of one period as closed.
	MarkAccrualsClosed(ctx context.Context, periodID string, updatedBy string) error

	// ResetAccrualFlags clears the closed and distributed flags of every
	// accrual of one period (period-close reversal).
	ResetAccrualFlags(ctx context.Context, periodID string, updatedBy string) error

	// SavePartnerPeriodProfits persists a batch of per-partner profit summaries.
	SavePartnerPeriodProfits(ctx context.Context, profits []domain.PartnerPeriodProfit) error

	// DeletePartnerPeriodProfitsByPeriod removes the profit summaries of one period.
	DeletePartnerPeriodProfitsByPeriod(ctx context.Context, periodID string) error
}

// AccrualRepositoryFacade combines all accrual repository interfaces.
type AccrualRepositoryFacade interface {
	AccrualReader
	AccrualWriter
}
