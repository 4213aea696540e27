package services

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/qardhos/microfin_app/internal/dto"
)

// AccrualSvcFacade is the intake surface for partner profit-share accruals.
type AccrualSvcFacade interface {
	// RecordPartnerAccrual books one accrual row into the current open period.
	RecordPartnerAccrual(ctx context.Context, req dto.RecordAccrualRequest, actorID string) (*domain.PartnerShareAccrual, error)

	// ListAccrualsByPeriod retrieves the accrual rows of one period.
	ListAccrualsByPeriod(ctx context.Context, periodID string) ([]domain.PartnerShareAccrual, error)
}
