package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/qardhos/microfin_app/internal/apperrors"
	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
	portssvc "github.com/qardhos/microfin_app/internal/core/ports/services"
	"github.com/qardhos/microfin_app/internal/dto"
	"github.com/qardhos/microfin_app/internal/middleware"
)

// accrualService books partner profit-share accruals into the current period.
// The amount split is decided by the loan/repayment collaborators; this
// service only checks the split reconciles and stamps the period.
type accrualService struct {
	accrualRepo portsrepo.AccrualRepositoryFacade
	partnerRepo portsrepo.PartnerReader
	periodRepo  portsrepo.PeriodReader
}

// NewAccrualService creates a new accrual intake service.
func NewAccrualService(accrualRepo portsrepo.AccrualRepositoryFacade, partnerRepo portsrepo.PartnerReader, periodRepo portsrepo.PeriodReader) portssvc.AccrualSvcFacade {
	return &accrualService{
		accrualRepo: accrualRepo,
		partnerRepo: partnerRepo,
		periodRepo:  periodRepo,
	}
}

var _ portssvc.AccrualSvcFacade = (*accrualService)(nil)

func (s *accrualService) RecordPartnerAccrual(ctx context.Context, req dto.RecordAccrualRequest, actorID string) (*domain.PartnerShareAccrual, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.RawShare.IsNegative() || req.CompanyCut.IsNegative() || req.PartnerFinal.IsNegative() {
		return nil, fmt.Errorf("%w: accrual amounts must not be negative", apperrors.ErrValidation)
	}
	if !req.RawShare.Equal(req.CompanyCut.Add(req.PartnerFinal)) {
		return nil, fmt.Errorf("%w: raw share %s does not equal company cut %s plus partner final %s",
			apperrors.ErrValidation, req.RawShare, req.CompanyCut, req.PartnerFinal)
	}

	if _, err := s.partnerRepo.FindPartnerByID(ctx, req.PartnerID); err != nil {
		return nil, fmt.Errorf("failed to resolve partner %s: %w", req.PartnerID, err)
	}

	period, err := s.periodRepo.FindOpenPeriod(ctx)
	if err != nil {
		return nil, apperrors.ErrNoOpenPeriod
	}

	now := time.Now().UTC()
	accrual := domain.PartnerShareAccrual{
		AccrualID:    uuid.NewString(),
		PartnerID:    req.PartnerID,
		LoanID:       req.LoanID,
		RepaymentID:  req.RepaymentID,
		PeriodID:     period.PeriodID,
		RawShare:     req.RawShare,
		CompanyCut:   req.CompanyCut,
		PartnerFinal: req.PartnerFinal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accrualRepo.SaveAccrual(ctx, accrual); err != nil {
		logger.Error("Failed to save accrual", slog.String("error", err.Error()), slog.String("partner_id", req.PartnerID))
		return nil, fmt.Errorf("failed to save accrual: %w", err)
	}

	logger.Info("Partner accrual recorded",
		slog.String("accrual_id", accrual.AccrualID),
		slog.String("partner_id", accrual.PartnerID),
		slog.String("period_id", accrual.PeriodID))
	return &accrual, nil
}

func (s *accrualService) ListAccrualsByPeriod(ctx context.Context, periodID string) ([]domain.PartnerShareAccrual, error) {
	return s.accrualRepo.ListAccrualsByPeriod(ctx, periodID)
}
