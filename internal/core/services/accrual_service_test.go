package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/qardhos/microfin_app/internal/apperrors"
	"github.com/qardhos/microfin_app/internal/core/domain"
	portssvc "github.com/qardhos/microfin_app/internal/core/ports/services"
	"github.com/qardhos/microfin_app/internal/core/services"
	"github.com/qardhos/microfin_app/internal/dto"
)

type AccrualServiceTestSuite struct {
	suite.Suite

	accrualRepo *fakeAccrualRepo
	partnerRepo *fakePartnerRepo
	periodRepo  *fakePeriodRepo
	service     portssvc.AccrualSvcFacade

	actorID   string
	periodID  string
	partnerID string
}

func (s *AccrualServiceTestSuite) SetupTest() {
	s.accrualRepo = newFakeAccrualRepo()
	s.partnerRepo = newFakePartnerRepo()
	s.periodRepo = newFakePeriodRepo()
	s.service = services.NewAccrualService(s.accrualRepo, s.partnerRepo, s.periodRepo)

	s.actorID = uuid.NewString()
	s.periodID = uuid.NewString()
	s.partnerID = uuid.NewString()

	s.Require().NoError(s.periodRepo.SavePeriod(context.Background(), domain.Period{
		PeriodID:  s.periodID,
		Name:      "Open Period",
		StartDate: time.Now().UTC().AddDate(0, -1, 0),
	}))
	s.partnerRepo.partners[s.partnerID] = domain.Partner{
		PartnerID: s.partnerID,
		Name:      "Partner One",
	}
}

func (s *AccrualServiceTestSuite) request() dto.RecordAccrualRequest {
	return dto.RecordAccrualRequest{
		PartnerID:    s.partnerID,
		LoanID:       uuid.NewString(),
		RepaymentID:  uuid.NewString(),
		RawShare:     dec("12.345"),
		CompanyCut:   dec("1.234"),
		PartnerFinal: dec("11.111"),
	}
}

func (s *AccrualServiceTestSuite) TestRecordPartnerAccrual_Success() {
	ctx := context.Background()

	accrual, err := s.service.RecordPartnerAccrual(ctx, s.request(), s.actorID)

	s.Require().NoError(err)
	s.Equal(s.periodID, accrual.PeriodID)
	s.False(accrual.IsClosed)
	s.False(accrual.IsDistributed)
	s.True(accrual.PartnerFinal.Equal(dec("11.111")))

	listed, err := s.service.ListAccrualsByPeriod(ctx, s.periodID)
	s.Require().NoError(err)
	s.Len(listed, 1)
}

func (s *AccrualServiceTestSuite) TestRecordPartnerAccrual_SplitMismatch() {
	req := s.request()
	req.PartnerFinal = dec("11.112")

	_, err := s.service.RecordPartnerAccrual(context.Background(), req, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Empty(s.accrualRepo.accruals)
}

func (s *AccrualServiceTestSuite) TestRecordPartnerAccrual_NegativeAmount() {
	req := s.request()
	req.CompanyCut = dec("-1.234")

	_, err := s.service.RecordPartnerAccrual(context.Background(), req, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccrualServiceTestSuite) TestRecordPartnerAccrual_UnknownPartner() {
	req := s.request()
	req.PartnerID = uuid.NewString()

	_, err := s.service.RecordPartnerAccrual(context.Background(), req, s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccrualServiceTestSuite) TestRecordPartnerAccrual_NoOpenPeriod() {
	ctx := context.Background()

	period, err := s.periodRepo.FindPeriodByID(ctx, s.periodID)
	s.Require().NoError(err)
	endDate := time.Now().UTC()
	period.EndDate = &endDate
	period.IsClosed = true
	s.Require().NoError(s.periodRepo.UpdatePeriod(ctx, *period))

	_, err = s.service.RecordPartnerAccrual(ctx, s.request(), s.actorID)

	s.Require().ErrorIs(err, apperrors.ErrNoOpenPeriod)
}

func TestAccrualServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccrualServiceTestSuite))
}
