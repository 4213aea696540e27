package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/qardhos/microfin_app/internal/core/domain"
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
	portssvc "github.com/qardhos/microfin_app/internal/core/ports/services"
	"github.com/qardhos/microfin_app/internal/dto"
	"github.com/qardhos/microfin_app/internal/middleware"
)

// Audit logging is cross-cutting: rather than sprinkling append calls through
// every service method, the mutating facades are wrapped in decorators that
// record who did what after the operation succeeds. Records are appended
// outside the storage transaction; a failed append is logged, never fatal.

// auditRecorder appends one audit entry, swallowing (but logging) failures.
type auditRecorder struct {
	auditRepo portsrepo.AuditLogWriter
}

func (r *auditRecorder) record(ctx context.Context, actorID, screen, action, description string) {
	entry := domain.AuditLog{
		AuditID:     uuid.NewString(),
		ActorID:     actorID,
		Screen:      screen,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.auditRepo.AppendAuditLog(ctx, entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to append audit log",
			slog.String("error", err.Error()),
			slog.String("action", action))
	}
}

// auditedJournalService decorates a JournalSvcFacade with audit logging.
type auditedJournalService struct {
	portssvc.JournalSvcFacade
	auditRecorder
}

// NewAuditedJournalService wraps a journal service so every successful
// mutation leaves an audit record.
func NewAuditedJournalService(inner portssvc.JournalSvcFacade, auditRepo portsrepo.AuditLogWriter) portssvc.JournalSvcFacade {
	return &auditedJournalService{
		JournalSvcFacade: inner,
		auditRecorder:    auditRecorder{auditRepo: auditRepo},
	}
}

func (s *auditedJournalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, actorID string) (*domain.JournalHeader, error) {
	journal, err := s.JournalSvcFacade.CreateJournal(ctx, req, actorID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "JOURNALS", "CREATE", fmt.Sprintf("Created journal %s (%s)", journal.JournalID, journal.Description))
	return journal, nil
}

func (s *auditedJournalService) UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, actorID string) (*domain.JournalHeader, error) {
	journal, err := s.JournalSvcFacade.UpdateJournal(ctx, journalID, req, actorID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "JOURNALS", "UPDATE", fmt.Sprintf("Updated journal %s", journalID))
	return journal, nil
}

func (s *auditedJournalService) DeleteJournal(ctx context.Context, journalID string, actorID string) error {
	if err := s.JournalSvcFacade.DeleteJournal(ctx, journalID, actorID); err != nil {
		return err
	}
	s.record(ctx, actorID, "JOURNALS", "DELETE", fmt.Sprintf("Deleted draft journal %s", journalID))
	return nil
}

func (s *auditedJournalService) PostJournal(ctx context.Context, journalID string, actorID string) error {
	if err := s.JournalSvcFacade.PostJournal(ctx, journalID, actorID); err != nil {
		return err
	}
	s.record(ctx, actorID, "JOURNALS", "POST", fmt.Sprintf("Posted journal %s", journalID))
	return nil
}

func (s *auditedJournalService) UnpostJournal(ctx context.Context, journalID string, actorID string) error {
	if err := s.JournalSvcFacade.UnpostJournal(ctx, journalID, actorID); err != nil {
		return err
	}
	s.record(ctx, actorID, "JOURNALS", "UNPOST", fmt.Sprintf("Unposted journal %s", journalID))
	return nil
}

// auditedPeriodService decorates a PeriodSvcFacade with audit logging.
type auditedPeriodService struct {
	portssvc.PeriodSvcFacade
	auditRecorder
}

// NewAuditedPeriodService wraps a period service so closes and reversals
// leave audit records.
func NewAuditedPeriodService(inner portssvc.PeriodSvcFacade, auditRepo portsrepo.AuditLogWriter) portssvc.PeriodSvcFacade {
	return &auditedPeriodService{
		PeriodSvcFacade: inner,
		auditRecorder:   auditRecorder{auditRepo: auditRepo},
	}
}

func (s *auditedPeriodService) ClosePeriod(ctx context.Context, periodID string, actorID string) (*dto.ClosePeriodResult, error) {
	result, err := s.PeriodSvcFacade.ClosePeriod(ctx, periodID, actorID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "PERIODS", "CLOSE", fmt.Sprintf("Closed period %s, opened %s", periodID, result.NewPeriodID))
	return result, nil
}

func (s *auditedPeriodService) ReverseClosePeriod(ctx context.Context, periodID string, actorID string) error {
	if err := s.PeriodSvcFacade.ReverseClosePeriod(ctx, periodID, actorID); err != nil {
		return err
	}
	s.record(ctx, actorID, "PERIODS", "REVERSE_CLOSE", fmt.Sprintf("Reversed closing of period %s", periodID))
	return nil
}
