package services

import (
	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
	portssvc "github.com/qardhos/microfin_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. Mutating facades are wrapped in audit decorators.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo)

	journal := NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		repos.ClientRepo,
		repos.PeriodRepo,
		repos.TxManager,
	)
	container.Journal = NewAuditedJournalService(journal, repos.AuditRepo)

	// The period closer calls the undecorated journal engine for its closing
	// journal; the close itself is the audited event.
	period := NewPeriodService(
		repos.PeriodRepo,
		repos.JournalRepo,
		repos.AccountRepo,
		repos.ClientRepo,
		repos.ClosingRepo,
		repos.AccrualRepo,
		repos.PartnerRepo,
		journal,
		repos.TxManager,
	)
	container.Period = NewAuditedPeriodService(period, repos.AuditRepo)

	container.Accrual = NewAccrualService(repos.AccrualRepo, repos.PartnerRepo, repos.PeriodRepo)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.JournalRepo, repos.ClientRepo, repos.ClosingRepo)

	return container
}
