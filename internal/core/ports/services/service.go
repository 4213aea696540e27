package services

// ServiceContainer aggregates the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Journal   JournalSvcFacade
	Period    PeriodSvcFacade
	Accrual   AccrualSvcFacade
	Reporting ReportingSvcFacade
}
