package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: NewAccountRepository(pool),
		JournalRepo: NewJournalRepository(pool),
		PeriodRepo:  NewPeriodRepository(pool),
		ClosingRepo: NewClosingRepository(pool),
		AccrualRepo: NewAccrualRepository(pool),
		ClientRepo:  NewClientRepository(pool),
		PartnerRepo: NewPartnerRepository(pool),
		AuditRepo:   NewAuditRepository(pool),
		TxManager:   NewTxManager(pool),
	}
}
