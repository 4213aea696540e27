package repositories

import (
	"context"

	"github.com/qardhos/microfin_app/internal/core/domain"
)

// ClosingReader defines read operations over closing snapshots.
type ClosingReader interface {
	// LatestAccountSnapshots retrieves, for every account that has one, its
	// most recent closing snapshot. These supply the opening values of the
	// next close.
	LatestAccountSnapshots(ctx context.Context) (map[string]domain.AccountClosingSnapshot, error)

	// LatestClientSnapshots retrieves each client's most recent closing snapshot.
	LatestClientSnapshots(ctx context.Context) (map[string]domain.ClientClosingSnapshot, error)

	// ListAccountSnapshotsByPeriod retrieves all account snapshots of one period.
	ListAccountSnapshotsByPeriod(ctx context.Context, periodID string) ([]domain.AccountClosingSnapshot, error)

	// ListClientSnapshotsByPeriod retrieves all client snapshots of one period.
	ListClientSnapshotsByPeriod(ctx context.Context, periodID string) ([]domain.ClientClosingSnapshot, error)
}

// ClosingWriter defines write operations over closing snapshots.
type ClosingWriter interface {
	// SaveAccountSnapshots persists a batch of account snapshots.
	SaveAccountSnapshots(ctx context.Context, snapshots []domain.AccountClosingSnapshot) error

	// SaveClientSnapshots persists a batch of client snapshots.
	SaveClientSnapshots(ctx context.Context, snapshots []domain.ClientClosingSnapshot) error

	// DeleteSnapshotsByPeriod removes every account and client snapshot of
	// one period.
	DeleteSnapshotsByPeriod(ctx context.Context, periodID string) error
}

// ClosingRepositoryFacade combines all closing snapshot interfaces.
type ClosingRepositoryFacade interface {
	ClosingReader
	ClosingWriter
}
