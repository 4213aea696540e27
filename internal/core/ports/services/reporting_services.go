package services

import (
	"context"

	"github.com/qardhos/microfin_app/internal/dto"
)

// ReportingSvcFacade defines the read-only reporting surface.
type ReportingSvcFacade interface {
	// TrialBalance returns every account's live totals plus root-level sums.
	TrialBalance(ctx context.Context) (*dto.TrialBalanceResponse, error)

	// PeriodAccountSnapshots returns the account closing snapshots of one period.
	PeriodAccountSnapshots(ctx context.Context, periodID string) ([]dto.AccountSnapshotResponse, error)

	// ClientStatement returns a client's sub-ledger with its journal lines.
	ClientStatement(ctx context.Context, clientID string) (*dto.ClientStatementResponse, error)
}
