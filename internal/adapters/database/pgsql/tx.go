package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/qardhos/microfin_app/internal/core/ports/repositories"
)

// dbtx is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Repositories resolve one per call, so the same repository works both inside
// and outside a managed transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// txKey is the context key under which WithTx stores the active transaction.
type txKey struct{}

// querier returns the transaction carried by ctx, or the pool when none is.
func querier(ctx context.Context, pool *pgxpool.Pool) dbtx {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

type txManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates the pgx-backed transaction manager.
func NewTxManager(pool *pgxpool.Pool) portsrepo.TxManager {
	return &txManager{pool: pool}
}

// WithTx runs fn inside a database transaction. The transaction is carried in
// the context fn receives, so every repository call fn makes joins it. A
// nested WithTx call detects the carried transaction and joins it instead of
// opening a second one.
func (m *txManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op once Commit has succeeded.
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
