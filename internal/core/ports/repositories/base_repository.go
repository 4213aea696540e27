package repositories

import "context"

// TxManager runs a function inside a single storage transaction. Every
// repository call made with the context it passes to fn joins that
// transaction; either all of them commit or none do. Nested WithTx calls
// join the outer transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
