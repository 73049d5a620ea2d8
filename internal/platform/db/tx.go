package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type contextKey string

// DBTxKey carries an open transaction through context so repositories
// participate in it transparently.
const DBTxKey contextKey = "db_tx"

// TxFromContext retrieves the active transaction from context, if any.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}

// Beginner starts transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn inside a transaction. Repositories called with the
// derived context execute against the transaction instead of the pool.
// The transaction is rolled back if fn returns an error and committed
// otherwise.
func WithTx(ctx context.Context, pool Beginner, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, DBTxKey, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
