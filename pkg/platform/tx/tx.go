// Package tx carries the open *sql.Tx of a store transaction through the
// context. Store methods run on the caller's transaction when there is one and
// on the pool otherwise, so a merge nested inside a phone attach or link-code
// claim commits or rolls back with it.
package tx

import (
	"context"
	"database/sql"
)

// Executor is the query surface shared by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// WithTx marks ctx as running inside tx. A nil tx leaves ctx unchanged.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// From returns the transaction ctx is running inside, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// Joined reports whether a caller already opened a transaction; nested
// RunInTx calls then reuse it instead of beginning their own.
func Joined(ctx context.Context) bool {
	_, ok := From(ctx)
	return ok
}

// ExecutorFor picks the caller's transaction when ctx carries one and db otherwise.
func ExecutorFor(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}
