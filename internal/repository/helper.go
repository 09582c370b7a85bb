package repository

import (
	"context"
	"database/sql"
)

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// pick returns the active transaction if one is set, otherwise the database connection.
func pick(db *sql.DB, tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return db
}

// amount converts a ledger amount for storage. Callers keep amounts within
// calc.MaxAmount, so the conversion never wraps.
func amount(v uint64) int64 {
	return int64(v) //nolint:gosec // G115: amounts are bounded by calc.MaxAmount
}
