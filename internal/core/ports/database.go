// internal/core/ports/database.go
package ports

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier runs statements against Postgres. The pool and a pgx.Tx both
// satisfy it, so the same statement code runs inside or outside a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Database is what handlers see of the store: ad hoc reads for the
// dashboard and health checks, plus transactions for repositories.
type Database interface {
	Querier
	Ping(ctx context.Context) error
	// Health reports pool statistics; "status" is healthy, degraded or unhealthy.
	Health(ctx context.Context) map[string]any
	Transaction(ctx context.Context, fn func(pgx.Tx) error) error
}
