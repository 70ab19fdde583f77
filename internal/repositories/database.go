package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface repositories run against. It is satisfied by
// *pgxpool.Pool, pgx.Tx and the pgxmock pool, so the same repository code
// serves plain reads, transactional workflows and tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Database adds transaction support on top of DBTX for the workflow services.
type Database interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}
