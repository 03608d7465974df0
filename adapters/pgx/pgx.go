// Package pgx implements the core storage ports on PostgreSQL via pgxpool.
package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/harborview/clubhouse/core"
)

// DB is the slice of pgxpool.Pool the adapter uses. Narrowed to an interface
// so tests can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Adapter struct {
	db DB
}

var _ core.Storage = (*Adapter)(nil)

func New(db DB) *Adapter {
	return &Adapter{db: db}
}
