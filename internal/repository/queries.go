package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the slice of pgx shared by pools and transactions, so the
// same queries run in either.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Queries struct {
	db DBTX
}

func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}
