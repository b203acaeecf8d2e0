// Package postgres implements storage.Store on PostgreSQL via pgx.
// Appointment mutations write their outbox event in the same transaction
// as the row change.
package postgres

import (
	"context"
	_ "embed"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sofiane-rh/salon-erp/internal/db"
	"github.com/sofiane-rh/salon-erp/internal/events"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	pool   *db.Pool
	outbox *events.Repository
}

var _ storage.Store = (*Store)(nil)

func New(pool *db.Pool, outbox *events.Repository) *Store {
	return &Store{pool: pool, outbox: outbox}
}

// Migrate applies the idempotent schema bootstrap, including the seeded
// service categories.
func Migrate(ctx context.Context, pool *db.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
