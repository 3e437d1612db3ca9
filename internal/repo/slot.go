// Package repo contains the persistence slot used by TripMate.
// A slot is a single string value under a string key; the service stores the
// whole trip document and the mock identity as JSON in two slots.
// Each driver has its own file. No business logic lives here.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// SlotRepo is a key-value store of string slots.
// The service layer depends on this interface, not on a concrete driver,
// which allows it to be unit-tested with a mock.
type SlotRepo interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if nothing is stored there.
	Get(ctx context.Context, key string) (string, error)

	// Put creates or overwrites the value stored under key.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgSlotRepo is the Postgres implementation of SlotRepo.
type pgSlotRepo struct {
	db db
}

// NewPostgresSlotRepo constructs a SlotRepo backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
// The slots table must exist (see the migrations package).
func NewPostgresSlotRepo(db db) SlotRepo {
	return &pgSlotRepo{db: db}
}

func (r *pgSlotRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM slots WHERE key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("repo.SlotRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.SlotRepo.Get: %w", err)
	}
	return value, nil
}

func (r *pgSlotRepo) Put(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO slots (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value}); err != nil {
		return fmt.Errorf("repo.SlotRepo.Put: %w", err)
	}
	return nil
}

func (r *pgSlotRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM slots WHERE key = @key`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key}); err != nil {
		return fmt.Errorf("repo.SlotRepo.Delete: %w", err)
	}
	return nil
}
