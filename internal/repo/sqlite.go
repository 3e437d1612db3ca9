package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// OpenSQLite opens (creating if needed) the SQLite database file at path.
// Callers run the migrations against the returned handle before use.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between our own connections.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return db, nil
}

// sqliteSlotRepo is the SQLite implementation of SlotRepo.
type sqliteSlotRepo struct {
	db *sql.DB
}

// NewSQLiteSlotRepo constructs a SlotRepo backed by a database/sql handle
// opened with the sqlite3 driver.
func NewSQLiteSlotRepo(db *sql.DB) SlotRepo {
	return &sqliteSlotRepo{db: db}
}

func (r *sqliteSlotRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("repo.SlotRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.SlotRepo.Get: %w", err)
	}
	return value, nil
}

func (r *sqliteSlotRepo) Put(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("repo.SlotRepo.Put: %w", err)
	}
	return nil
}

func (r *sqliteSlotRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("repo.SlotRepo.Delete: %w", err)
	}
	return nil
}
