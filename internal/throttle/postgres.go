package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sami-Ke/otlex-docs/internal/database"
	"github.com/jackc/pgx/v5"
)

// PostgresStore shares throttle state across instances through a single
// table. Policy logic is unchanged; only persistence moves. Entries are
// upserted whole, matching the replace-whole-entry semantics of the
// in-memory store. Cleanup runs from the background sweeper instead of a
// write counter.
type PostgresStore struct {
	db        *database.DB
	retainFor time.Duration
}

// NewPostgresStore creates the store and its table if missing.
func NewPostgresStore(ctx context.Context, db *database.DB, retainFor time.Duration) (*PostgresStore, error) {
	const schema = `
		CREATE TABLE IF NOT EXISTS admin_login_throttle (
			identity_key      text PRIMARY KEY,
			attempts          integer NOT NULL,
			window_started_at timestamptz NOT NULL,
			locked_until      timestamptz,
			last_seen_at      timestamptz NOT NULL
		)`

	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to ensure throttle table: %w", err)
	}

	return &PostgresStore{db: db, retainFor: retainFor}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	const query = `
		SELECT attempts, window_started_at, locked_until, last_seen_at
		FROM admin_login_throttle
		WHERE identity_key = $1`

	var (
		entry       Entry
		lockedUntil *time.Time
	)
	err := s.db.Pool.QueryRow(ctx, query, key).Scan(
		&entry.Attempts,
		&entry.WindowStartedAt,
		&lockedUntil,
		&entry.LastSeenAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read throttle entry: %w", err)
	}

	if lockedUntil != nil {
		entry.LockedUntil = *lockedUntil
	}
	return entry, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, entry Entry) error {
	const query = `
		INSERT INTO admin_login_throttle (identity_key, attempts, window_started_at, locked_until, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity_key) DO UPDATE SET
			attempts = EXCLUDED.attempts,
			window_started_at = EXCLUDED.window_started_at,
			locked_until = EXCLUDED.locked_until,
			last_seen_at = EXCLUDED.last_seen_at`

	var lockedUntil *time.Time
	if !entry.LockedUntil.IsZero() {
		lockedUntil = &entry.LockedUntil
	}

	_, err := s.db.Pool.Exec(ctx, query, key, entry.Attempts, entry.WindowStartedAt, lockedUntil, entry.LastSeenAt)
	if err != nil {
		return fmt.Errorf("failed to write throttle entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM admin_login_throttle WHERE identity_key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete throttle entry: %w", err)
	}
	return nil
}

// Sweep removes entries idle past the retention horizon whose lockout, if
// any, has expired. Called periodically by the cleanup manager.
func (s *PostgresStore) Sweep(ctx context.Context) (int64, error) {
	const query = `
		DELETE FROM admin_login_throttle
		WHERE last_seen_at < now() - $1::interval
		  AND (locked_until IS NULL OR locked_until < now())`

	tag, err := s.db.Pool.Exec(ctx, query, s.retainFor)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep throttle entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
