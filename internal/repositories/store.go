// package repositories provides the durable key/value store that backs
// history, quota and preferences, plus the in-memory community board.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/shared"
)

// Storage keys. These match the keys the browser build kept in localStorage.
const (
	KeyHistory = "genre-sense-history"
	KeyDate    = "genre-sense-date"
	KeyCount   = "genre-sense-count"
	KeyTheme   = "genre-sense-theme"
	KeyLocale  = "genre-sense-locale"
)

// Batch collects key/value writes that [Store.Commit] applies in a single transaction.
type Batch map[string]string

// SetJSON encodes v and stages it under key.
func (b Batch) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	b[key] = string(data)
	return nil
}

// Store is a string key/value store on the kv table.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// NewStore creates a new [Store]. The kv table must already be migrated.
func NewStore(db *sql.DB, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{db: db, logger: shared.WithLogger(logger, "component", "store")}
}

// Get returns the value stored under key and whether it was present.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts a single value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.Commit(ctx, Batch{key: value})
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// GetJSON decodes the value under key into v. A value that does not decode is
// reported as [shared.ErrStorage] so callers can fall back to defaults.
func (s *Store) GetJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("%w: %s holds malformed JSON: %v", shared.ErrStorage, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	b := Batch{}
	if err := b.SetJSON(key, v); err != nil {
		return err
	}
	return s.Commit(ctx, b)
}

// Commit writes every entry of b atomically.
func (s *Store) Commit(ctx context.Context, b Batch) error {
	if len(b) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	for _, key := range slices.Sorted(maps.Keys(b)) {
		if _, err := tx.ExecContext(ctx, upsert, key, b[key]); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.logger.Debug("committed", "keys", len(b))
	return nil
}
