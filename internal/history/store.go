// Package history persists a row per grammar check so operators can see what
// a worker has been doing. The store is optional; the service runs without it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Check is one recorded grammar check.
type Check struct {
	ID         string
	CreatedAt  time.Time
	Language   string
	TextLen    int
	ErrCount   int
	DurationMS float64
}

// Stats aggregates the recorded checks.
type Stats struct {
	TotalChecks   int64     `json:"total_checks"`
	TotalErrors   int64     `json:"total_errors"`
	AvgDurationMS float64   `json:"avg_duration_ms"`
	LastCheckAt   time.Time `json:"last_check_at"`
}

// Store implements the check history using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (or creates) the history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS checks (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		language TEXT NOT NULL,
		text_len INTEGER NOT NULL,
		err_count INTEGER NOT NULL,
		duration_ms REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_checks_created_at ON checks(created_at);
	CREATE INDEX IF NOT EXISTS idx_checks_language ON checks(language);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one completed check.
func (s *Store) Append(ctx context.Context, c Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO checks (id, created_at, language, text_len, err_count, duration_ms) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, createdAt.Unix(), c.Language, c.TextLen, c.ErrCount, c.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	return nil
}

// GetStats returns aggregates over all recorded checks.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	var last sql.NullInt64
	var avg sql.NullFloat64
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(err_count), 0), AVG(duration_ms), MAX(created_at) FROM checks")
	if err := row.Scan(&stats.TotalChecks, &stats.TotalErrors, &avg, &last); err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	if avg.Valid {
		stats.AvgDurationMS = avg.Float64
	}
	if last.Valid {
		stats.LastCheckAt = time.Unix(last.Int64, 0).UTC()
	}
	return stats, nil
}

// Prune deletes checks recorded before the cutoff and returns how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM checks WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune checks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
