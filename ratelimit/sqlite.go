package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteLimiter implements a fixed-window counter persisted to SQLite, so
// quota usage survives process restarts. One row per limiter identity.
type sqliteLimiter struct {
	mu     sync.Mutex
	db     *sql.DB
	config Config
}

// NewSQLiteLimiter creates a limiter whose window state is persisted at path.
// Multiple client instances with different identities can share one database.
func NewSQLiteLimiter(path string, config Config) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rate limit database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping rate limit database: %w", err)
	}

	query := `CREATE TABLE IF NOT EXISTS rate_limits (
		identity TEXT PRIMARY KEY,
		window_start TEXT NOT NULL,
		count INTEGER NOT NULL
	)`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to migrate rate limit database: %w", err)
	}

	return &sqliteLimiter{db: db, config: config}, nil
}

// Wait blocks until a call is permitted or the context is done
func (rl *sqliteLimiter) Wait(ctx context.Context) error {
	if !rl.config.Enabled {
		return nil
	}

	for {
		if rl.TryAcquire() {
			return nil
		}

		// Poll frequently enough that a freed slot is picked up promptly
		// without hammering the database.
		waitTime := rl.config.Window / time.Duration(rl.config.Calls)
		if waitTime < 10*time.Millisecond {
			waitTime = 10 * time.Millisecond
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// TryAcquire attempts to acquire a slot without blocking. On storage errors
// the call is allowed through; durability is an optional hardening, not a
// correctness requirement.
func (rl *sqliteLimiter) TryAcquire() bool {
	if !rl.config.Enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UTC()

	var (
		windowStart string
		count       int
	)
	err := rl.db.QueryRow(
		`SELECT window_start, count FROM rate_limits WHERE identity = ?`,
		rl.config.Identity,
	).Scan(&windowStart, &count)

	switch {
	case err == sql.ErrNoRows:
		return rl.resetWindow(now)
	case err != nil:
		return true
	}

	start, err := time.Parse(time.RFC3339Nano, windowStart)
	if err != nil || now.Sub(start) >= rl.config.Window {
		return rl.resetWindow(now)
	}

	if count >= rl.config.Calls {
		return false
	}

	_, _ = rl.db.Exec(
		`UPDATE rate_limits SET count = count + 1 WHERE identity = ?`,
		rl.config.Identity,
	)
	return true
}

// resetWindow starts a fresh window with this call counted
func (rl *sqliteLimiter) resetWindow(now time.Time) bool {
	_, _ = rl.db.Exec(
		`INSERT INTO rate_limits (identity, window_start, count) VALUES (?, ?, 1)
		 ON CONFLICT(identity) DO UPDATE SET window_start = excluded.window_start, count = 1`,
		rl.config.Identity, now.Format(time.RFC3339Nano),
	)
	return true
}

// Stats returns rate limiter statistics
func (rl *sqliteLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stats := map[string]interface{}{
		"type":     "sqlite",
		"enabled":  rl.config.Enabled,
		"calls":    rl.config.Calls,
		"window":   rl.config.Window.String(),
		"identity": rl.config.Identity,
	}

	var (
		windowStart string
		count       int
	)
	err := rl.db.QueryRow(
		`SELECT window_start, count FROM rate_limits WHERE identity = ?`,
		rl.config.Identity,
	).Scan(&windowStart, &count)
	if err == nil {
		stats["window_start"] = windowStart
		stats["count"] = count
	}

	return stats
}

var _ Limiter = (*sqliteLimiter)(nil)
