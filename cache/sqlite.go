package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists responses in a single queries table. Inserts are
// append-only; Select returns the newest unexpired row for a fingerprint.
type SQLiteStore struct {
	db         *sql.DB
	expiryDays int
}

// NewSQLiteStore opens (creating if needed) the cache database at path and
// sweeps expired rows. expiryDays of 0 disables expiry.
func NewSQLiteStore(path string, expiryDays int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	store := &SQLiteStore{db: db, expiryDays: expiryDays}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	if err := store.Sweep(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS queries (
			query TEXT,
			response TEXT,
			date_added TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_query ON queries(query)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration query: %w", err)
		}
	}

	return nil
}

// Select returns the newest unexpired response for a fingerprint. Rows past
// the expiry horizon are filtered out here as well, not only by Sweep.
func (s *SQLiteStore) Select(fingerprint string) (json.RawMessage, bool, error) {
	var (
		response string
		err      error
	)

	if s.expiryDays > 0 {
		err = s.db.QueryRow(
			`SELECT response FROM queries WHERE query = ? AND date_added > ?
			 ORDER BY date_added DESC, rowid DESC LIMIT 1`,
			fingerprint, s.cutoff(),
		).Scan(&response)
	} else {
		err = s.db.QueryRow(
			`SELECT response FROM queries WHERE query = ?
			 ORDER BY date_added DESC, rowid DESC LIMIT 1`,
			fingerprint,
		).Scan(&response)
	}

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to select cached response: %w", err)
	}

	return json.RawMessage(response), true, nil
}

// Insert stores a response under a fingerprint, dated today.
func (s *SQLiteStore) Insert(fingerprint string, response json.RawMessage) error {
	_, err := s.db.Exec(
		`INSERT INTO queries (query, response, date_added) VALUES (?, ?, ?)`,
		fingerprint, string(response), today(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cached response: %w", err)
	}
	return nil
}

// Sweep deletes all rows older than the expiry horizon. A no-op when expiry
// is disabled.
func (s *SQLiteStore) Sweep() error {
	if s.expiryDays <= 0 {
		return nil
	}

	if _, err := s.db.Exec(`DELETE FROM queries WHERE date_added <= ?`, s.cutoff()); err != nil {
		return fmt.Errorf("failed to sweep expired cache rows: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// cutoff returns the ISO date before which rows are considered expired.
// ISO dates compare correctly as strings.
func (s *SQLiteStore) cutoff() string {
	return time.Now().AddDate(0, 0, -s.expiryDays).Format("2006-01-02")
}

func today() string {
	return time.Now().Format("2006-01-02")
}

var _ Store = (*SQLiteStore)(nil)
