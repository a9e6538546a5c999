package cache

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteStore(t *testing.T, expiryDays int) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.sqlite"), expiryDays)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := setupSQLiteStore(t, 14)

	fingerprint := "https://leagueofcomicgeeks.com/api/comic/format/json?comic_id=2710631"
	response := json.RawMessage(`{"details":{"id":"2710631","title":"Blackest Night #1"}}`)

	require.NoError(t, store.Insert(fingerprint, response))

	got, found, err := store.Select(fingerprint)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, string(response), string(got))
}

func TestSQLiteStore_MissForUnknownFingerprint(t *testing.T) {
	store := setupSQLiteStore(t, 14)

	_, found, err := store.Select("https://leagueofcomicgeeks.com/api/series/format/json?series_id=1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStore_NewestRowWins(t *testing.T) {
	store := setupSQLiteStore(t, 14)

	fingerprint := "https://leagueofcomicgeeks.com/api/search/format/json?query=flash"
	require.NoError(t, store.Insert(fingerprint, json.RawMessage(`{"version":1}`)))
	require.NoError(t, store.Insert(fingerprint, json.RawMessage(`{"version":2}`)))

	got, found, err := store.Select(fingerprint)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"version":2}`, string(got))
}

func TestSQLiteStore_ExpiredRowIsMiss(t *testing.T) {
	store := setupSQLiteStore(t, 14)

	fingerprint := "https://leagueofcomicgeeks.com/api/search/format/json?query=stale"
	stale := time.Now().AddDate(0, 0, -15).Format("2006-01-02")
	_, err := store.db.Exec(
		`INSERT INTO queries (query, response, date_added) VALUES (?, ?, ?)`,
		fingerprint, `{"stale":true}`, stale,
	)
	require.NoError(t, err)

	_, found, err := store.Select(fingerprint)
	require.NoError(t, err)
	assert.False(t, found, "rows past the expiry horizon must read as misses")
}

func TestSQLiteStore_SweepDeletesExpiredRows(t *testing.T) {
	store := setupSQLiteStore(t, 14)

	stale := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	_, err := store.db.Exec(
		`INSERT INTO queries (query, response, date_added) VALUES (?, ?, ?)`,
		"old", `{}`, stale,
	)
	require.NoError(t, err)
	require.NoError(t, store.Insert("fresh", json.RawMessage(`{}`)))

	require.NoError(t, store.Sweep())

	var count int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM queries`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSQLiteStore_ExpiryDisabled(t *testing.T) {
	store := setupSQLiteStore(t, 0)

	fingerprint := "https://leagueofcomicgeeks.com/api/search/format/json?query=eternal"
	ancient := time.Now().AddDate(-1, 0, 0).Format("2006-01-02")
	_, err := store.db.Exec(
		`INSERT INTO queries (query, response, date_added) VALUES (?, ?, ?)`,
		fingerprint, `{"ancient":true}`, ancient,
	)
	require.NoError(t, err)

	// Sweep is a no-op and year-old rows still hit.
	require.NoError(t, store.Sweep())

	got, found, err := store.Select(fingerprint)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"ancient":true}`, string(got))
}

func TestSQLiteStore_SweepsAtConstruction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite")

	first, err := NewSQLiteStore(path, 14)
	require.NoError(t, err)

	stale := time.Now().AddDate(0, 0, -20).Format("2006-01-02")
	_, err = first.db.Exec(
		`INSERT INTO queries (query, response, date_added) VALUES (?, ?, ?)`,
		"old", `{}`, stale,
	)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path, 14)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow(`SELECT COUNT(*) FROM queries`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestNew_Factory(t *testing.T) {
	t.Run("sqlite backend", func(t *testing.T) {
		store, err := New(DefaultConfig(filepath.Join(t.TempDir(), "cache.sqlite")))
		require.NoError(t, err)
		defer store.Close()

		_, ok := store.(*SQLiteStore)
		assert.True(t, ok)
	})

	t.Run("redis backend requires client", func(t *testing.T) {
		_, err := New(Config{Type: TypeRedis})
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New(Config{Type: "memcached"})
		assert.Error(t, err)
	})
}
