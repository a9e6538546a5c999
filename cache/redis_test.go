package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T, expiryDays int) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, "test:", expiryDays), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t, 14)

	fingerprint := "https://leagueofcomicgeeks.com/api/comic/format/json?comic_id=2710631"
	response := json.RawMessage(`{"details":{"id":"2710631"}}`)

	require.NoError(t, store.Insert(fingerprint, response))

	got, found, err := store.Select(fingerprint)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, string(response), string(got))
}

func TestRedisStore_Miss(t *testing.T) {
	store, _ := setupRedisStore(t, 14)

	_, found, err := store.Select("unknown")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupRedisStore(t, 14)

	require.NoError(t, store.Insert("fp", json.RawMessage(`{}`)))

	mr.FastForward(15 * 24 * time.Hour)

	_, found, err := store.Select("fp")
	require.NoError(t, err)
	assert.False(t, found, "entries past the expiry horizon must read as misses")
}

func TestRedisStore_ExpiryDisabled(t *testing.T) {
	store, mr := setupRedisStore(t, 0)

	require.NoError(t, store.Insert("fp", json.RawMessage(`{"eternal":true}`)))

	mr.FastForward(365 * 24 * time.Hour)

	got, found, err := store.Select("fp")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"eternal":true}`, string(got))
}

func TestRedisStore_LastInsertWins(t *testing.T) {
	store, _ := setupRedisStore(t, 14)

	require.NoError(t, store.Insert("fp", json.RawMessage(`{"version":1}`)))
	require.NoError(t, store.Insert("fp", json.RawMessage(`{"version":2}`)))

	got, found, err := store.Select("fp")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"version":2}`, string(got))
}
