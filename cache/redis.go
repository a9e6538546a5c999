package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore implements Store on top of Redis, using native TTL expiry in
// place of date bookkeeping. The client is owned by the caller.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a Redis-backed store. expiryDays of 0 stores entries
// without a TTL.
func NewRedisStore(client *redis.Client, keyPrefix string, expiryDays int) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "comicgeeks:"
	}

	var ttl time.Duration
	if expiryDays > 0 {
		ttl = time.Duration(expiryDays) * 24 * time.Hour
	}

	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Select returns the cached response for a fingerprint. Expiry is enforced
// by Redis itself.
func (r *RedisStore) Select(fingerprint string) (json.RawMessage, bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	value, err := r.client.Get(ctx, r.keyPrefix+fingerprint).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to select cached response: %w", err)
	}

	return json.RawMessage(value), true, nil
}

// Insert stores a response under a fingerprint with the configured TTL.
func (r *RedisStore) Insert(fingerprint string, response json.RawMessage) error {
	ctx, cancel := opContext()
	defer cancel()

	if err := r.client.Set(ctx, r.keyPrefix+fingerprint, string(response), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to insert cached response: %w", err)
	}
	return nil
}

// Sweep is a no-op: Redis evicts expired keys on its own.
func (r *RedisStore) Sweep() error {
	return nil
}

// Close releases nothing; the Redis client belongs to the caller.
func (r *RedisStore) Close() error {
	return nil
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

var _ Store = (*RedisStore)(nil)
