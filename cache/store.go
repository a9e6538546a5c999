// Package cache provides a durable response cache keyed by request
// fingerprint, with time-based expiry and pruning.
//
// Two backends are available:
//   - SQLite (github.com/mattn/go-sqlite3) matching the upstream single-table
//     layout queries(query, response, date_added)
//   - Redis (github.com/go-redis/redis/v8) for hosts that already run Redis,
//     using native TTL expiry
package cache

import (
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// DefaultExpiryDays is how long entries stay valid when no horizon is
// configured explicitly.
const DefaultExpiryDays = 14

// Store is the key/value-with-expiry contract the request pipeline consumes.
// Entries past the expiry horizon are treated as misses even before they are
// swept.
type Store interface {
	// Select returns the most recently stored unexpired response for a
	// fingerprint, reporting whether one was found.
	Select(fingerprint string) (json.RawMessage, bool, error)
	// Insert stores a response under a fingerprint. Duplicate fingerprints
	// may coexist; Select picks the newest.
	Insert(fingerprint string, response json.RawMessage) error
	// Sweep deletes all entries older than the expiry horizon.
	Sweep() error
	Close() error
}

// Type represents the cache backend type
type Type string

const (
	TypeSQLite Type = "sqlite"
	TypeRedis  Type = "redis"
)

// Config holds cache configuration
type Config struct {
	Type Type `json:"type"`
	// Path is the SQLite database file (sqlite backend only)
	Path string `json:"path,omitempty"`
	// ExpiryDays is the expiry horizon in days; 0 disables expiry entirely
	ExpiryDays int `json:"expiry_days"`
	// RedisClient and KeyPrefix apply to the redis backend only
	RedisClient *redis.Client `json:"-"`
	KeyPrefix   string        `json:"key_prefix,omitempty"`
}

// DefaultConfig returns default cache configuration
func DefaultConfig(path string) Config {
	return Config{
		Type:       TypeSQLite,
		Path:       path,
		ExpiryDays: DefaultExpiryDays,
	}
}

// New creates a cache store based on configuration
func New(config Config) (Store, error) {
	switch config.Type {
	case TypeSQLite, "":
		return NewSQLiteStore(config.Path, config.ExpiryDays)

	case TypeRedis:
		if config.RedisClient == nil {
			return nil, fmt.Errorf("redis client required for redis cache")
		}
		return NewRedisStore(config.RedisClient, config.KeyPrefix, config.ExpiryDays), nil

	default:
		return nil, fmt.Errorf("unknown cache type: %s", config.Type)
	}
}
