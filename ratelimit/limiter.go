// Package ratelimit bounds the client's outbound call rate to the
// upstream-documented quota (20 calls per 60-second window by default),
// shared across every endpoint call issued by one client instance.
//
// Two backends are available:
//   - a local token bucket built on golang.org/x/time/rate
//   - a SQLite-persisted fixed-window counter whose state survives process
//     restarts, so a restart cannot be used to evade the quota
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter is the pre-emptive client-side limiter the request pipeline
// consults before dispatching. Wait blocks until a slot frees ("sleep and
// retry"); TryAcquire reports availability without blocking.
type Limiter interface {
	Wait(ctx context.Context) error
	TryAcquire() bool
	Stats() map[string]interface{}
}

// Config represents rate limiter configuration
type Config struct {
	// Calls allowed per Window
	Calls  int           `json:"calls"`
	Window time.Duration `json:"window"`
	// Identity names the quota bucket; all endpoints of one client share it
	Identity string `json:"identity,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// DefaultConfig returns the upstream-documented quota of 20 calls per minute
func DefaultConfig() Config {
	return Config{
		Calls:    20,
		Window:   time.Minute,
		Identity: "leagueofcomicgeeks",
		Enabled:  true,
	}
}

// Validate fills defaults and rejects unusable settings
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Calls < 0 {
		return fmt.Errorf("calls must not be negative, got %d", c.Calls)
	}
	if c.Calls == 0 {
		c.Calls = 20
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.Identity == "" {
		c.Identity = "leagueofcomicgeeks"
	}

	return nil
}

// New creates a local in-memory limiter from configuration
func New(config Config) (Limiter, error) {
	return NewLocalLimiter(config)
}
