package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// localLimiter implements rate limiting using golang.org/x/time/rate. The
// bucket holds Calls tokens and refills over Window, so a burst of Calls is
// allowed immediately and sustained throughput matches the quota.
type localLimiter struct {
	config  Config
	limiter *rate.Limiter
}

// NewLocalLimiter creates a new in-memory token bucket limiter
func NewLocalLimiter(config Config) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &localLimiter{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(float64(config.Calls)/config.Window.Seconds()), config.Calls),
	}, nil
}

// Wait blocks until a call is permitted or the context is done
func (rl *localLimiter) Wait(ctx context.Context) error {
	if !rl.config.Enabled {
		return nil
	}
	return rl.limiter.Wait(ctx)
}

// TryAcquire attempts to acquire a slot without blocking
func (rl *localLimiter) TryAcquire() bool {
	if !rl.config.Enabled {
		return true
	}
	return rl.limiter.Allow()
}

// Stats returns rate limiter statistics
func (rl *localLimiter) Stats() map[string]interface{} {
	return map[string]interface{}{
		"type":             "local",
		"enabled":          rl.config.Enabled,
		"calls":            rl.config.Calls,
		"window":           rl.config.Window.String(),
		"identity":         rl.config.Identity,
		"available_tokens": rl.limiter.Tokens(),
	}
}

var _ Limiter = (*localLimiter)(nil)
