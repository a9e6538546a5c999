package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLocalLimiter(t *testing.T) {
	config := Config{
		Calls:   5,
		Window:  time.Minute,
		Enabled: true,
	}

	limiter, err := NewLocalLimiter(config)
	if err != nil {
		t.Fatalf("Failed to create limiter: %v", err)
	}

	// Should allow requests up to the quota immediately
	for i := 0; i < config.Calls; i++ {
		if !limiter.TryAcquire() {
			t.Errorf("Request %d should be allowed", i)
		}
	}

	// Next request should be denied (quota exhausted)
	if limiter.TryAcquire() {
		t.Error("Request should be denied after quota exhausted")
	}
}

func TestLocalLimiter_WaitBlocksUntilSlotFrees(t *testing.T) {
	config := Config{
		Calls:   2,
		Window:  200 * time.Millisecond,
		Enabled: true,
	}

	limiter, err := NewLocalLimiter(config)
	if err != nil {
		t.Fatalf("Failed to create limiter: %v", err)
	}

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("Wait should succeed: %v", err)
		}
	}

	// The third call has to wait for a token to refill.
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Third call should have blocked, elapsed %v", elapsed)
	}
}

func TestLocalLimiter_WaitHonorsContext(t *testing.T) {
	config := Config{
		Calls:   1,
		Window:  time.Hour,
		Enabled: true,
	}

	limiter, err := NewLocalLimiter(config)
	if err != nil {
		t.Fatalf("Failed to create limiter: %v", err)
	}

	if !limiter.TryAcquire() {
		t.Fatal("First request should be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("Wait should fail when the context expires before a slot frees")
	}
}

func TestLocalLimiter_Disabled(t *testing.T) {
	config := Config{
		Calls:   1,
		Window:  time.Minute,
		Enabled: false,
	}

	limiter, err := NewLocalLimiter(config)
	if err != nil {
		t.Fatalf("Failed to create limiter: %v", err)
	}

	// Should allow unlimited requests when disabled
	for i := 0; i < 100; i++ {
		if !limiter.TryAcquire() {
			t.Errorf("Request %d should be allowed when disabled", i)
		}
	}
}

func TestLocalLimiter_Stats(t *testing.T) {
	limiter, err := NewLocalLimiter(DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create limiter: %v", err)
	}

	stats := limiter.Stats()
	if stats["type"] != "local" {
		t.Errorf("Expected type 'local', got %v", stats["type"])
	}
	if stats["calls"] != 20 {
		t.Errorf("Expected calls 20, got %v", stats["calls"])
	}
	if stats["identity"] != "leagueofcomicgeeks" {
		t.Errorf("Expected default identity, got %v", stats["identity"])
	}
}

func TestConfig_Validate(t *testing.T) {
	config := Config{Enabled: true}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate should fill defaults: %v", err)
	}
	if config.Calls != 20 || config.Window != time.Minute {
		t.Errorf("Expected 20 calls per minute default, got %d per %v", config.Calls, config.Window)
	}

	bad := Config{Calls: -1, Enabled: true}
	if err := bad.Validate(); err == nil {
		t.Error("Negative calls should be rejected")
	}

	disabled := Config{Calls: -1, Enabled: false}
	if err := disabled.Validate(); err != nil {
		t.Errorf("Disabled config should skip validation: %v", err)
	}
}
