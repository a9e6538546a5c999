package comicgeeks

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"comicgeeks/cache"
	"comicgeeks/internal/logging"
	"comicgeeks/ratelimit"
)

// DefaultTimeout is how long a single request waits for a response.
const DefaultTimeout = 30 * time.Second

// Config holds client configuration
type Config struct {
	// ClientID identifies the registered application. Required.
	ClientID string
	// ClientSecret is the application's secret, used to generate an
	// access token. Required.
	ClientSecret string
	// AccessToken is a previously generated token. Optional; can be
	// obtained later via GenerateAccessToken.
	AccessToken string
	// BaseURL overrides the upstream API root. Defaults to the public API.
	BaseURL string
	// Timeout is the per-request HTTP timeout. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Cache stores raw responses keyed by request fingerprint. Optional;
	// without one every call hits the network.
	Cache cache.Store
	// Limiter bounds the outbound call rate. Defaults to the upstream
	// quota of 20 calls per minute.
	Limiter ratelimit.Limiter
	// Logger receives structured client logs. Defaults to a no-op logger.
	Logger logging.Logger
	// HTTPClient overrides the underlying HTTP client. Timeout is ignored
	// when set.
	HTTPClient *http.Client
}

// Validate checks required fields and fills defaults
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client id is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("client secret is required")
	}

	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Limiter == nil {
		limiter, err := ratelimit.New(ratelimit.DefaultConfig())
		if err != nil {
			return fmt.Errorf("default rate limiter: %w", err)
		}
		c.Limiter = limiter
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Timeout: c.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return nil
}

// ConfigFromEnv builds a Config from environment variables, loading a .env
// file first when one exists:
//
//	COMICGEEKS__CLIENT_ID
//	COMICGEEKS__CLIENT_SECRET
//	COMICGEEKS__ACCESS_TOKEN    (optional)
//	COMICGEEKS__TIMEOUT_SECONDS (optional)
func ConfigFromEnv() (Config, error) {
	// Missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		ClientID:     os.Getenv("COMICGEEKS__CLIENT_ID"),
		ClientSecret: os.Getenv("COMICGEEKS__CLIENT_SECRET"),
		AccessToken:  os.Getenv("COMICGEEKS__ACCESS_TOKEN"),
	}

	if raw := os.Getenv("COMICGEEKS__TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("COMICGEEKS__TIMEOUT_SECONDS: %w", err)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}
