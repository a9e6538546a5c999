package comicgeeks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"sync"

	"comicgeeks/cache"
	"comicgeeks/errors"
	"comicgeeks/internal/logging"
	"comicgeeks/ratelimit"
	"comicgeeks/schema"
)

// Client calls League of Comic Geeks API endpoints. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string

	clientID     string
	clientSecret string

	mu          sync.RWMutex
	accessToken string

	cache   cache.Store
	limiter ratelimit.Limiter
	logger  logging.Logger
}

// NewClient creates a client from configuration. ClientID and ClientSecret
// are required; everything else defaults via Config.Validate.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	return &Client{
		httpClient:   cfg.HTTPClient,
		baseURL:      cfg.BaseURL,
		userAgent:    fmt.Sprintf("comicgeeks-go/%s (%s)", Version, runtime.GOOS),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		accessToken:  cfg.AccessToken,
		cache:        cfg.Cache,
		limiter:      cfg.Limiter,
		logger:       cfg.Logger,
	}, nil
}

// RequestOption adjusts a single endpoint call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	skipCache bool
}

// SkipCache bypasses the response cache for one call: no read, no store.
func SkipCache() RequestOption {
	return func(o *requestOptions) {
		o.skipCache = true
	}
}

// AccessToken returns the token currently attached to authenticated calls.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetAccessToken replaces the token attached to authenticated calls.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// GenerateAccessToken exchanges the client secret for an access token. The
// token is stored on the client for subsequent calls and returned. Never
// served from cache.
func (c *Client) GenerateAccessToken(ctx context.Context) (string, error) {
	raw, err := c.get(ctx, "/authorize/format/json", nil, requestOptions{skipCache: true}, c.clientSecret)
	if err != nil {
		return "", err
	}

	var token string
	if err := decodeDocument(raw, &token); err != nil {
		return "", errors.ServiceWrap("unable to parse access token response", err)
	}
	if token == "" {
		return "", errors.ServiceError("empty access token in response")
	}

	c.SetAccessToken(token)
	return token, nil
}

// Search requests comics matching a search term.
func (c *Client) Search(ctx context.Context, term string, opts ...RequestOption) ([]schema.SearchResult, error) {
	params := url.Values{}
	params.Set("query", term)

	raw, err := c.authorizedGet(ctx, "/search/format/json", params, opts)
	if err != nil {
		return nil, err
	}

	var list []interface{}
	if err := decodeDocument(raw, &list); err != nil {
		return nil, errors.ServiceWrap("unable to parse search response", err)
	}

	results, err := schema.AssembleSearchResults(list)
	if err != nil {
		return nil, errors.ServiceWrap("invalid search response", err)
	}
	return results, nil
}

// Series requests one series by id.
func (c *Client) Series(ctx context.Context, seriesID int64, opts ...RequestOption) (*schema.Series, error) {
	params := url.Values{}
	params.Set("series_id", strconv.FormatInt(seriesID, 10))

	raw, err := c.authorizedGet(ctx, "/series/format/json", params, opts)
	if err != nil {
		return nil, err
	}

	var obj map[string]interface{}
	if err := decodeDocument(raw, &obj); err != nil {
		return nil, errors.ServiceWrap("unable to parse series response", err)
	}

	series, err := schema.AssembleSeries(obj)
	if err != nil {
		return nil, errors.ServiceWrap("invalid series response", err)
	}
	return series, nil
}

// Comic requests one issue by id, including its embedded series, characters,
// creators, key events, variants and covers.
func (c *Client) Comic(ctx context.Context, comicID int64, opts ...RequestOption) (*schema.Comic, error) {
	params := url.Values{}
	params.Set("comic_id", strconv.FormatInt(comicID, 10))

	raw, err := c.authorizedGet(ctx, "/comic/format/json", params, opts)
	if err != nil {
		return nil, err
	}

	var obj map[string]interface{}
	if err := decodeDocument(raw, &obj); err != nil {
		return nil, errors.ServiceWrap("unable to parse comic response", err)
	}

	comic, err := schema.AssembleComic(obj)
	if err != nil {
		return nil, errors.ServiceWrap("invalid comic response", err)
	}
	return comic, nil
}

func (c *Client) authorizedGet(ctx context.Context, endpoint string, params url.Values, opts []RequestOption) ([]byte, error) {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return c.get(ctx, endpoint, params, options, c.AccessToken())
}
