package comicgeeks

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"comicgeeks/errors"
	"comicgeeks/internal/logging"
)

// fingerprint derives the cache key for one request: the full URL plus its
// canonically encoded query string. Identical endpoint and parameters always
// yield the same key.
func (c *Client) fingerprint(endpoint string, params url.Values) string {
	target := c.baseURL + endpoint
	if len(params) == 0 {
		return target
	}
	return target + "?" + params.Encode()
}

// get is the choke point every endpoint call passes through: cache lookup,
// rate-limited dispatch, error classification and cache population.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, options requestOptions, apiKey string) ([]byte, error) {
	key := c.fingerprint(endpoint, params)

	if c.cache != nil && !options.skipCache {
		cached, found, err := c.cache.Select(key)
		if err != nil {
			return nil, errors.ServiceWrap("cache lookup failed", err)
		}
		if found {
			c.logger.Debug("cache hit", logging.String("endpoint", endpoint))
			return cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.ServiceWrap("rate limiter interrupted", err)
	}

	body, err := c.do(ctx, key, apiKey)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && !options.skipCache {
		if err := c.cache.Insert(key, body); err != nil {
			return nil, errors.ServiceWrap("cache store failed", err)
		}
	}

	return body, nil
}

// do performs one HTTP GET and classifies every failure into the errors
// package taxonomy. No retries; failures surface to the caller.
func (c *Client) do(ctx context.Context, target, apiKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.ServiceWrap("failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-API-CLIENT", c.clientID)
	if apiKey != "" {
		req.Header.Set("X-API-KEY", apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.ServiceError("service took too long to respond")
		}
		return nil, errors.ServiceErrorf("unable to connect to %s", target)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ServiceWrap("failed to read response body", err)
	}

	c.logger.Debug("request complete",
		logging.String("url", target),
		logging.Int("status", resp.StatusCode),
		logging.String("duration", time.Since(start).String()))

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, errors.AuthenticationError("invalid API key")
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.ServiceError("unknown endpoint")
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.RateLimitError(retryAfter(resp))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, errors.ServiceErrorf("%d: %s", resp.StatusCode, string(body))
	}

	if !json.Valid(body) {
		return nil, errors.ServiceErrorf("unable to parse response from %s as JSON", target)
	}
	return body, nil
}

// retryAfter reads the server-advised wait from the Retry-After header,
// falling back to one minute when absent or unreadable.
func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return time.Minute
	}

	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}
	return time.Minute
}

// isTimeout reports whether a transport error was a timeout rather than a
// connection failure.
func isTimeout(err error) bool {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}

// decodeDocument decodes a raw response preserving number precision, so
// large integer fields like UPCs survive intact.
func decodeDocument(raw []byte, into interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	if err := decoder.Decode(into); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
