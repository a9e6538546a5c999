// Package errors defines the error taxonomy returned by the comicgeeks client.
//
// Every failure surfaced by the client is exactly one of three kinds:
// authentication (rejected credentials), rate limit (upstream quota
// exceeded) and service (everything else at the transport, protocol or
// validation layer).
package errors

import (
	"fmt"
	"strings"
	"time"
)

// Kind represents the kind of API error
type Kind string

const (
	// KindService represents transport, protocol and validation errors
	KindService Kind = "service"
	// KindAuthentication represents rejected credential errors
	KindAuthentication Kind = "authentication"
	// KindRateLimit represents upstream quota errors
	KindRateLimit Kind = "rate_limit"
)

// APIError is a structured error raised by the client
type APIError struct {
	Kind       Kind
	Message    string
	Cause      error
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *APIError) Error() string {
	parts := []string{string(e.Kind), e.Message}

	if e.RetryAfter > 0 {
		parts = append(parts, fmt.Sprintf("retry_after=%s", e.RetryAfter))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause
func (e *APIError) Unwrap() error {
	return e.Cause
}

// FormattedWait returns a human-readable wait duration for rate limit errors.
// Empty for every other kind.
func (e *APIError) FormattedWait() string {
	if e.Kind != KindRateLimit || e.RetryAfter <= 0 {
		return ""
	}
	return e.RetryAfter.String()
}

// ServiceError creates a new service error
func ServiceError(msg string) *APIError {
	return &APIError{
		Kind:    KindService,
		Message: msg,
	}
}

// ServiceErrorf creates a new service error with a formatted message
func ServiceErrorf(format string, args ...interface{}) *APIError {
	return &APIError{
		Kind:    KindService,
		Message: fmt.Sprintf(format, args...),
	}
}

// ServiceWrap creates a new service error wrapping an underlying cause
func ServiceWrap(msg string, cause error) *APIError {
	return &APIError{
		Kind:    KindService,
		Message: msg,
		Cause:   cause,
	}
}

// AuthenticationError creates a new authentication error
func AuthenticationError(msg string) *APIError {
	return &APIError{
		Kind:    KindAuthentication,
		Message: msg,
	}
}

// RateLimitError creates a new rate limit error carrying the server-advised
// retry-after duration
func RateLimitError(retryAfter time.Duration) *APIError {
	return &APIError{
		Kind:       KindRateLimit,
		Message:    fmt.Sprintf("rate limit exceeded, retry after %s", retryAfter),
		RetryAfter: retryAfter,
	}
}

// IsKind checks if an error is of a specific kind
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}

	return apiErr.Kind == kind
}

// GetKind returns the error kind if it's an APIError, otherwise KindService
func GetKind(err error) Kind {
	if err == nil {
		return ""
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		return KindService
	}

	return apiErr.Kind
}
