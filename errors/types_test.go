package errors

import (
	"errors"
	"testing"
	"time"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{
			name: "basic service error",
			apiError: &APIError{
				Kind:    KindService,
				Message: "unknown endpoint",
			},
			want: "service: unknown endpoint",
		},
		{
			name: "authentication error",
			apiError: &APIError{
				Kind:    KindAuthentication,
				Message: "invalid API key",
			},
			want: "authentication: invalid API key",
		},
		{
			name: "error with cause",
			apiError: &APIError{
				Kind:    KindService,
				Message: "cache lookup failed",
				Cause:   errors.New("database is locked"),
			},
			want: "service: cache lookup failed: cause=database is locked",
		},
		{
			name:     "rate limit error with retry after",
			apiError: RateLimitError(90 * time.Second),
			want:     "rate_limit: rate limit exceeded, retry after 1m30s: retry_after=1m30s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.apiError.Error()
			if got != tt.want {
				t.Errorf("APIError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	apiError := ServiceWrap("wrapper error", cause)

	if unwrapped := apiError.Unwrap(); unwrapped != cause {
		t.Errorf("APIError.Unwrap() = %v, want %v", unwrapped, cause)
	}

	if unwrapped := ServiceError("no cause").Unwrap(); unwrapped != nil {
		t.Errorf("APIError.Unwrap() without cause = %v, want nil", unwrapped)
	}

	if !errors.Is(apiError, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestAPIError_FormattedWait(t *testing.T) {
	if got := RateLimitError(time.Minute).FormattedWait(); got != "1m0s" {
		t.Errorf("FormattedWait() = %q, want %q", got, "1m0s")
	}

	if got := ServiceError("boom").FormattedWait(); got != "" {
		t.Errorf("FormattedWait() on service error = %q, want empty", got)
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		want bool
	}{
		{"matching kind", AuthenticationError("invalid API key"), KindAuthentication, true},
		{"non-matching kind", ServiceError("boom"), KindAuthentication, false},
		{"plain error", errors.New("boom"), KindService, false},
		{"nil error", nil, KindService, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKind(tt.err, tt.kind); got != tt.want {
				t.Errorf("IsKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetKind(t *testing.T) {
	if got := GetKind(RateLimitError(time.Second)); got != KindRateLimit {
		t.Errorf("GetKind() = %v, want %v", got, KindRateLimit)
	}
	if got := GetKind(errors.New("boom")); got != KindService {
		t.Errorf("GetKind() on plain error = %v, want %v", got, KindService)
	}
	if got := GetKind(nil); got != Kind("") {
		t.Errorf("GetKind(nil) = %v, want empty", got)
	}
}
