package geocode

import (
	"errors"
	"fmt"
	"net/http"
)

// Status classifies the outcome of a provider call.
type Status int

const (
	StatusOK Status = iota
	// StatusNoResults is a valid request with nothing found. It is not an error.
	StatusNoResults
	StatusQuotaExceeded
	StatusAuthError
	StatusNetworkError
	StatusInvalidRequest
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoResults:
		return "no_results"
	case StatusQuotaExceeded:
		return "quota_exceeded"
	case StatusAuthError:
		return "auth_error"
	case StatusNetworkError:
		return "network_error"
	case StatusInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Fatal reports whether the status is configuration-level: retrying the same
// request cannot succeed until an operator intervenes.
func (s Status) Fatal() bool {
	return s == StatusQuotaExceeded || s == StatusAuthError
}

var (
	ErrQuotaExceeded  = errors.New("geocode: quota exceeded")
	ErrAuth           = errors.New("geocode: missing or rejected credentials")
	ErrNetwork        = errors.New("geocode: provider unreachable")
	ErrInvalidRequest = errors.New("geocode: invalid request")
)

// ProviderError carries the provider's own status and message next to the
// classified sentinel.
type ProviderError struct {
	Op             string
	ProviderStatus string
	Message        string
	Err            error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Err)
	if e.ProviderStatus != "" {
		msg += " (" + e.ProviderStatus + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StatusOf maps an error returned by Client to its Status. A nil error is
// StatusOK; callers distinguish StatusNoResults by an empty result.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrQuotaExceeded):
		return StatusQuotaExceeded
	case errors.Is(err, ErrAuth):
		return StatusAuthError
	case errors.Is(err, ErrInvalidRequest):
		return StatusInvalidRequest
	default:
		return StatusNetworkError
	}
}

// classifyProviderStatus maps the `status` field of a provider payload.
// It returns nil for statuses that carry data or mean "nothing found".
func classifyProviderStatus(status string) error {
	switch status {
	case "OK", "ZERO_RESULTS", "NOT_FOUND":
		return nil
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return ErrQuotaExceeded
	case "REQUEST_DENIED":
		return ErrAuth
	case "INVALID_REQUEST":
		return ErrInvalidRequest
	default:
		return ErrNetwork
	}
}

// classifyHTTPStatus maps transport-level status codes before the body is read.
func classifyHTTPStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrAuth
	case code == http.StatusTooManyRequests:
		return ErrQuotaExceeded
	case code == http.StatusBadRequest:
		return ErrInvalidRequest
	default:
		return ErrNetwork
	}
}
