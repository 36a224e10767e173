package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// FailureKind classifies why a provider call failed.
// Retry policy is decided on the kind, never on error text.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureRateLimit
	FailureAuth
	FailureInvalidRequest
	FailureServer
	FailureNetwork
)

func (k FailureKind) String() string {
	switch k {
	case FailureRateLimit:
		return "rate_limit"
	case FailureAuth:
		return "auth"
	case FailureInvalidRequest:
		return "invalid_request"
	case FailureServer:
		return "server"
	case FailureNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Retryable reports whether the failure is transient enough to back off and retry
func (k FailureKind) Retryable() bool {
	return k == FailureRateLimit
}

// ProviderError is returned by provider adapters for every failed call.
type ProviderError struct {
	Kind       FailureKind
	StatusCode int    // HTTP status when known, 0 otherwise
	Provider   string // provider name
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain.
// Errors that are not ProviderErrors are FailureUnknown.
func KindOf(err error) FailureKind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return FailureUnknown
}

// IsRateLimited reports whether err was classified as a rate limit
func IsRateLimited(err error) bool {
	return KindOf(err) == FailureRateLimit
}

// KindFromStatus maps an HTTP status code to a failure kind
func KindFromStatus(status int) FailureKind {
	switch {
	case status == http.StatusTooManyRequests:
		return FailureRateLimit
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return FailureAuth
	case status >= 400 && status < 500:
		return FailureInvalidRequest
	case status >= 500:
		return FailureServer
	default:
		return FailureUnknown
	}
}
