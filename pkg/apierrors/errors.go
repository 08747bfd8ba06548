// Package apierrors defines the typed error taxonomy shared by the Tradeport
// client packages. Call sites match these with errors.As instead of string
// comparison, so the retry layer can recognize throttling without touching
// any other failure kind.
package apierrors

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AuthenticationError is returned for HTTP 401/403 responses, or when a
// request cannot be authenticated before it is sent.
type AuthenticationError struct {
	Message    string
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("authentication failed (status %d): %s", e.StatusCode, e.Message)
	}
	return "authentication failed: " + e.Message
}

// RateLimitError signals that a call was throttled, either by the local token
// bucket or by an upstream HTTP 429. RetryAfter is the wait suggested to the
// caller; zero means no usable hint was available.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// ValidationError is returned for malformed caller input detected locally, or
// for HTTP 400 responses carrying server-side field errors.
type ValidationError struct {
	Message     string
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "validation failed: " + e.Message
	}

	fields := make([]string, 0, len(e.FieldErrors))
	for name, msg := range e.FieldErrors {
		fields = append(fields, name+": "+msg)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s (%s)", e.Message, strings.Join(fields, ", "))
}

// NetworkError is a transport-level failure: timeout, DNS, connection reset.
// Message is sanitized before construction and carries no credential material.
type NetworkError struct {
	Message string
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Message
}

// APIError is returned for HTTP 5xx and any 4xx the client does not classify.
// Body keeps the raw response for diagnostics.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Body)
}

// ConfigurationError aggregates every construction-time violation into a
// single error, so operators see all problems at once instead of fixing them
// one restart at a time.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// SignatureError covers key import and signing failures. The message must
// describe the key by length or shape only, never by value.
type SignatureError struct {
	Message string
	Err     error
}

func (e *SignatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signature error: %s: %v", e.Message, e.Err)
	}
	return "signature error: " + e.Message
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}
