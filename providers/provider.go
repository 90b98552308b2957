// Package providers holds the shared plumbing for upstream flight-data
// clients: error wrapping, rate limiting, and HTTP retry policy.
package providers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Error wraps an upstream failure with the provider that produced it.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err under the given provider name.
func NewError(provider string, err error) *Error {
	return &Error{Provider: provider, Err: err}
}

// StatusError is returned for non-success HTTP responses so callers can
// distinguish transport failures from rejected requests.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// retryable reports whether a failure is worth retrying: network errors
// and 5xx responses are, 4xx rejections are not.
func retryable(err error) bool {
	if se, ok := err.(*StatusError); ok {
		return se.Code >= http.StatusInternalServerError
	}
	return true
}

// Backoff returns the shared retry policy for provider HTTP calls:
// capped exponential backoff with a small retry budget.
func Backoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return backoff.WithMaxRetries(b, 2)
}

// Permanent marks an error as non-retryable for backoff.Retry when it
// should not be attempted again.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	if retryable(err) {
		return err
	}
	return backoff.Permanent(err)
}
