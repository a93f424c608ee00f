package patchstorage

import (
	"errors"
	"fmt"
	"net/http"
)

// Patchstorage-specific errors.
var (
	// ErrMalformedResponse indicates a body that is not valid JSON.
	ErrMalformedResponse = errors.New("patchstorage: malformed response body")

	// ErrUnexpectedShape indicates valid JSON of the wrong type, e.g. an
	// object where the listing should return an array.
	ErrUnexpectedShape = errors.New("patchstorage: unexpected response shape")

	// ErrTimeout indicates a download attempt exceeded its timeout.
	ErrTimeout = errors.New("patchstorage: request timed out")

	// ErrRetriesExhausted indicates every download attempt hit a transport fault.
	ErrRetriesExhausted = errors.New("patchstorage: download retries exhausted")

	// ErrFilesystem indicates the destination file could not be written.
	ErrFilesystem = errors.New("patchstorage: cannot write destination")
)

// snippetLimit caps how much of a response body goes into errors and logs.
const snippetLimit = 200

// APIError represents a non-2xx response from the remote service.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("patchstorage: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// ShapeError carries the offending payload of a malformed or mis-shaped body.
type ShapeError struct {
	Err     error
	Snippet string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Snippet)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// TransientError marks a network-layer fault that a download may retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("patchstorage: transient transport fault: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient checks if the error is a retryable transport fault.
func IsTransient(err error) bool {
	var transientErr *TransientError
	return errors.As(err, &transientErr)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsForbidden checks if the error indicates the token was not accepted.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// snippet truncates a payload for diagnostics.
func snippet(body []byte) string {
	if len(body) > snippetLimit {
		return string(body[:snippetLimit]) + "..."
	}
	return string(body)
}
