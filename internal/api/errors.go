package api

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated indicates no session token is available for a call
// that requires one.
var ErrNotAuthenticated = errors.New("not logged in")

// APIError is a non-2xx response from the platform. Message carries the
// backend's own message field when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: HTTP %d", e.StatusCode)
}

// ErrTransport wraps a request that never produced a response (DNS,
// connection refused, timeout). Callers treat these the same as any other
// failed action: log, stay put, let the learner retry.
type ErrTransport struct {
	Op  string
	Err error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("api: %s: %v", e.Op, e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// ErrInvalidPayload indicates a 2xx response whose body does not conform
// to the endpoint's schema. Surfaced instead of trusting the wire shape.
type ErrInvalidPayload struct {
	Op  string
	Err error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("api: %s: invalid response payload: %v", e.Op, e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }
