// Package apperr provides typed errors for the lead intake pipeline.
// Handlers return these instead of throwing marker types; the Public
// message is the only text allowed into a response body, while Internal
// detail stays server-side for logging.
package apperr

import (
	"errors"
	"net/http"
)

// Error carries an HTTP status, a safe public message, and optional
// internal detail that never reaches the caller.
type Error struct {
	Status   int
	Public   string
	Internal string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Internal != "" {
		return e.Public + ": " + e.Internal
	}
	return e.Public
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// BadRequest creates a 400 error with a caller-facing message.
func BadRequest(public string) *Error {
	return &Error{Status: http.StatusBadRequest, Public: public}
}

// TooManyRequests creates a 429 error.
func TooManyRequests(public string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Public: public}
}

// MethodNotAllowed creates a 405 error.
func MethodNotAllowed(public string) *Error {
	return &Error{Status: http.StatusMethodNotAllowed, Public: public}
}

// Internal creates a 500 error. The detail string is logged, not returned.
func Internal(public, detail string) *Error {
	return &Error{Status: http.StatusInternalServerError, Public: public, Internal: detail}
}

// Wrap attaches an underlying cause to e and returns e.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// Public maps any error to a status and a caller-safe message. Untyped
// errors collapse to a fully generic 500.
func Public(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status, ae.Public
	}
	return http.StatusInternalServerError, "Internal server error"
}
