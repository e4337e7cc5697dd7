// Package apperr defines the error kinds shared across the service layer.
// Handlers map kinds onto HTTP status codes in one place so that services
// never reference transport concerns.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindValidation
	KindUnauthorized
)

// Error is a kinded error with an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that a requested entity does not exist.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Conflict reports a uniqueness violation such as a duplicate login id.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Forbidden reports an operation on a resource the caller does not own.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// Validation reports malformed or out-of-range input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Unauthorized reports a missing, invalid, or expired credential.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

// Internal wraps an unexpected failure. The message is surfaced opaquely.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal for errors
// that did not originate from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-safe message for err. Internal errors collapse
// to a fixed opaque message so that causes never leak to the caller.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "internal server error"
}
