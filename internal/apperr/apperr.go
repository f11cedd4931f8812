// Package apperr defines the error taxonomy shared by the service layer and
// the API boundary. Expected outcomes (unauthenticated, forbidden, not found,
// validation) carry a caller-facing message; internal errors wrap the cause
// and are presented to callers as a generic failure.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindValidation
)

// Error is a classified error. Forbidden errors carry the specific business
// rule that was violated in Msg.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // underlying cause, internal errors only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Unauthenticated returns an error for a missing or invalid session.
func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Msg: msg}
}

// Forbiddenf returns an error for a rule violation by an authenticated caller.
func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns an error for an absent user or document.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Validationf returns an error for malformed or missing input.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure. The message shown to callers at the
// boundary is generic; msg and err are for logs only.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
