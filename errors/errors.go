// Package errors defines the error taxonomy of the engine.
// Every error crossing a package boundary carries a stable Kind string so
// callers branch on the kind instead of parsing messages.
package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindValidation marks a malformed request. Never retried.
	KindValidation Kind = "validation"
	// KindNotFound marks a missing session, update or conflict. Not retried.
	KindNotFound Kind = "not_found"
	// KindUnauthorized marks an insufficient role. Logged as security-relevant.
	KindUnauthorized Kind = "unauthorized"
	// KindAlreadyActive marks a createSession attempt while another session
	// is active for the same document.
	KindAlreadyActive Kind = "already_active"
	// KindStorageConflict marks an optimistic-version mismatch that survived
	// the bounded internal retries.
	KindStorageConflict Kind = "storage_conflict"
	// KindStorageUnavailable marks an unreachable persistence gateway. The
	// triggering operation fails; the engine never proceeds without durability.
	KindStorageUnavailable Kind = "storage_unavailable"
	// KindInternal is the fallback for errors the taxonomy does not cover.
	KindInternal Kind = "internal"
)

// Error is the typed error value exposed by the engine.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying cause while keeping it unwrappable.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf walks the wrap chain and returns the first Kind found,
// or KindInternal when the chain carries no typed error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is and As re-export the standard helpers so callers need a single
// errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func IsValidation(err error) bool         { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool           { return KindOf(err) == KindNotFound }
func IsUnauthorized(err error) bool       { return KindOf(err) == KindUnauthorized }
func IsAlreadyActive(err error) bool      { return KindOf(err) == KindAlreadyActive }
func IsStorageConflict(err error) bool    { return KindOf(err) == KindStorageConflict }
func IsStorageUnavailable(err error) bool { return KindOf(err) == KindStorageUnavailable }

var (
	// ErrVersionMismatch is the low-level marker returned by versioned store
	// writes. Stores and lanes retry it a bounded number of times before
	// surfacing KindStorageConflict.
	ErrVersionMismatch = fmt.Errorf("optimistic version mismatch")
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrInvalidPayload  = fmt.Errorf("unexpected event payload type")
	ErrEmptyWords      = fmt.Errorf("no words have been found")
)
