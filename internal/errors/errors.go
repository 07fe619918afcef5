package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so the HTTP layer can map it to a
// status code without inspecting messages.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing input, caller's fault
	KindNotFound               // referenced entity absent
	KindConflict               // uniqueness or state-machine violation
	KindForbidden              // authenticated but not authorized
	KindInternal               // unexpected storage or infrastructure failure
)

// Error is the domain error type shared by all services. Domain
// errors surface to the HTTP layer unchanged; internal errors wrap
// the underlying cause but never expose it to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected error. The message is what callers
// see; err is kept for logging only.
func Internal(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind of a domain error, defaulting to
// KindInternal for anything that is not a *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}
