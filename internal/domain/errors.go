package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures at module boundaries so callers can choose
// between rejecting, retrying and degrading.
type ErrorKind string

const (
	// KindValidation marks malformed input rejected before any state change.
	KindValidation ErrorKind = "validation"
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindPrecondition marks a state guard that did not hold, e.g. a code at
	// its usage limit or a cart already recovered.
	KindPrecondition ErrorKind = "precondition_failed"
	// KindTransient marks a store or collaborator outage; eligible for retry
	// on the next scheduled pass.
	KindTransient ErrorKind = "transient_io"
	// KindExhausted marks "no data to answer with": not a caller error, so
	// callers can render a neutral empty state.
	KindExhausted ErrorKind = "exhausted"
)

// Error carries a kind plus a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// E constructs a kinded error.
func E(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Ef constructs a kinded error with formatting.
func Ef(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the kind from err, or "" when err carries none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
