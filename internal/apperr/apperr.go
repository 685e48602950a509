package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	NotFound          Kind = "not_found"
	InvalidState      Kind = "invalid_state"
	CapacityExhausted Kind = "capacity_exhausted"
	Validation        Kind = "validation"
	Internal          Kind = "internal"
)

// Error is a user-safe error: Msg may be shown to API clients as is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func New(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

func Invalid(format string, args ...any) error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the first *Error in err's chain, Internal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func IsKind(err error, k Kind) bool { return err != nil && KindOf(err) == k }

// Message returns a message safe to expose to API clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}
