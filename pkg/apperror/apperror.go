package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the API boundary.
type Kind string

const (
	NotFound            Kind = "NotFound"
	InvalidOperation    Kind = "InvalidOperation"
	ConstraintViolation Kind = "ConstraintViolation"
	UpstreamUnavailable Kind = "UpstreamUnavailable"
	Unauthorized        Kind = "Unauthorized"
	Forbidden           Kind = "Forbidden"
	Internal            Kind = "Internal"
)

// Error is a classified failure carrying a user-visible message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err, keeping it reachable through errors.Unwrap.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
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

// Is matches sentinel errors by kind and message, so a wrapped copy of a
// sentinel still satisfies errors.Is against the original.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// MessageOf returns the user-visible message of err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal Server Error"
}
