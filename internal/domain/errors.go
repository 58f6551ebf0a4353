package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of a closed set of categories.
// Callers branch on Kind, never on the shape or text of the error.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is the error type returned by repositories and services
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "auth.Register"
	Message string // safe to show to API callers
	Err     error  // underlying cause, logged only
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind and Message so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// E builds a new *Error
func E(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// Wrap attaches op and cause to a sentinel, keeping its kind and message
func Wrap(sentinel *Error, op string, err error) *Error {
	return &Error{Kind: sentinel.Kind, Op: op, Message: sentinel.Message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
// Errors outside the taxonomy are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err.
// Internal errors always get the generic message.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal && e.Message != "" {
		return e.Message
	}
	return "Internal server error"
}

// Sentinel errors shared across layers
var (
	ErrEmailInUse         = &Error{Kind: KindConflict, Message: "Email already in use"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrProductNotFound    = &Error{Kind: KindNotFound, Message: "Product not found"}
	ErrRecipeNotFound     = &Error{Kind: KindNotFound, Message: "Recipe not found"}
)
