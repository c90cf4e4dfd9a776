// Package service implements the generation pipeline behind the HTTP gateway.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure. The HTTP layer maps each kind to one status.
type Kind int

// Failure kinds.
const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindContentPolicy
	KindGenerationFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindContentPolicy:
		return "content_policy_violation"
	case KindGenerationFailed:
		return "generation_failed"
	default:
		return "internal"
	}
}

// ErrContentPolicy is the cause of every content-policy rejection.
var ErrContentPolicy = errors.New("Input contains harmful content") //nolint:stylecheck // exact client-facing message

// Error is the typed failure returned by every gateway operation.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with kind.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf builds an Error with a formatted cause.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind carried by err, or KindInternal for any other error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
