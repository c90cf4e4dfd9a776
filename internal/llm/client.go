// Package llm invokes the remote text-generation backend.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrGenerationFailed marks every failure of the inference backend:
// transport errors, non-2xx responses and malformed or empty payloads.
var ErrGenerationFailed = errors.New("generation failed")

// Client produces text for a system/user prompt pair.
type Client interface {
	Invoke(ctx context.Context, system, user string, maxLength int) (string, error)
}

// GenerationError wraps a backend failure with the step that failed.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrGenerationFailed, e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrGenerationFailed) hold for every GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func generationError(op string, err error) error {
	return &GenerationError{Op: op, Err: err}
}
