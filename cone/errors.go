// SPDX-License-Identifier: MIT

package cone

import (
	"errors"
	"fmt"

	"github.com/polymake/polymake-sub008/hull"
)

var (
	// ErrBadInput is returned for malformed or inconsistent input; it is
	// always wrapped by an *InputError naming the offending kind.
	ErrBadInput = errors.New("cone: bad input")

	// ErrNotComputable is returned by getters for properties that were not
	// computed or cannot be derived from the input; it is wrapped by a
	// *PropertyError.
	ErrNotComputable = errors.New("cone: property not computable")

	// ErrInterrupted is returned when the context is cancelled.
	ErrInterrupted = hull.ErrInterrupted

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("cone: invalid option supplied")

	// ErrConfig is returned by LoadConfig for invalid configuration.
	ErrConfig = errors.New("cone: invalid configuration")

	// ErrFatal signals a violated internal invariant.
	ErrFatal = errors.New("cone: internal invariant violated")
)

// InputError reports a problem with one input matrix.
type InputError struct {
	Kind InputKind
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("cone: input %s: %v", e.Kind, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func inputErrorf(k InputKind, format string, args ...any) error {
	return &InputError{Kind: k, Err: fmt.Errorf("%w: "+format, append([]any{ErrBadInput}, args...)...)}
}

// PropertyError reports why a property is unavailable.
type PropertyError struct {
	Property Property
	Err      error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("cone: %s: %v", e.Property, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }

func notComputable(p Property, format string, args ...any) error {
	return &PropertyError{Property: p, Err: fmt.Errorf("%w: "+format, append([]any{ErrNotComputable}, args...)...)}
}

func interrupted(cause error) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}
