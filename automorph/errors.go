// SPDX-License-Identifier: MIT

package automorph

import (
	"errors"
	"fmt"

	"github.com/polymake/polymake-sub008/hull"
)

var (
	// ErrBadInput is returned for ragged rows, mismatched color slices or
	// fixed indices out of range.
	ErrBadInput = errors.New("automorph: invalid input")

	// ErrNoForms is returned when Combinatorial quality is requested
	// without linear forms.
	ErrNoForms = errors.New("automorph: combinatorial quality needs linear forms")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("automorph: invalid option supplied")
)

// ErrInterrupted is shared with the hull engine so callers can match one
// sentinel.
var ErrInterrupted = hull.ErrInterrupted

func interrupted(cause error) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

func badInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadInput, fmt.Sprintf(format, args...))
}
