// SPDX-License-Identifier: MIT

package signeddec

import (
	"errors"
	"fmt"

	"github.com/polymake/polymake-sub008/hull"
)

var (
	// ErrBadInput is returned for ragged or empty input.
	ErrBadInput = errors.New("signeddec: invalid input")

	// ErrBadGrading is returned when the grading is not in the interior of
	// the dual cone, that is not positive on every extreme ray.
	ErrBadGrading = errors.New("signeddec: grading not positive on the cone")

	// ErrNotGeneric is returned when no generic vector was found within the
	// attempt limit.
	ErrNotGeneric = errors.New("signeddec: no generic vector found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("signeddec: invalid option supplied")

	errDegenerate = errors.New("signeddec: degenerate generic vector")
)

func interrupted(cause error) error {
	return fmt.Errorf("%w: %w", hull.ErrInterrupted, cause)
}
