// SPDX-License-Identifier: MIT

package descent

import (
	"errors"
	"fmt"

	"github.com/polymake/polymake-sub008/hull"
)

var (
	// ErrBadInput is returned for ragged or zero rays, or forms that are
	// negative on a ray.
	ErrBadInput = errors.New("descent: invalid input")

	// ErrBadGrading is returned when the grading is not positive on every
	// ray.
	ErrBadGrading = errors.New("descent: grading not positive on the cone")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("descent: invalid option supplied")
)

func interrupted(cause error) error {
	return fmt.Errorf("%w: %w", hull.ErrInterrupted, cause)
}

func badInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadInput, fmt.Sprintf(format, args...))
}
