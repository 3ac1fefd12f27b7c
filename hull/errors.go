// SPDX-License-Identifier: MIT

package hull

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine.
var (
	// ErrInterrupted is returned when the context is cancelled; the context
	// error is wrapped alongside it.
	ErrInterrupted = errors.New("hull: interrupted")

	// ErrZeroGenerator is returned when a generator row is zero.
	ErrZeroGenerator = errors.New("hull: zero generator")

	// ErrNotFullDim is returned when the generators do not span the ambient space.
	ErrNotFullDim = errors.New("hull: generators are not full dimensional")

	// ErrRaggedInput is returned when rows differ in length.
	ErrRaggedInput = errors.New("hull: rows have different lengths")

	// ErrBadGrading is returned when the grading is not positive on a
	// triangulation vertex, or has the wrong length.
	ErrBadGrading = errors.New("hull: grading is not positive on the generators")

	// ErrSnapshotMismatch is returned by Resume when the snapshot does not
	// describe the given generators.
	ErrSnapshotMismatch = errors.New("hull: snapshot does not match generators")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("hull: invalid option supplied")

	// ErrFatal signals a violated internal invariant.
	ErrFatal = errors.New("hull: internal invariant violated")
)

// hullErrorf tags err with the operation name, keeping errors.Is intact.
func hullErrorf(op string, err error) error {
	return fmt.Errorf("hull.%s: %w", op, err)
}

// interrupted wraps a context error.
func interrupted(cause error) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}
