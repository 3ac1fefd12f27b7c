// SPDX-License-Identifier: MIT

package hilbert

import (
	"errors"
	"fmt"

	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/matrix"
)

var (
	// ErrNotDegreeOne is returned by HVector when a triangulation vertex has
	// degree different from 1.
	ErrNotDegreeOne = errors.New("hilbert: triangulation vertex of degree other than 1")

	// ErrNotPointed is returned when the support hyperplanes do not have
	// full rank.
	ErrNotPointed = errors.New("hilbert: cone is not pointed")

	// ErrBadSimplex is returned for a simplex key of the wrong size or a
	// singular simplex.
	ErrBadSimplex = errors.New("hilbert: invalid simplex")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("hilbert: invalid option supplied")

	// ErrFatal signals a violated internal invariant.
	ErrFatal = errors.New("hilbert: internal invariant violated")
)

func interrupted(cause error) error {
	return fmt.Errorf("%w: %w", hull.ErrInterrupted, cause)
}

// fmtSimplexErr maps structural matrix failures to ErrBadSimplex and passes
// overflow through.
func fmtSimplexErr(err error) error {
	if errors.Is(err, matrix.ErrSingular) || errors.Is(err, matrix.ErrNonSquare) ||
		errors.Is(err, matrix.ErrDimensionMismatch) {
		return fmt.Errorf("%w: %w", ErrBadSimplex, err)
	}

	return err
}
