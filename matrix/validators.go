// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single source of truth for shape checks.
//  - Return plain sentinel errors (no wrapping) so call sites can wrap uniformly.

package matrix

import (
	"fmt"

	"github.com/polymake/polymake-sub008/num"
)

// ValidateNotNil ensures the matrix reference is non-nil.
func ValidateNotNil[T num.Integer[T]](m *Dense[T]) error {
	if m == nil {
		return ErrNilMatrix
	}

	return nil
}

// ValidateSquare ensures m is non-nil and square.
func ValidateSquare[T num.Integer[T]](m *Dense[T]) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.r != m.c {
		return ErrNonSquare
	}

	return nil
}

// ValidateMulCompatible ensures a.Cols() == b.Rows().
func ValidateMulCompatible[T num.Integer[T]](a, b *Dense[T]) error {
	if a == nil || b == nil {
		return ErrNilMatrix
	}
	if a.c != b.r {
		return ErrDimensionMismatch
	}

	return nil
}

// ValidateVecLen ensures len(x) == want.
func ValidateVecLen[T any](want int, x []T) error {
	if len(x) != want {
		return fmt.Errorf("vector length %d, want %d: %w", len(x), want, ErrDimensionMismatch)
	}

	return nil
}

// ValidateRows ensures every row has exactly cols entries.
func ValidateRows[T any](cols int, rows [][]T) error {
	for i, r := range rows {
		if len(r) != cols {
			return fmt.Errorf("row %d has %d entries, want %d: %w", i, len(r), cols, ErrDimensionMismatch)
		}
	}

	return nil
}
