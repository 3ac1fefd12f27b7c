// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// Every exported routine returns one of these sentinels (possibly wrapped
// with an operation tag via matrixErrorf) or num.ErrOverflow, which is passed
// through unchanged so the façade can decide whether to retry with a wider
// integer width. Tests match with errors.Is.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape is negative.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates an index outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes, ragged rows,
	// or a vector of the wrong length.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrSingular is returned when an inverse or simplex computation meets a
	// rank-deficient matrix.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrNilMatrix indicates that a nil matrix was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrNotInLattice is returned when a vector has no integral coordinates
	// with respect to a sublattice.
	ErrNotInLattice = errors.New("matrix: vector not in sublattice")

	// ErrNotFullRank is returned by routines that need linearly independent
	// rows (LLL, sublattice bases).
	ErrNotFullRank = errors.New("matrix: rows are not linearly independent")
)

// Operation tags for matrixErrorf.
const (
	opNew        = "New"
	opFromRows   = "FromRows"
	opMul        = "Mul"
	opMulVec     = "MulVec"
	opRank       = "Rank"
	opDet        = "Determinant"
	opInvert     = "Invert"
	opSimplex    = "SimplexData"
	opMaxRank    = "MaxRankRows"
	opHermite    = "ColumnHermite"
	opKernel     = "Kernel"
	opSmith      = "SmithDiagonal"
	opLLL        = "LLL"
	opSublattice = "Sublattice"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
