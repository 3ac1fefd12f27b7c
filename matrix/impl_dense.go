// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//
// Complexity quicksheet:
//   - NewDense: O(r*c); At/Set: O(1); Clone: O(r*c); Select: O(r'*c).

package matrix

import (
	"fmt"
	"strings"

	"github.com/polymake/polymake-sub008/num"
)

const (
	ctxAt  = "At"
	ctxSet = "Set"
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major integer matrix.
//   - r,c hold dimensions (rows, cols); either may be zero.
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
type Dense[T num.Integer[T]] struct {
	r, c int
	data []T
}

var _ fmt.Stringer = (*Dense[num.Int64])(nil)

// NewDense creates an r×c zero matrix.
//
// Errors:
//   - ErrBadShape if rows or cols is negative.
func NewDense[T num.Integer[T]](rows, cols int) (*Dense[T], error) {
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf(opNew, ErrBadShape)
	}
	d := &Dense[T]{r: rows, c: cols, data: make([]T, rows*cols)}
	z := num.Zero[T]()
	for i := range d.data {
		d.data[i] = z
	}

	return d, nil
}

// FromRows copies rows into a new Dense with the given column count.
// The explicit column count keeps the shape of an empty row set meaningful.
//
// Errors:
//   - ErrBadShape for negative cols.
//   - ErrDimensionMismatch if any row length differs from cols.
func FromRows[T num.Integer[T]](cols int, rows [][]T) (*Dense[T], error) {
	if cols < 0 {
		return nil, matrixErrorf(opFromRows, ErrBadShape)
	}
	d := &Dense[T]{r: len(rows), c: cols, data: make([]T, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return nil, matrixErrorf(opFromRows, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), cols, ErrDimensionMismatch))
		}
		copy(d.data[i*cols:(i+1)*cols], row)
	}

	return d, nil
}

// Identity returns the n×n identity.
func Identity[T num.Integer[T]](n int) *Dense[T] {
	d, _ := NewDense[T](n, n)
	one := num.One[T]()
	for i := 0; i < n; i++ {
		d.data[i*n+i] = one
	}

	return d
}

// Rows returns the number of rows.
func (m *Dense[T]) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense[T]) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Dense[T]) Shape() (rows, cols int) { return m.r, m.c }

func (m *Dense[T]) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	return row*m.c + col, nil
}

// At returns the entry at (row, col).
func (m *Dense[T]) At(row, col int) (T, error) {
	idx, err := m.indexOf(row, col)
	if err != nil {
		var z T

		return z, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[idx], nil
}

// Set writes v at (row, col).
func (m *Dense[T]) Set(row, col int, v T) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	m.data[idx] = v

	return nil
}

// Row returns row i sharing storage with m. It panics on a bad index, which
// is a programmer error in the hot loops that use it.
func (m *Dense[T]) Row(i int) []T {
	if i < 0 || i >= m.r {
		panic(fmt.Sprintf("matrix: Row(%d) out of range [0,%d)", i, m.r))
	}

	return m.data[i*m.c : (i+1)*m.c : (i+1)*m.c]
}

// Clone returns a deep copy.
func (m *Dense[T]) Clone() *Dense[T] {
	d := &Dense[T]{r: m.r, c: m.c, data: make([]T, len(m.data))}
	copy(d.data, m.data)

	return d
}

// ToRows copies the matrix into independent row slices.
func (m *Dense[T]) ToRows() [][]T {
	out := make([][]T, m.r)
	for i := range out {
		out[i] = make([]T, m.c)
		copy(out[i], m.data[i*m.c:(i+1)*m.c])
	}

	return out
}

// Transpose returns a new c×r matrix.
func (m *Dense[T]) Transpose() *Dense[T] {
	d := &Dense[T]{r: m.c, c: m.r, data: make([]T, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			d.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return d
}

// Select materializes the rows listed in idx (in that order).
func (m *Dense[T]) Select(idx []int) (*Dense[T], error) {
	d := &Dense[T]{r: len(idx), c: m.c, data: make([]T, len(idx)*m.c)}
	for k, i := range idx {
		if i < 0 || i >= m.r {
			return nil, denseErrorf("Select", i, 0, ErrOutOfRange)
		}
		copy(d.data[k*m.c:(k+1)*m.c], m.data[i*m.c:(i+1)*m.c])
	}

	return d, nil
}

// String renders one bracketed row per line.
func (m *Dense[T]) String() string {
	var b strings.Builder
	for i := 0; i < m.r; i++ {
		b.WriteString("[")
		for j := 0; j < m.c; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.data[i*m.c+j].String())
		}
		b.WriteString("]\n")
	}

	return b.String()
}

// Mul returns a·b with checked arithmetic.
//
// Errors:
//   - ErrDimensionMismatch if a.Cols() != b.Rows().
//   - num.ErrOverflow.
func Mul[T num.Integer[T]](a, b *Dense[T]) (*Dense[T], error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	out, _ := NewDense[T](a.r, b.c)
	var ck num.Checked[T]
	for i := 0; i < a.r; i++ {
		for k := 0; k < a.c; k++ {
			aik := a.data[i*a.c+k]
			if aik.IsZero() {
				continue
			}
			for j := 0; j < b.c; j++ {
				out.data[i*b.c+j] = ck.Add(out.data[i*b.c+j], ck.Mul(aik, b.data[k*b.c+j]))
			}
		}
	}
	if err := ck.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// MulVec returns the values of the rows of m on x (m·x).
func MulVec[T num.Integer[T]](m *Dense[T], x []T) ([]T, error) {
	if err := ValidateVecLen(m.c, x); err != nil {
		return nil, matrixErrorf(opMulVec, err)
	}
	var ck num.Checked[T]
	out := make([]T, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = ck.Dot(m.data[i*m.c:(i+1)*m.c], x)
	}
	if err := ck.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// VecMul returns x·m (a linear combination of the rows of m).
func VecMul[T num.Integer[T]](x []T, m *Dense[T]) ([]T, error) {
	if err := ValidateVecLen(m.r, x); err != nil {
		return nil, matrixErrorf(opMulVec, err)
	}
	var ck num.Checked[T]
	out := make([]T, m.c)
	for j := range out {
		out[j] = ck.Int(0)
	}
	for i := 0; i < m.r; i++ {
		if x[i].IsZero() {
			continue
		}
		for j := 0; j < m.c; j++ {
			out[j] = ck.Add(out[j], ck.Mul(x[i], m.data[i*m.c+j]))
		}
	}
	if err := ck.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
