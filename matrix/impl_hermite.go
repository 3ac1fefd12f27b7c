// SPDX-License-Identifier: MIT
// Package matrix: lattice kernels based on unimodular transformations.
//
// Purpose:
//   - ColumnHermite: m·U = [H | 0] with U unimodular and H in column echelon form.
//   - Kernel: an integer basis of {x : m·x = 0} (always a saturated lattice).
//   - LatticeBasis: a basis of the lattice generated by a set of rows.
//   - SmithDiagonal: the invariant factors of m.

package matrix

import (
	"github.com/polymake/polymake-sub008/num"
)

// extGcd returns g = gcd(a,b) ≥ 0 and s,t with s·a + t·b = g.
func extGcd[T num.Integer[T]](ck *num.Checked[T], a, b T) (T, T, T) {
	oldR, r := a, b
	oldS, s := ck.Int(1), ck.Int(0)
	oldT, t := ck.Int(0), ck.Int(1)
	for !r.IsZero() {
		q := ck.Quo(oldR, r)
		oldR, r = r, ck.Sub(oldR, ck.Mul(q, r))
		oldS, s = s, ck.Sub(oldS, ck.Mul(q, s))
		oldT, t = t, ck.Sub(oldT, ck.Mul(q, t))
		if ck.Overflowed() {
			break
		}
	}
	if oldR.Sign() < 0 {
		oldR, oldS, oldT = ck.Neg(oldR), ck.Neg(oldS), ck.Neg(oldT)
	}

	return oldR, oldS, oldT
}

// colOp replaces columns (p, j) of rows by (s·A + t·B, −y·A + x·B), a
// unimodular transformation when s·x + t·y = 1.
func colOp[T num.Integer[T]](ck *num.Checked[T], rows [][]T, p, j int, s, t, y, x T) {
	for _, row := range rows {
		a, b := row[p], row[j]
		row[p] = ck.Add(ck.Mul(s, a), ck.Mul(t, b))
		row[j] = ck.Sub(ck.Mul(x, b), ck.Mul(y, a))
	}
}

func swapCols[T any](rows [][]T, p, j int) {
	for _, row := range rows {
		row[p], row[j] = row[j], row[p]
	}
}

func negCol[T num.Integer[T]](ck *num.Checked[T], rows [][]T, p int) {
	for _, row := range rows {
		row[p] = ck.Neg(row[p])
	}
}

// ColumnHermite reduces m by unimodular column operations.
//
// Implementation:
//   - Stage 1: U := I (c×c); p := 0.
//   - Stage 2: for each row i, fold the entries in columns p..c-1 into column p
//     by extended-gcd column operations applied to both m and U; a non-zero
//     result becomes pivot p (made positive) and p advances.
//
// Returns:
//   - H: the transformed m (columns ≥ rank are zero; column k has its first
//     non-zero entry strictly below that of column k-1).
//   - U: the unimodular transform, m·U = H.
//   - rank.
//
// Errors:
//   - ErrNilMatrix, num.ErrOverflow.
func ColumnHermite[T num.Integer[T]](m *Dense[T]) (*Dense[T], *Dense[T], int, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, nil, 0, matrixErrorf(opHermite, err)
	}
	a := m.ToRows()
	u := Identity[T](m.c).ToRows()
	var ck num.Checked[T]
	p := 0
	for i := 0; i < m.r && p < m.c; i++ {
		for j := p + 1; j < m.c; j++ {
			y := a[i][j]
			if y.IsZero() {
				continue
			}
			x := a[i][p]
			if x.IsZero() {
				swapCols(a, p, j)
				swapCols(u, p, j)

				continue
			}
			g, s, t := extGcd(&ck, x, y)
			xg, yg := ck.Quo(x, g), ck.Quo(y, g)
			colOp(&ck, a, p, j, s, t, yg, xg)
			colOp(&ck, u, p, j, s, t, yg, xg)
			if err := ck.Err(); err != nil {
				return nil, nil, 0, err
			}
		}
		if a[i][p].IsZero() {
			continue
		}
		if a[i][p].Sign() < 0 {
			negCol(&ck, a, p)
			negCol(&ck, u, p)
		}
		p++
	}
	if err := ck.Err(); err != nil {
		return nil, nil, 0, err
	}
	h, _ := FromRows(m.c, a)
	ud, _ := FromRows(m.c, u)

	return h, ud, p, nil
}

// Kernel returns the rows of an integer basis of {x : m·x = 0}. The basis
// spans a saturated lattice.
func Kernel[T num.Integer[T]](m *Dense[T]) (*Dense[T], error) {
	_, u, rank, err := ColumnHermite(m)
	if err != nil {
		return nil, matrixErrorf(opKernel, err)
	}
	out, _ := NewDense[T](m.c-rank, m.c)
	for k := rank; k < m.c; k++ {
		for i := 0; i < m.c; i++ {
			out.data[(k-rank)*m.c+i] = u.data[i*m.c+k]
		}
	}

	return out, nil
}

// LatticeBasis returns a basis (as rows) of the lattice generated by the
// rows of m.
func LatticeBasis[T num.Integer[T]](m *Dense[T]) (*Dense[T], error) {
	h, _, rank, err := ColumnHermite(m.Transpose())
	if err != nil {
		return nil, err
	}
	out, _ := NewDense[T](rank, m.c)
	for k := 0; k < rank; k++ {
		for i := 0; i < m.c; i++ {
			out.data[k*m.c+i] = h.data[i*h.c+k]
		}
	}

	return out, nil
}

// SmithDiagonal returns the non-zero invariant factors d_1 | d_2 | … of m.
//
// Implementation:
//   - Stage 1: move the smallest non-zero entry of the trailing block to (t,t).
//   - Stage 2: reduce row t and column t modulo the pivot; if a remainder
//     survives, restart with a smaller pivot.
//   - Stage 3: if some trailing entry is not divisible by the pivot, add its
//     row to row t and repeat.
//
// Complexity:
//   - Polynomial in practice; entry growth is bounded by the pivot choice.
func SmithDiagonal[T num.Integer[T]](m *Dense[T]) ([]T, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSmith, err)
	}
	a := m.ToRows()
	r, c := m.r, m.c
	var ck num.Checked[T]
	var diag []T
	for t := 0; t < r && t < c; t++ {
		pi, pj := -1, -1
		for i := t; i < r; i++ {
			for j := t; j < c; j++ {
				if a[i][j].IsZero() {
					continue
				}
				if pi < 0 || ck.CmpAbs(a[i][j], a[pi][pj]) < 0 {
					pi, pj = i, j
				}
			}
		}
		if pi < 0 {
			break
		}
		a[t], a[pi] = a[pi], a[t]
		swapCols(a, t, pj)
		for {
			clean := true
			for i := t + 1; i < r; i++ {
				if a[i][t].IsZero() {
					continue
				}
				q := ck.Quo(a[i][t], a[t][t])
				for j := t; j < c; j++ {
					a[i][j] = ck.Sub(a[i][j], ck.Mul(q, a[t][j]))
				}
				if !a[i][t].IsZero() {
					clean = false
				}
			}
			for j := t + 1; j < c; j++ {
				if a[t][j].IsZero() {
					continue
				}
				q := ck.Quo(a[t][j], a[t][t])
				for i := t; i < r; i++ {
					a[i][j] = ck.Sub(a[i][j], ck.Mul(q, a[i][t]))
				}
				if !a[t][j].IsZero() {
					clean = false
				}
			}
			if err := ck.Err(); err != nil {
				return nil, err
			}
			if !clean {
				bi, bj := t, t
				for i := t + 1; i < r; i++ {
					if !a[i][t].IsZero() && ck.CmpAbs(a[i][t], a[bi][bj]) < 0 {
						bi, bj = i, t
					}
				}
				for j := t + 1; j < c; j++ {
					if !a[t][j].IsZero() && ck.CmpAbs(a[t][j], a[bi][bj]) < 0 {
						bi, bj = t, j
					}
				}
				a[t], a[bi] = a[bi], a[t]
				swapCols(a, t, bj)

				continue
			}
			bad := -1
			for i := t + 1; i < r && bad < 0; i++ {
				for j := t + 1; j < c; j++ {
					if !a[i][j].Rem(a[t][t]).IsZero() {
						bad = i

						break
					}
				}
			}
			if bad < 0 {
				break
			}
			for j := t; j < c; j++ {
				a[t][j] = ck.Add(a[t][j], a[bad][j])
			}
		}
		diag = append(diag, ck.Abs(a[t][t]))
	}
	if err := ck.Err(); err != nil {
		return nil, err
	}

	return diag, nil
}

// Index returns the index of the lattice generated by the rows of m inside
// its saturation (the product of the invariant factors).
func Index[T num.Integer[T]](m *Dense[T]) (T, error) {
	d, err := SmithDiagonal(m)
	if err != nil {
		return num.Zero[T](), err
	}
	var ck num.Checked[T]
	idx := ck.Int(1)
	for _, x := range d {
		idx = ck.Mul(idx, x)
	}

	return idx, ck.Err()
}
