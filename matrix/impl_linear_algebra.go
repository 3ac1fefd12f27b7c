// SPDX-License-Identifier: MIT
// Package matrix: elimination kernels.
//
// Purpose:
//   - Rank, row echelon form, determinant, inverse (as adjugate and determinant),
//     greedy maximal-rank row selection and simplex data.
//
// Notes:
//   - All kernels work on private copies; inputs are never mutated.
//   - Row combinations are fraction-free: r_i := (p/g)·r_i − (a/g)·r_p with
//     g = gcd(p, a), followed by division by the row content. This keeps entries
//     small without leaving the integers.

package matrix

import (
	"github.com/polymake/polymake-sub008/num"
)

// eliminate replaces target by a combination of target and pivot that clears
// column col, then divides target by its content.
func eliminate[T num.Integer[T]](ck *num.Checked[T], target, pivot []T, col int) {
	a := target[col]
	if a.IsZero() {
		return
	}
	p := pivot[col]
	g := ck.Gcd(p, a)
	pf, af := ck.Quo(p, g), ck.Quo(a, g)
	for j := range target {
		target[j] = ck.MulSub(pf, target[j], af, pivot[j])
	}
	ck.MakePrimitive(target)
}

// pickPivot returns the row in [from, len(rows)) whose entry in col has the
// smallest non-zero absolute value (lowest index on ties), or -1.
func pickPivot[T num.Integer[T]](ck *num.Checked[T], rows [][]T, from, col int) int {
	p := -1
	for i := from; i < len(rows); i++ {
		if rows[i][col].IsZero() {
			continue
		}
		if p < 0 || ck.CmpAbs(rows[i][col], rows[p][col]) < 0 {
			p = i
		}
	}

	return p
}

// echelon reduces rows in place to row echelon form and returns the rank and
// pivot columns.
func echelon[T num.Integer[T]](ck *num.Checked[T], rows [][]T, cols int) (int, []int) {
	rank := 0
	var pivots []int
	for col := 0; col < cols && rank < len(rows); col++ {
		p := pickPivot(ck, rows, rank, col)
		if p < 0 {
			continue
		}
		rows[rank], rows[p] = rows[p], rows[rank]
		for i := rank + 1; i < len(rows); i++ {
			eliminate(ck, rows[i], rows[rank], col)
		}
		if ck.Overflowed() {
			return rank, pivots
		}
		pivots = append(pivots, col)
		rank++
	}

	return rank, pivots
}

// RowEchelon returns a row echelon form of m (rows made primitive), its rank
// and the pivot columns.
//
// Errors:
//   - ErrNilMatrix, num.ErrOverflow.
func RowEchelon[T num.Integer[T]](m *Dense[T]) (*Dense[T], int, []int, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, 0, nil, matrixErrorf(opRank, err)
	}
	rows := m.ToRows()
	var ck num.Checked[T]
	rank, piv := echelon(&ck, rows, m.c)
	if err := ck.Err(); err != nil {
		return nil, 0, nil, err
	}
	out, err := FromRows(m.c, rows)
	if err != nil {
		return nil, 0, nil, matrixErrorf(opRank, err)
	}

	return out, rank, piv, nil
}

// Rank returns the rank of m.
func Rank[T num.Integer[T]](m *Dense[T]) (int, error) {
	_, r, _, err := RowEchelon(m)

	return r, err
}

// RankOf is Rank for a row slice of the given width.
func RankOf[T num.Integer[T]](cols int, rows [][]T) (int, error) {
	work := make([][]T, len(rows))
	for i, r := range rows {
		if len(r) != cols {
			return 0, matrixErrorf(opRank, ErrDimensionMismatch)
		}
		work[i] = append([]T(nil), r...)
	}
	var ck num.Checked[T]
	rank, _ := echelon(&ck, work, cols)
	if err := ck.Err(); err != nil {
		return 0, err
	}

	return rank, nil
}

// Determinant computes det(m) by Bareiss fraction-free elimination.
//
// Implementation:
//   - Stage 1: validate squareness; det of the 0×0 matrix is 1.
//   - Stage 2: for k = 0..n-1 swap a non-zero pivot into (k,k), then
//     a[i][j] = (a[i][j]·a[k][k] − a[i][k]·a[k][j]) / prev, which is exact.
//
// Errors:
//   - ErrNonSquare, num.ErrOverflow.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Determinant[T num.Integer[T]](m *Dense[T]) (T, error) {
	if err := ValidateSquare(m); err != nil {
		return num.Zero[T](), matrixErrorf(opDet, err)
	}
	n := m.r
	a := m.ToRows()
	var ck num.Checked[T]
	prev := num.One[T]()
	negate := false
	for k := 0; k < n; k++ {
		if a[k][k].IsZero() {
			s := -1
			for i := k + 1; i < n; i++ {
				if !a[i][k].IsZero() {
					s = i

					break
				}
			}
			if s < 0 {
				return num.Zero[T](), nil
			}
			a[k], a[s] = a[s], a[k]
			negate = !negate
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				a[i][j] = ck.Quo(ck.MulSub(a[i][j], a[k][k], a[i][k], a[k][j]), prev)
			}
		}
		if err := ck.Err(); err != nil {
			return num.Zero[T](), err
		}
		prev = a[k][k]
	}
	det := num.One[T]()
	if n > 0 {
		det = a[n-1][n-1]
	}
	if negate {
		det = ck.Neg(det)
	}

	return det, ck.Err()
}

// Invert returns (adj, det) with m·adj = adj·m = det·I.
//
// Implementation:
//   - Stage 1: Gauss–Jordan on [m | I] with fraction-free row combinations,
//     leaving [D | R] with D diagonal, so row i of m⁻¹ is R_i / d_i.
//   - Stage 2: det by Bareiss; adj_i = R_i · (det / d_i), exact because each
//     (d_i, R_i) is primitive and det·m⁻¹ is integral.
//
// Errors:
//   - ErrNonSquare, ErrSingular, num.ErrOverflow.
func Invert[T num.Integer[T]](m *Dense[T]) (*Dense[T], T, error) {
	zero := num.Zero[T]()
	if err := ValidateSquare(m); err != nil {
		return nil, zero, matrixErrorf(opInvert, err)
	}
	n := m.r
	one := num.One[T]()
	aug := make([][]T, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]T, 2*n)
		copy(aug[i], m.data[i*n:(i+1)*n])
		for j := n; j < 2*n; j++ {
			aug[i][j] = zero
		}
		aug[i][n+i] = one
	}
	var ck num.Checked[T]
	for col := 0; col < n; col++ {
		p := pickPivot(&ck, aug, col, col)
		if p < 0 {
			return nil, zero, matrixErrorf(opInvert, ErrSingular)
		}
		aug[col], aug[p] = aug[p], aug[col]
		for i := 0; i < n; i++ {
			if i != col {
				eliminate(&ck, aug[i], aug[col], col)
			}
		}
		if err := ck.Err(); err != nil {
			return nil, zero, err
		}
	}
	det, err := Determinant(m)
	if err != nil {
		return nil, zero, err
	}
	adj, _ := NewDense[T](n, n)
	for i := 0; i < n; i++ {
		d := aug[i][i]
		f := ck.Quo(det, d)
		for j := 0; j < n; j++ {
			adj.data[i*n+j] = ck.Mul(aug[i][n+j], f)
		}
	}
	if err := ck.Err(); err != nil {
		return nil, zero, err
	}

	return adj, det, nil
}

// SimplexData returns the inner support forms of the simplicial cone spanned
// by the rows of gens, and its volume |det(gens)|.
// Form i vanishes on every generator except gens[i] and is positive there;
// forms are primitive.
//
// Errors:
//   - ErrNonSquare, ErrSingular, num.ErrOverflow.
func SimplexData[T num.Integer[T]](gens *Dense[T]) ([][]T, T, error) {
	adj, det, err := Invert(gens)
	if err != nil {
		return nil, num.Zero[T](), matrixErrorf(opSimplex, err)
	}
	if det.IsZero() {
		return nil, det, matrixErrorf(opSimplex, ErrSingular)
	}
	var ck num.Checked[T]
	n := gens.r
	forms := make([][]T, n)
	neg := det.Sign() < 0
	for i := 0; i < n; i++ {
		f := make([]T, n)
		for j := 0; j < n; j++ {
			f[j] = adj.data[j*n+i]
			if neg {
				f[j] = ck.Neg(f[j])
			}
		}
		ck.MakePrimitive(f)
		forms[i] = f
	}
	vol := ck.Abs(det)
	if err := ck.Err(); err != nil {
		return nil, num.Zero[T](), err
	}

	return forms, vol, nil
}

// MaxRankRows greedily selects rows of m in the given order, keeping each
// row that increases the rank. With order == nil rows are visited 0..r-1,
// which yields the lexicographically first maximal independent subset.
func MaxRankRows[T num.Integer[T]](m *Dense[T], order []int) ([]int, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMaxRank, err)
	}
	if order == nil {
		order = make([]int, m.r)
		for i := range order {
			order[i] = i
		}
	}
	var ck num.Checked[T]
	type basisRow struct {
		v   []T
		piv int
	}
	var basis []basisRow
	var picked []int
	for _, idx := range order {
		if idx < 0 || idx >= m.r {
			return nil, matrixErrorf(opMaxRank, ErrOutOfRange)
		}
		cand := append([]T(nil), m.Row(idx)...)
		for _, b := range basis {
			eliminate(&ck, cand, b.v, b.piv)
		}
		if err := ck.Err(); err != nil {
			return nil, err
		}
		pc := -1
		for j, x := range cand {
			if !x.IsZero() {
				pc = j

				break
			}
		}
		if pc < 0 {
			continue
		}
		pos := len(basis)
		for k, b := range basis {
			if b.piv > pc {
				pos = k

				break
			}
		}
		basis = append(basis, basisRow{})
		copy(basis[pos+1:], basis[pos:])
		basis[pos] = basisRow{v: cand, piv: pc}
		picked = append(picked, idx)
		if len(basis) == m.c {
			break
		}
	}

	return picked, nil
}
