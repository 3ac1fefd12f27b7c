// SPDX-License-Identifier: MIT

package hilbert

import (
	"context"
	"strings"

	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// lattice holds the data of one simplicial cone needed to walk its
// parallelepiped.
type lattice[T num.Integer[T]] struct {
	rows [][]T
	vol  T   // D = |det|
	unit [][]T // unit[j] = D·(e_j·V⁻¹) mod D
}

func newLattice[T num.Integer[T]](rows [][]T) (*lattice[T], error) {
	d := len(rows)
	m, err := matrix.FromRows(d, rows)
	if err != nil {
		return nil, err
	}
	adj, det, err := matrix.Invert(m)
	if err != nil {
		return nil, err
	}
	var ck num.Checked[T]
	l := &lattice[T]{rows: rows, vol: ck.Abs(det), unit: make([][]T, d)}
	neg := det.Sign() < 0
	for j := 0; j < d; j++ {
		r := make([]T, d)
		for i := 0; i < d; i++ {
			a, _ := adj.At(j, i)
			if neg {
				a = ck.Neg(a)
			}
			r[i] = l.mod(&ck, a)
		}
		l.unit[j] = r
	}

	return l, ck.Err()
}

// mod returns a mod D in [0, D).
func (l *lattice[T]) mod(ck *num.Checked[T], a T) T {
	r := a.Rem(l.vol)
	if r.Sign() < 0 {
		r = ck.Add(r, l.vol)
	}

	return r
}

func residueKey[T num.Integer[T]](r []T) string {
	parts := make([]string, len(r))
	for i, x := range r {
		parts[i] = x.String()
	}

	return strings.Join(parts, ",")
}

// residues returns all D residue vectors, the zero vector first, in
// breadth-first order of the closure.
func (l *lattice[T]) residues(ctx context.Context) ([][]T, error) {
	d := len(l.rows)
	var ck num.Checked[T]
	zero := make([]T, d)
	for i := range zero {
		zero[i] = num.Zero[T]()
	}
	seen := map[string]struct{}{residueKey(zero): {}}
	out := [][]T{zero}
	for head := 0; head < len(out); head++ {
		if head&255 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, interrupted(err)
			}
		}
		s := out[head]
		for _, u := range l.unit {
			t := make([]T, d)
			for i := range t {
				t[i] = l.mod(&ck, ck.Add(s[i], u[i]))
			}
			k := residueKey(t)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, t)
		}
		if err := ck.Err(); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// point returns (Σ t_i v_i) / D.
func (l *lattice[T]) point(ck *num.Checked[T], t []T) ([]T, error) {
	d := len(l.rows)
	x := make([]T, d)
	for j := 0; j < d; j++ {
		acc := num.Zero[T]()
		for i := 0; i < d; i++ {
			acc = ck.Add(acc, ck.Mul(t[i], l.rows[i][j]))
		}
		if !acc.Rem(l.vol).IsZero() {
			return nil, ErrFatal
		}
		x[j] = ck.Quo(acc, l.vol)
	}

	return x, nil
}

// FundamentalPoints returns the lattice points of the half-open
// parallelepiped of the simplicial cone spanned by the rows of gens, the
// origin first. There are exactly |det(gens)| of them.
//
// Errors:
//   - ErrBadSimplex if gens is not square and non-singular.
//   - num.ErrOverflow, hull.ErrInterrupted.
func FundamentalPoints[T num.Integer[T]](ctx context.Context, gens [][]T) ([][]T, error) {
	if len(gens) == 0 {
		return nil, ErrBadSimplex
	}
	for _, g := range gens {
		if len(g) != len(gens) {
			return nil, ErrBadSimplex
		}
	}
	l, err := newLattice(gens)
	if err != nil {
		return nil, fmtSimplexErr(err)
	}
	res, err := l.residues(ctx)
	if err != nil {
		return nil, err
	}
	var ck num.Checked[T]
	out := make([][]T, len(res))
	for i, t := range res {
		if out[i], err = l.point(&ck, t); err != nil {
			return nil, err
		}
	}

	return out, ck.Err()
}
