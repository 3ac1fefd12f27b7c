// SPDX-License-Identifier: MIT

package hilbert

import (
	"context"
	"fmt"
	"math/big"

	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/num"
)

// HVector returns the numerator coefficients h_0, h_1, … of the Hilbert
// series Σ_k h_k t^k / (1−t)^d of the cone triangulated by simplices, under
// grading. Every vertex of every simplex must have degree 1.
//
// Each simplex contributes its parallelepiped points, shifted by v_i where
// coordinate i is zero and the facet opposite v_i is excluded (the
// Excluded mask from a hull build with an order vector). The half-open
// cells then partition the cone, so the contributions add up.
// Trailing zero coefficients are dropped.
//
// Errors:
//   - ErrNotDegreeOne, ErrBadSimplex, num.ErrOverflow, hull.ErrInterrupted.
func HVector[T num.Integer[T]](ctx context.Context, gens [][]T, simplices []hull.Simplex[T], grading []T,
	opts ...Option) ([]*big.Int, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	if len(gens) == 0 || len(simplices) == 0 {
		return nil, nil
	}
	dim := len(gens[0])
	var ck num.Checked[T]
	one := num.One[T]()
	for _, s := range simplices {
		for _, k := range s.Key {
			if k < 0 || k >= len(gens) {
				return nil, fmt.Errorf("%w: generator index %d out of range", ErrBadSimplex, k)
			}
			if ck.Dot(grading, gens[k]).Cmp(one) != 0 {
				return nil, fmt.Errorf("%w: generator %d", ErrNotDegreeOne, k)
			}
		}
	}
	if err := ck.Err(); err != nil {
		return nil, err
	}

	counts := make([][]int64, len(simplices))
	err = forEachSimplex(ctx, o, simplices, func(ctx context.Context, i int) error {
		s := simplices[i]
		rows, err := simplexRows(gens, s, dim)
		if err != nil {
			return err
		}
		l, err := newLattice(rows)
		if err != nil {
			return fmtSimplexErr(err)
		}
		res, err := l.residues(ctx)
		if err != nil {
			return err
		}
		var ck num.Checked[T]
		h := make([]int64, dim+1)
		for _, t := range res {
			sum := num.Zero[T]()
			for _, x := range t {
				sum = ck.Add(sum, x)
			}
			deg := ck.Quo(sum, l.vol)
			shift := 0
			for j, x := range t {
				if x.IsZero() && s.Excluded.Len() > j && s.Excluded.Test(j) {
					shift++
				}
			}
			k := int(deg.Big().Int64()) + shift
			if k < 0 || k > dim {
				return ErrFatal
			}
			h[k]++
		}
		if err := ck.Err(); err != nil {
			return err
		}
		counts[i] = h

		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*big.Int, dim+1)
	for k := range out {
		out[k] = new(big.Int)
	}
	for _, h := range counts {
		for k, c := range h {
			out[k].Add(out[k], big.NewInt(c))
		}
	}
	last := len(out)
	for last > 0 && out[last-1].Sign() == 0 {
		last--
	}

	return out[:last], nil
}
