// SPDX-License-Identifier: MIT

package hilbert

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// simplexRows returns the generator rows of s, checking the key.
func simplexRows[T num.Integer[T]](gens [][]T, s hull.Simplex[T], dim int) ([][]T, error) {
	if len(s.Key) != dim {
		return nil, fmt.Errorf("%w: key %v has %d entries, want %d", ErrBadSimplex, s.Key, len(s.Key), dim)
	}
	rows := make([][]T, dim)
	for i, k := range s.Key {
		if k < 0 || k >= len(gens) {
			return nil, fmt.Errorf("%w: generator index %d out of range", ErrBadSimplex, k)
		}
		rows[i] = gens[k]
	}

	return rows, nil
}

// forEachSimplex runs fn for every simplex on an errgroup limited to
// o.Threads workers.
func forEachSimplex[T num.Integer[T]](ctx context.Context, o Options, simplices []hull.Simplex[T],
	fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Threads)
	for i := range simplices {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error { return fn(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return interrupted(err)
	}

	return nil
}

// HilbertBasis returns the minimal generating set of the monoid C ∩ Z^d of
// the pointed cone C with support hyperplanes hyps, given a triangulation of
// C into simplices over gens.
//
// Implementation:
//   - Stage 1: collect the nonzero points of every simplex parallelepiped
//     together with gens; every irreducible element is among them.
//   - Stage 2: sort the candidates by total degree Σ_f f·x, which is
//     positive on C \ {0} and additive.
//   - Stage 3: keep x unless x − y ∈ C for an element y kept earlier.
//
// The result is sorted by total degree, then lexicographically.
//
// Errors:
//   - ErrNotPointed, ErrBadSimplex, num.ErrOverflow, hull.ErrInterrupted.
func HilbertBasis[T num.Integer[T]](ctx context.Context, gens, hyps [][]T, simplices []hull.Simplex[T],
	opts ...Option) ([][]T, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	if len(gens) == 0 {
		return nil, nil
	}
	dim := len(gens[0])
	r, err := matrix.RankOf(dim, hyps)
	if err != nil {
		return nil, err
	}
	if r < dim {
		return nil, ErrNotPointed
	}

	perSimplex := make([][][]T, len(simplices))
	err = forEachSimplex(ctx, o, simplices, func(ctx context.Context, i int) error {
		rows, err := simplexRows(gens, simplices[i], dim)
		if err != nil {
			return err
		}
		pts, err := FundamentalPoints(ctx, rows)
		if err != nil {
			return err
		}
		perSimplex[i] = pts[1:]

		return nil
	})
	if err != nil {
		return nil, err
	}

	type cand struct {
		x   []T
		deg T
	}
	var ck num.Checked[T]
	seen := make(map[string]struct{})
	var cands []cand
	push := func(x []T) {
		if num.IsZeroVector(x) {
			return
		}
		k := residueKey(x)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		deg := num.Zero[T]()
		for _, h := range hyps {
			deg = ck.Add(deg, ck.Dot(h, x))
		}
		cands = append(cands, cand{x: x, deg: deg})
	}
	for _, g := range gens {
		push(g)
	}
	for _, pts := range perSimplex {
		for _, x := range pts {
			push(x)
		}
	}
	if err := ck.Err(); err != nil {
		return nil, err
	}
	sort.Slice(cands, func(i, j int) bool {
		if c := cands[i].deg.Cmp(cands[j].deg); c != 0 {
			return c < 0
		}

		return num.CompareVectors(cands[i].x, cands[j].x) < 0
	})

	var basis [][]T
	diff := make([]T, dim)
	for n, c := range cands {
		if n&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, interrupted(err)
			}
		}
		reducible := false
		for _, y := range basis {
			for i := range diff {
				diff[i] = ck.Sub(c.x[i], y[i])
			}
			if inCone(&ck, hyps, diff) {
				reducible = true

				break
			}
		}
		if !reducible {
			basis = append(basis, c.x)
		}
	}
	if err := ck.Err(); err != nil {
		return nil, err
	}
	o.Logger.Debug("hilbert basis reduced",
		zap.Int("candidates", len(cands)),
		zap.Int("basis", len(basis)))

	return basis, nil
}

func inCone[T num.Integer[T]](ck *num.Checked[T], hyps [][]T, x []T) bool {
	for _, h := range hyps {
		if ck.Dot(h, x).Sign() < 0 {
			return false
		}
	}

	return true
}

// Deg1Elements returns the elements of basis of degree 1 under grading that
// do not lie on any of the excluded faces. A face is given by a linear form
// vanishing on it; the order of basis is preserved.
func Deg1Elements[T num.Integer[T]](basis [][]T, grading []T, excluded [][]T) ([][]T, error) {
	var ck num.Checked[T]
	one := num.One[T]()
	var out [][]T
	for _, x := range basis {
		if ck.Dot(grading, x).Cmp(one) != 0 {
			continue
		}
		onFace := false
		for _, f := range excluded {
			if ck.Dot(f, x).IsZero() {
				onFace = true

				break
			}
		}
		if !onFace {
			out = append(out, x)
		}
	}
	if err := ck.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
