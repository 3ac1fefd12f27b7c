// SPDX-License-Identifier: MIT

package hull

import (
	"context"
	"math/big"
	"sort"

	"go.uber.org/zap"

	"github.com/polymake/polymake-sub008/bitset"
	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// Build computes the support hyperplanes of cone(gens) and, on request, a
// triangulation with volumes, multiplicity and excluded-facet masks.
//
// Implementation:
//   - Stage 1: validate the rows and pick a start simplex (dim independent
//     generators, first in input order or, with bottom decomposition, by degree).
//   - Stage 2: insert the remaining generators in the configured order; each
//     insertion is a Fourier–Motzkin step, possibly through pyramids.
//   - Stage 3: flush the evaluation buffer, sort the facets and extract the
//     extreme rays when the cone is pointed.
//
// Errors:
//   - ErrOptionViolation, ErrRaggedInput, ErrZeroGenerator, ErrNotFullDim,
//     ErrBadGrading.
//   - num.ErrOverflow when T is too narrow.
//   - ErrInterrupted (wrapping ctx.Err()) on cancellation.
func Build[T num.Integer[T]](ctx context.Context, gens [][]T, opts ...Option) (*Result[T], error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := validateGenerators(gens); err != nil {
		return nil, hullErrorf("Build", err)
	}
	e, err := newTopEngine(ctx, gens, &o, 1)
	if err != nil {
		return nil, hullErrorf("Build", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, interrupted(err)
	}
	if err := e.start(); err != nil {
		return nil, hullErrorf("Build", err)
	}
	if err := e.run(e.insertionOrder()); err != nil {
		return nil, err
	}

	return e.finish()
}

// finish assembles the Result.
func (e *engine[T]) finish() (*Result[T], error) {
	sort.SliceStable(e.facets, func(a, b int) bool {
		return num.CompareVectors(e.facets[a].Hyp, e.facets[b].Hyp) < 0
	})
	rays, pointed, err := e.extremeRays()
	if err != nil {
		return nil, err
	}
	res := &Result[T]{
		Dim:         e.dim,
		Facets:      make([]Facet[T], len(e.facets)),
		Pointed:     pointed,
		ExtremeRays: rays,
		Stats:       e.stats,
		state:       e.capture(),
	}
	for i, f := range e.facets {
		res.Facets[i] = *f.clone()
	}
	if e.tri != nil {
		res.TriangulationSize = len(e.tri.cells)
		if e.o.KeepTriangulation {
			res.Triangulation = e.tri.simplices()
		}
		if e.o.Volumes || e.degs != nil {
			res.Volume = new(big.Int).Set(e.tri.volume)
		}
		if e.degs != nil {
			res.Multiplicity = new(big.Rat).Set(e.tri.mult)
		}
	}
	e.log.Info("hull done",
		zap.Int("facets", len(res.Facets)),
		zap.Int("extreme_rays", len(rays)),
		zap.Int("simplices", res.TriangulationSize),
		zap.Int("comparisons", e.stats.Comparisons))

	return res, nil
}

// extremeRays returns one generator per extreme ray: g is extreme iff the
// facets through it have rank dim−1. Generators on the same ray have the
// same facet set and only the first is kept.
func (e *engine[T]) extremeRays() ([]int, bool, error) {
	hyps := make([][]T, len(e.facets))
	for i, f := range e.facets {
		hyps[i] = f.Hyp
	}
	r, err := matrix.RankOf(e.dim, hyps)
	if err != nil {
		return nil, false, err
	}
	if r < e.dim {
		return nil, false, nil
	}
	seen := make(map[string]struct{})
	var out []int
	for _, g := range e.inserted.Indices() {
		on := bitset.New(len(e.facets))
		var rows [][]T
		for k, f := range e.facets {
			if f.GenInHyp.Test(g) {
				on.Set(k)
				rows = append(rows, f.Hyp)
			}
		}
		rk, err := matrix.RankOf(e.dim, rows)
		if err != nil {
			return nil, false, err
		}
		if rk != e.dim-1 {
			continue
		}
		if _, dup := seen[on.Key()]; dup {
			continue
		}
		seen[on.Key()] = struct{}{}
		out = append(out, g)
	}

	return out, true, nil
}

// Hyperplanes returns the facet forms of r.
func (r *Result[T]) Hyperplanes() [][]T {
	out := make([][]T, len(r.Facets))
	for i, f := range r.Facets {
		out[i] = append([]T(nil), f.Hyp...)
	}

	return out
}
