// SPDX-License-Identifier: MIT

package signeddec

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/num"
)

// Result reports the multiplicity and the work done.
type Result struct {
	Multiplicity *big.Rat

	// DualSimplices is the size of the triangulation of the dual cone.
	DualSimplices int
	// Subfacets is the size of the hollow triangulation.
	Subfacets int
	Blocks    int
	// Attempts counts generic vectors tried, including the successful one.
	Attempts          int
	FullSolves        int
	IncrementalSolves int
}

// Multiplicity computes the multiplicity of the pointed full-dimensional
// cone {x : λ·x ≥ 0 for all λ in supphyps} with respect to grading.
//
// Implementation:
//   - Stage 1: triangulate the dual cone spanned by supphyps and read off
//     its facets, which are the extreme rays of the cone.
//   - Stage 2: count subfacets per hash block and keep those lying in one
//     simplex.
//   - Stage 3: draw ω = γ + Σ c_i λ_i and sum the signed terms; a vanishing
//     γ(n_k) restarts the stage with new coefficients.
//
// Errors:
//   - ErrBadInput for empty, ragged or lower-rank input (a cone with lines).
//   - ErrBadGrading if the grading is not positive on every extreme ray.
//   - ErrNotGeneric when every attempt hits a degenerate ω.
//   - num.ErrOverflow when T cannot hold the dual hull.
//   - hull.ErrInterrupted (wrapping ctx.Err()) on cancellation.
func Multiplicity[T num.Integer[T]](ctx context.Context, supphyps [][]T, grading []T, opts ...Option) (*Result, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	if len(supphyps) == 0 {
		return nil, fmt.Errorf("%w: no support hyperplanes", ErrBadInput)
	}
	dim := len(supphyps[0])
	if dim == 0 || len(grading) != dim {
		return nil, fmt.Errorf("%w: grading has length %d, want %d", ErrBadInput, len(grading), dim)
	}

	res, err := hull.Build(ctx, supphyps, hull.WithThreads(o.Threads), hull.WithKeepTriangulation(true), hull.WithLogger(o.Logger))
	if err != nil {
		switch {
		case errors.Is(err, hull.ErrInterrupted), errors.Is(err, num.ErrOverflow):
			return nil, err
		case errors.Is(err, hull.ErrNotFullDim), errors.Is(err, hull.ErrRaggedInput), errors.Is(err, hull.ErrZeroGenerator):
			return nil, fmt.Errorf("%w: %w", ErrBadInput, err)
		}

		return nil, err
	}
	if !res.Pointed {
		return nil, fmt.Errorf("%w: cone is not pointed", ErrBadInput)
	}
	for _, ray := range res.Hyperplanes() {
		deg, ok := num.Dot(ray, grading)
		if !ok {
			return nil, num.ErrOverflow
		}
		if deg.Sign() <= 0 {
			return nil, fmt.Errorf("%w: degree of %v is not positive", ErrBadGrading, ray)
		}
	}

	forms := toRat(supphyps)
	gamma := toRat([][]T{grading})[0]
	simplices := make([][]int, len(res.Triangulation))
	for i, s := range res.Triangulation {
		simplices[i] = s.Key
	}
	nb := blockCount(len(simplices), dim, o.BlockSize)
	out := &Result{DualSimplices: len(simplices), Blocks: nb}
	o.Logger.Debug("signed decomposition",
		zap.Int("dual_simplices", len(simplices)),
		zap.Int("blocks", nb))

	for attempt := 0; attempt < o.Attempts; attempt++ {
		out.Attempts++
		omega := genericVector(gamma, forms, attempt)
		sum, st, err := evaluate(ctx, &o, simplices, nb, forms, omega, gamma)
		out.FullSolves += st.full
		out.IncrementalSolves += st.update
		if errors.Is(err, errDegenerate) {
			o.Logger.Debug("generic vector rejected", zap.Int("attempt", attempt))

			continue
		}
		if err != nil {
			return nil, err
		}
		out.Multiplicity = sum
		out.Subfacets = st.subfacets

		return out, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrNotGeneric, o.Attempts)
}

func toRat[T num.Integer[T]](rows [][]T) [][]*big.Rat {
	out := make([][]*big.Rat, len(rows))
	for i, r := range rows {
		out[i] = make([]*big.Rat, len(r))
		for j, x := range r {
			out[i][j] = new(big.Rat).SetInt(x.Big())
		}
	}

	return out
}

// genericVector returns γ + Σ c_i λ_i with small positive pseudo-random
// coefficients determined by attempt.
func genericVector(gamma []*big.Rat, forms [][]*big.Rat, attempt int) []*big.Rat {
	omega := make([]*big.Rat, len(gamma))
	for j, g := range gamma {
		omega[j] = new(big.Rat).Set(g)
	}
	var buf [16]byte
	c := new(big.Rat)
	t := new(big.Rat)
	for i, f := range forms {
		binary.LittleEndian.PutUint64(buf[:8], uint64(attempt))
		binary.LittleEndian.PutUint64(buf[8:], uint64(i))
		c.SetInt64(int64(1 + xxhash.Sum64(buf[:])%997))
		for j := range omega {
			omega[j].Add(omega[j], t.Mul(c, f[j]))
		}
	}

	return omega
}

type evalStats struct {
	full, update, subfacets int
}

// evaluate sums the signed terms over all blocks, in block order.
func evaluate(ctx context.Context, o *Options, simplices [][]int, nb int, forms [][]*big.Rat, omega, gamma []*big.Rat) (*big.Rat, evalStats, error) {
	sums := make([]*big.Rat, nb)
	stats := make([]evalStats, nb)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Threads)
	for b := 0; b < nb; b++ {
		b := b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum, st, err := evalBlock(gctx, hollowBlock(simplices, b, nb), forms, omega, gamma)
			if err != nil {
				return err
			}
			sums[b], stats[b] = sum, st

			return nil
		})
	}
	err := g.Wait()

	var total evalStats
	for _, st := range stats {
		total.full += st.full
		total.update += st.update
		total.subfacets += st.subfacets
	}
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, total, interrupted(cerr)
		}

		return nil, total, err
	}
	acc := new(big.Rat)
	for _, s := range sums {
		acc.Add(acc, s)
	}

	return acc, total, nil
}

func evalBlock(ctx context.Context, subs [][]int, forms [][]*big.Rat, omega, gamma []*big.Rat) (*big.Rat, evalStats, error) {
	s := newSolver(forms, omega)

	acc := new(big.Rat)
	st := evalStats{subfacets: len(subs)}
	fresh := true
	for i, sub := range subs {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, st, err
			}
		}
		ok := false
		if !fresh {
			if dropped, added, one := replacement(s.cur, sub); one {
				ok = s.replace(dropped, added)
			}
		}
		if !ok {
			// A singular M means ω lies in the span of the subfacet.
			if !s.first(sub) {
				st.full, st.update = s.full, s.update

				return nil, st, errDegenerate
			}
		}
		fresh = false
		term, err := s.term(gamma)
		if err != nil {
			st.full, st.update = s.full, s.update

			return nil, st, err
		}
		acc.Add(acc, term)
	}
	st.full, st.update = s.full, s.update

	return acc, st, nil
}
