// SPDX-License-Identifier: MIT

package descent

import (
	"context"
	"math/big"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/polymake/polymake-sub008/bitset"
	"github.com/polymake/polymake-sub008/num"
)

// Result is the outcome of a descent run.
type Result struct {
	Multiplicity  *big.Rat
	FacesPerLevel []int // distinct faces per codimension, after merging
	Leaves        int   // simplicial faces evaluated
	Finished      int   // faces triangulated at the codimension bound
	CacheHits     int
	OrbitMerges   int  // faces absorbed by an orbit representative
	Automorphisms bool // orbit merging was active
}

// descender carries the read-only cone data shared by the workers.
type descender[T num.Integer[T]] struct {
	o         Options
	dim       int
	bigRays   [][]*big.Int
	grading   []*big.Int
	degs      []*big.Int
	incidence []bitset.Set // per ray: the facets containing it
	nFacets   int
	orbits    *orbitMerger
	cache     *isoCache
}

type weighted struct {
	face  face
	coeff *big.Rat
}

// Multiplicity returns the multiplicity of the cone spanned by rays under
// grading, descending through the faces cut out by facets. rays must be
// the extreme rays and facets the support hyperplanes of the cone.
//
// Implementation:
//   - Stage 1: validate input; set up orbit merging and the cache.
//   - Stage 2: per level, process faces concurrently: simplicial faces
//     yield |det|/∏deg, faces at the codimension bound are triangulated,
//     other faces pick an apex and pass weighted facets to the next level.
//   - Stage 3: merge next-level faces by facet set (and orbit), summing
//     their coefficients, in a deterministic order.
//
// Errors:
//   - ErrBadInput, ErrBadGrading, ErrOptionViolation, num.ErrOverflow.
//   - hull.ErrInterrupted when ctx is cancelled.
func Multiplicity[T num.Integer[T]](ctx context.Context, rays, facets [][]T, grading []T, opts ...Option) (*Result, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	d, err := newDescender(o, rays, facets, grading)
	if err != nil {
		return nil, err
	}
	res := &Result{Multiplicity: new(big.Rat), Automorphisms: d.orbits != nil}

	all := make([]int, len(rays))
	for i := range all {
		all[i] = i
	}
	level := []weighted{{face: d.faceOf(all), coeff: big.NewRat(1, 1)}}
	for depth := 0; len(level) > 0; depth++ {
		res.FacesPerLevel = append(res.FacesPerLevel, len(level))
		outs := make([]outcome, len(level))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.Threads)
		for i := range level {
			i := i
			g.Go(func() error {
				out, err := d.process(gctx, level[i].face, depth)
				outs[i] = out

				return err
			})
		}
		if err := g.Wait(); err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return nil, interrupted(cerr)
			}

			return nil, err
		}

		next := make(map[string]*weighted)
		for i, out := range outs {
			c := level[i].coeff
			switch out.kind {
			case kindLeaf:
				res.Leaves++
			case kindFinished:
				res.Finished++
			case kindCached:
				res.Finished++
				res.CacheHits++
			}
			if out.value != nil {
				res.Multiplicity.Add(res.Multiplicity, new(big.Rat).Mul(c, out.value))
			}
			for _, ch := range out.children {
				f := d.faceOf(ch.rays)
				if d.orbits != nil {
					f = d.orbits.canonical(f)
					if !sameRays(f.rays, ch.rays) {
						res.OrbitMerges++
					}
				}
				w := new(big.Rat).Mul(c, ch.factor)
				k := f.key.Key()
				if e, ok := next[k]; ok {
					e.coeff.Add(e.coeff, w)

					continue
				}
				next[k] = &weighted{face: f, coeff: w}
			}
		}
		level = sortedLevel(next)
		o.Logger.Debug("descent level done",
			zap.Int("codim", depth),
			zap.Int("faces", res.FacesPerLevel[depth]),
			zap.Int("next", len(level)))
	}
	o.Logger.Info("descent done",
		zap.String("multiplicity", res.Multiplicity.RatString()),
		zap.Ints("faces_per_level", res.FacesPerLevel),
		zap.Int("leaves", res.Leaves),
		zap.Int("finished", res.Finished),
		zap.Int("cache_hits", res.CacheHits))

	return res, nil
}

func sameRays(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func sortedLevel(m map[string]*weighted) []weighted {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]weighted, len(keys))
	for i, k := range keys {
		out[i] = *m[k]
	}

	return out
}

func newDescender[T num.Integer[T]](o Options, rays, facets [][]T, grading []T) (*descender[T], error) {
	if len(rays) == 0 {
		return nil, badInput("no rays")
	}
	dim := len(rays[0])
	if len(grading) != dim {
		return nil, badInput("grading has %d entries, want %d", len(grading), dim)
	}
	d := &descender[T]{
		o:       o,
		dim:     dim,
		bigRays: num.BigMatrix(rays),
		grading: num.BigVector(grading),
		nFacets: len(facets),
	}
	for i, r := range rays {
		if len(r) != dim {
			return nil, badInput("ray %d has %d entries, want %d", i, len(r), dim)
		}
		if num.IsZeroVector(r) {
			return nil, badInput("ray %d is zero", i)
		}
		deg := degree(d.grading, d.bigRays[i])
		if deg.Sign() <= 0 {
			return nil, ErrBadGrading
		}
		d.degs = append(d.degs, deg)
		d.incidence = append(d.incidence, bitset.New(len(facets)))
	}
	for j, f := range facets {
		if len(f) != dim {
			return nil, badInput("facet %d has %d entries, want %d", j, len(f), dim)
		}
		bf := num.BigVector(f)
		for i := range rays {
			switch degree(bf, d.bigRays[i]).Sign() {
			case -1:
				return nil, badInput("facet %d is negative on ray %d", j, i)
			case 0:
				d.incidence[i].Set(j)
			}
		}
	}
	if o.Group != nil {
		m, reason, err := newOrbitMerger(o.Group, d.bigRays, d.grading, len(facets), o.OrbitBound)
		if err != nil {
			return nil, err
		}
		if m == nil {
			o.Logger.Info("automorphisms not used", zap.String("reason", reason))
		}
		d.orbits = m
	}
	if o.IsomorphismCache {
		d.cache = newIsoCache()
	}

	return d, nil
}
