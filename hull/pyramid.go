// SPDX-License-Identifier: MIT

package hull

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/polymake/polymake-sub008/bitset"
	"github.com/polymake/polymake-sub008/num"
)

// pyramidJob is cone(N, g) given by its key: the apex g first, then the
// inserted generators of the negative facet N.
type pyramidJob[T num.Integer[T]] struct {
	key []int
	out []*Facet[T]
}

// pyramidStep computes the facets through g from one pyramid per negative
// facet. Stored pyramids go to the worker pool; the rest run inline.
func (e *engine[T]) pyramidStep(g int, neg []*Facet[T]) ([]*Facet[T], error) {
	jobs := make([]pyramidJob[T], len(neg))
	var stored []int
	for k, nf := range neg {
		key := append([]int{g}, nf.GenInHyp.Indices()...)
		jobs[k].key = key
		if e.level == 0 && len(e.workers) > 0 && e.o.Pyramids.Store(len(key), e.dim) {
			stored = append(stored, k)

			continue
		}
		out, st, err := e.pyramid(e.ctx, key, e.ids)
		if err != nil {
			return nil, err
		}
		jobs[k].out = out
		e.stats.merge(st)
		e.stats.RecursivePyramids++
		if e.level == 0 {
			e.o.Metrics.addPyramid(PyramidRecursive)
		}
	}
	if len(stored) > 0 {
		if err := e.runStored(jobs, stored); err != nil {
			return nil, err
		}
	}
	var fresh []*Facet[T]
	for _, j := range jobs {
		fresh = append(fresh, j.out...)
	}

	return fresh, nil
}

// runStored evaluates the stored pyramids on the worker pool. Each worker
// owns a task (id allocator and counters); results are merged after Wait.
func (e *engine[T]) runStored(jobs []pyramidJob[T], stored []int) error {
	e.log.Info("pyramid round", zap.Int("stored", len(stored)), zap.Int("workers", len(e.workers)))
	grp, ctx := errgroup.WithContext(e.ctx)
	grp.SetLimit(len(e.workers))
	var next atomic.Int64
	for _, t := range e.workers {
		t := t
		grp.Go(func() error {
			for {
				k := int(next.Add(1) - 1)
				if k >= len(stored) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return interrupted(err)
				}
				j := stored[k]
				out, st, err := e.pyramid(ctx, jobs[j].key, t.ids)
				if err != nil {
					return err
				}
				jobs[j].out = out
				t.stats.merge(st)
				t.stats.StoredPyramids++
				e.o.Metrics.addPyramid(PyramidStored)
			}
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}
	for _, t := range e.workers {
		e.stats.merge(t.stats)
		t.stats = Stats{}
	}

	return nil
}

// pyramid computes the support hyperplanes of cone(key) with a child engine
// and keeps those through the apex that are strictly positive on every
// inserted generator outside the pyramid. These are exactly the facets of the
// enlarged cone that contain the apex and meet the negative facet in a ridge.
func (e *engine[T]) pyramid(ctx context.Context, key []int, ids *idAllocator) ([]*Facet[T], Stats, error) {
	rows := make([][]T, len(key))
	for i, k := range key {
		rows[i] = e.gens[k]
	}
	sub := e.child(ctx, rows)
	if err := sub.start(); err != nil {
		return nil, Stats{}, err
	}
	if err := sub.run(sub.insertionOrder()); err != nil {
		return nil, Stats{}, err
	}

	outside := bitset.AndNot(e.inserted, bitset.FromIndices(len(e.gens), key...)).Indices()
	var ck num.Checked[T]
	var out []*Facet[T]
	for _, f := range sub.facets {
		if !f.GenInHyp.Test(0) {
			continue
		}
		valid := true
		for _, i := range outside {
			if ck.Dot(f.Hyp, e.gens[i]).Sign() <= 0 {
				valid = false

				break
			}
		}
		if err := ck.Err(); err != nil {
			return nil, Stats{}, err
		}
		if !valid {
			continue
		}
		on := bitset.New(len(e.gens))
		for _, li := range f.GenInHyp.Indices() {
			on.Set(key[li])
		}
		out = append(out, &Facet[T]{
			Hyp:        f.Hyp,
			GenInHyp:   on,
			ValNewGen:  num.Zero[T](),
			BornAt:     key[0],
			Ident:      ids.take(),
			Simplicial: on.Count() == e.dim-1,
		})
	}
	st := sub.stats
	st.FacetsCreated = 0

	return out, st, nil
}
