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

// engine runs Fourier–Motzkin insertion over gens. Pyramids run a child
// engine whose rows alias the parent's rows; nothing is copied.
type engine[T num.Integer[T]] struct {
	ctx      context.Context
	gens     [][]T
	dim      int
	level    int
	o        *Options
	log      *zap.Logger
	facets   []*Facet[T]
	inserted bitset.Set
	ids      *idAllocator
	workers  []*task
	tri      *triangulation[T]
	degs     []*big.Int
	cmps     []int
	stats    Stats
}

// task is the per-worker context of the stored-pyramid pool.
type task struct {
	ids   *idAllocator
	stats Stats
}

// validateGenerators checks shape and rejects zero rows.
func validateGenerators[T num.Integer[T]](gens [][]T) error {
	if len(gens) == 0 || len(gens[0]) == 0 {
		return ErrNotFullDim
	}
	d := len(gens[0])
	for _, g := range gens {
		if len(g) != d {
			return ErrRaggedInput
		}
		if num.IsZeroVector(g) {
			return ErrZeroGenerator
		}
	}

	return nil
}

// newTopEngine prepares the level-0 engine; ids start above idBase.
func newTopEngine[T num.Integer[T]](ctx context.Context, gens [][]T, o *Options, idBase uint64) (*engine[T], error) {
	e := &engine[T]{
		ctx:      ctx,
		gens:     gens,
		dim:      len(gens[0]),
		o:        o,
		log:      o.Logger,
		inserted: bitset.New(len(gens)),
		cmps:     make([]int, len(gens)),
	}
	classes := 1
	if o.Threads > 1 {
		classes += o.Threads
	}
	e.ids = newIDAllocator(idBase, 0, classes)
	if o.Threads > 1 {
		e.workers = make([]*task, o.Threads)
		for w := range e.workers {
			e.workers[w] = &task{ids: newIDAllocator(idBase, w+1, classes)}
		}
	}
	if o.Grading != nil {
		if len(o.Grading) != e.dim {
			return nil, ErrBadGrading
		}
		e.degs = make([]*big.Int, len(gens))
		for i, g := range gens {
			d := new(big.Int)
			for j, x := range g {
				d.Add(d, new(big.Int).Mul(x.Big(), o.Grading[j]))
			}
			if d.Sign() <= 0 {
				return nil, ErrBadGrading
			}
			e.degs[i] = d
		}
	}
	if o.triangulating() {
		t, err := newTriangulation(gens, o, e.degs)
		if err != nil {
			return nil, err
		}
		e.tri = t
	}

	return e, nil
}

// child returns an engine for a pyramid over rows.
func (e *engine[T]) child(ctx context.Context, rows [][]T) *engine[T] {
	so := *e.o
	so.Threads = 1
	so.KeepTriangulation, so.Volumes = false, false
	so.Grading, so.OrderVector = nil, nil
	so.Metrics = nil

	return &engine[T]{
		ctx:      ctx,
		gens:     rows,
		dim:      e.dim,
		level:    e.level + 1,
		o:        &so,
		log:      e.log,
		inserted: bitset.New(len(rows)),
		ids:      newIDAllocator(1, 0, 1),
		cmps:     make([]int, len(rows)),
	}
}

// degree is the grading value, or the 1-norm without a grading.
func (e *engine[T]) degree(i int) *big.Int {
	if e.degs != nil {
		return e.degs[i]
	}
	d := new(big.Int)
	for _, x := range e.gens[i] {
		d.Add(d, new(big.Int).Abs(x.Big()))
	}

	return d
}

func (e *engine[T]) byDegree() []int {
	idx := make([]int, len(e.gens))
	deg := make([]*big.Int, len(e.gens))
	for i := range idx {
		idx[i] = i
		deg[i] = e.degree(i)
	}
	sort.SliceStable(idx, func(a, b int) bool { return deg[idx[a]].Cmp(deg[idx[b]]) < 0 })

	return idx
}

// insertionOrder lists all generators in the configured order.
func (e *engine[T]) insertionOrder() []int {
	if e.o.Order == OrderByDegree {
		return e.byDegree()
	}
	idx := make([]int, len(e.gens))
	for i := range idx {
		idx[i] = i
	}

	return idx
}

// start installs a start simplex: dim independent generators and the
// support forms of their simplicial cone.
func (e *engine[T]) start() error {
	m, err := matrix.FromRows(e.dim, e.gens)
	if err != nil {
		return err
	}
	var order []int
	if e.o.BottomDecomposition {
		order = e.byDegree()
	}
	idx, err := matrix.MaxRankRows(m, order)
	if err != nil {
		return err
	}
	if len(idx) < e.dim {
		return ErrNotFullDim
	}
	sort.Ints(idx)
	rows := make([][]T, e.dim)
	for k, i := range idx {
		rows[k] = e.gens[i]
	}
	sm, err := matrix.FromRows(e.dim, rows)
	if err != nil {
		return err
	}
	forms, _, err := matrix.SimplexData(sm)
	if err != nil {
		return err
	}
	e.facets = e.facets[:0]
	for k, form := range forms {
		on := bitset.FromIndices(len(e.gens), idx...)
		on.Clear(idx[k])
		e.facets = append(e.facets, &Facet[T]{
			Hyp:        form,
			GenInHyp:   on,
			ValNewGen:  num.Zero[T](),
			BornAt:     -1,
			Ident:      e.ids.take(),
			Simplicial: true,
		})
	}
	for _, i := range idx {
		e.inserted.Set(i)
	}
	e.stats.FacetsCreated += len(forms)
	if e.tri != nil {
		e.tri.add(idx, num.Zero[T]())
	}
	if e.level == 0 {
		e.o.Metrics.addFacets(len(forms))
		e.log.Info("start simplex", zap.Ints("key", idx), zap.Int("dim", e.dim))
	}

	return nil
}

// run inserts the generators of order that are not yet inserted.
func (e *engine[T]) run(order []int) error {
	for _, g := range order {
		if e.inserted.Test(g) {
			continue
		}
		if err := e.ctx.Err(); err != nil {
			return interrupted(err)
		}
		if err := e.insert(g); err != nil {
			return err
		}
	}
	if e.tri != nil {
		return e.tri.flush(e.ctx, e.o, &e.stats)
	}

	return nil
}

// insert performs one Fourier–Motzkin step for generator g.
func (e *engine[T]) insert(g int) error {
	var ck num.Checked[T]
	var pos, neg []*Facet[T]
	for _, f := range e.facets {
		f.ValNewGen = ck.Dot(f.Hyp, e.gens[g])
		switch f.ValNewGen.Sign() {
		case 1:
			pos = append(pos, f)
		case -1:
			neg = append(neg, f)
		}
	}
	if err := ck.Err(); err != nil {
		return err
	}
	if len(neg) == 0 {
		e.markNeutral(g)
		e.inserted.Set(g)

		return nil
	}

	shape := StepShape{Level: e.level, Dim: e.dim, Positive: len(pos), Negative: len(neg), Generators: len(e.gens)}
	var fresh []*Facet[T]
	var err error
	if e.o.Pyramids.Recursive(shape) {
		fresh, err = e.pyramidStep(g, neg)
	} else {
		fresh, err = e.pairStep(g, pos, neg)
	}
	if err != nil {
		return err
	}
	if e.tri != nil {
		if err := e.tri.extend(g, neg); err != nil {
			return err
		}
		if err := e.tri.maybeFlush(e.ctx, e.o, &e.stats); err != nil {
			return err
		}
	}

	e.markNeutral(g)
	kept := e.facets[:0]
	for _, f := range e.facets {
		if f.ValNewGen.Sign() >= 0 {
			kept = append(kept, f)
		}
	}
	e.facets = append(kept, fresh...)
	e.inserted.Set(g)
	e.stats.FacetsCreated += len(fresh)
	if e.level == 0 {
		e.o.Metrics.addFacets(len(fresh))
		e.log.Debug("generator inserted",
			zap.Int("generator", g),
			zap.Int("positive", len(pos)),
			zap.Int("negative", len(neg)),
			zap.Int("new", len(fresh)),
			zap.Int("facets", len(e.facets)))
	}

	return nil
}

// markNeutral adds g to every facet vanishing on it.
func (e *engine[T]) markNeutral(g int) {
	for _, f := range e.facets {
		if f.ValNewGen.IsZero() {
			f.GenInHyp.Set(g)
			f.Simplicial = false
		}
	}
}

// pairStep combines every adjacent (positive, negative) pair.
func (e *engine[T]) pairStep(g int, pos, neg []*Facet[T]) ([]*Facet[T], error) {
	var ck num.Checked[T]
	need := e.dim - 2
	rankTest := e.o.RankTest || len(e.facets) >= e.o.RankTestThreshold
	var fresh []*Facet[T]
	n := 0
	for _, nf := range neg {
		for _, pf := range pos {
			n++
			if n&1023 == 0 {
				if err := e.ctx.Err(); err != nil {
					return nil, interrupted(err)
				}
			}
			if bitset.AndCount(pf.GenInHyp, nf.GenInHyp) < need {
				continue
			}
			common := bitset.And(pf.GenInHyp, nf.GenInHyp)
			ok, err := e.adjacent(pf, nf, common, rankTest)
			if err != nil {
				return nil, err
			}
			if ok {
				fresh = append(fresh, e.combine(&ck, pf, nf, common, g))
			}
		}
	}
	e.stats.Comparisons += n
	e.cmps[g] += n
	if err := ck.Err(); err != nil {
		return nil, err
	}

	return fresh, nil
}

// adjacent decides whether p ∩ n is a ridge of the current cone.
func (e *engine[T]) adjacent(p, n *Facet[T], common bitset.Set, rankTest bool) (bool, error) {
	if p.Simplicial || n.Simplicial {
		return true, nil
	}
	if p.Mother == n.Ident || n.Mother == p.Ident {
		return true, nil
	}
	if rankTest {
		idx := common.Indices()
		rows := make([][]T, len(idx))
		for k, i := range idx {
			rows[k] = e.gens[i]
		}
		r, err := matrix.RankOf(e.dim, rows)
		if err != nil {
			return false, err
		}

		return r == e.dim-2, nil
	}
	for _, f := range e.facets {
		if f == p || f == n {
			continue
		}
		if common.IsSubsetOf(f.GenInHyp) {
			return false, nil
		}
	}

	return true, nil
}

// combine returns the primitive facet P.val·N.hyp − N.val·P.hyp through g.
// common is consumed.
func (e *engine[T]) combine(ck *num.Checked[T], p, n *Facet[T], common bitset.Set, g int) *Facet[T] {
	hyp := make([]T, e.dim)
	for j := range hyp {
		hyp[j] = ck.MulSub(p.ValNewGen, n.Hyp[j], n.ValNewGen, p.Hyp[j])
	}
	ck.MakePrimitive(hyp)
	simplicial := common.Count() == e.dim-2
	common.Set(g)

	return &Facet[T]{
		Hyp:        hyp,
		GenInHyp:   common,
		ValNewGen:  num.Zero[T](),
		BornAt:     g,
		Ident:      e.ids.take(),
		Mother:     p.Ident,
		Simplicial: simplicial,
	}
}
