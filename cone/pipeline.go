// SPDX-License-Identifier: MIT

package cone

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/polymake/polymake-sub008/automorph"
	"github.com/polymake/polymake-sub008/descent"
	"github.com/polymake/polymake-sub008/hilbert"
	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
	"github.com/polymake/polymake-sub008/signeddec"
)

// runner computes one request at width T. Everything it produces goes to
// out, which the caller merges only when run returns without error.
type runner[T num.Integer[T]] struct {
	ctx   context.Context
	pre   *prepared
	frame *frame
	o     Options
	req   propertySet
	log   *zap.Logger
	snaps [2]*hull.Snapshot
	out   *results

	// span is the lattice of the linear span of the cone; eff is span
	// followed by the quotient by the maximal subspace, where the cone is
	// pointed and full dimensional.
	span, eff *matrix.Sublattice
	lineality [][]*big.Int // ambient

	gens [][]T // triangulation generators, eff coordinates
	rays [][]T
	hyps [][]T

	// fromInput is set while gens are the input generators in input order
	// and eff is the input lattice, so snapshots can be reused.
	fromInput bool
	known     *hull.Result[T]
	base      *hull.Result[T]

	grading    []T
	gradingErr error
}

func toT[T num.Integer[T]](rows [][]*big.Int) ([][]T, error) {
	out, ok := num.FromBigMatrix[T](rows)
	if !ok {
		return nil, num.ErrOverflow
	}

	return out, nil
}

// fatal reports whether err aborts the whole run instead of one property.
func fatal(err error) bool {
	return errors.Is(err, num.ErrOverflow) || errors.Is(err, hull.ErrInterrupted) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func execute[T num.Integer[T]](ctx context.Context, c *Cone, req propertySet, o Options, log *zap.Logger) (*results, error) {
	if err := ctx.Err(); err != nil {
		return nil, interrupted(err)
	}
	r := &runner[T]{
		ctx:   ctx,
		pre:   c.pre,
		frame: c.frame,
		o:     o,
		req:   req,
		log:   log,
		snaps: c.snaps,
		out:   newResults(),
	}
	if err := r.shape(); err != nil {
		return nil, err
	}
	r.structure()
	if r.req.any(Multiplicity, Deg1Elements, HVector) {
		r.prepareGrading()
	}
	if err := r.buildBase(); err != nil {
		return nil, err
	}
	if err := r.engines(); err != nil {
		return nil, err
	}
	r.out.snaps = r.snaps

	return r.out, nil
}

func (r *runner[T]) hullOptions(extra ...hull.Option) []hull.Option {
	opts := []hull.Option{
		hull.WithThreads(r.o.Threads),
		hull.WithPyramidPolicy(hull.DefaultPyramidPolicy(r.o.PyramidFactor)),
		hull.WithEvalBufferSize(r.o.EvalBufferSize),
		hull.WithRankTestThreshold(r.o.RankTestThreshold),
		hull.WithBottomDecomposition(r.req.has(BottomDecomposition)),
		hull.WithLogger(r.log),
		hull.WithMetrics(r.o.Metrics),
	}

	return append(opts, extra...)
}

func latticeKey(s *matrix.Sublattice) [][]string {
	b := s.Embedding()
	out := make([][]string, len(b))
	for i, row := range b {
		out[i] = make([]string, len(row))
		for j, x := range row {
			out[i][j] = x.String()
		}
	}

	return out
}

func sameKey(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}

	return true
}

// build runs hull.Build, or hull.Resume from a stored snapshot of the same
// kind when gens extend the generators it was taken from.
func (r *runner[T]) build(gens [][]T, tri bool, opts []hull.Option) (*hull.Result[T], error) {
	slot := 0
	if tri {
		slot = 1
	}
	if r.fromInput {
		snap := r.snaps[slot]
		if snap != nil && snap.Dim == r.eff.Rank() && snap.Generators <= len(gens) && sameKey(snap.Sublattice, latticeKey(r.eff)) {
			res, err := hull.Resume(r.ctx, gens, snap, opts...)
			switch {
			case err == nil:
				r.out.resumed = true
				r.keep(slot, res)
				r.log.Info("resumed from snapshot", zap.String("snapshot", snap.ID), zap.Int("from", snap.Generators))

				return res, nil
			case errors.Is(err, hull.ErrSnapshotMismatch):
				r.log.Info("snapshot rejected", zap.Error(err))
			default:
				return nil, err
			}
		}
	}
	res, err := hull.Build(r.ctx, gens, opts...)
	if err != nil {
		return nil, err
	}
	if r.fromInput {
		r.keep(slot, res)
	}

	return res, nil
}

func (r *runner[T]) keep(slot int, res *hull.Result[T]) {
	snap := res.Snapshot()
	snap.Sublattice = latticeKey(r.eff)
	r.snaps[slot] = snap
}

func pick[T num.Integer[T]](rows [][]T, idx []int) [][]T {
	out := make([][]T, len(idx))
	for k, i := range idx {
		out[k] = rows[i]
	}

	return out
}

// shape finds span, eff, the maximal subspace and the pointed generators.
func (r *runner[T]) shape() error {
	if len(r.pre.gens) > 0 && !r.pre.constrained() {
		return r.shapeFromGenerators()
	}

	return r.shapeFromConstraints()
}

func (r *runner[T]) shapeFromGenerators() error {
	lat := r.frame.lat
	g := make([][]*big.Int, len(r.pre.gens))
	for i, x := range r.pre.gens {
		y, err := lat.ToSublatticeScaled(x)
		if err != nil {
			return err
		}
		g[i] = y
	}
	gT, err := toT[T](g)
	if err != nil {
		return err
	}
	r.span, r.eff = lat, lat
	r.fromInput = true

	if r.req.has(DualMode) {
		// Combinatorial duality: the extreme rays of {λ : λ·g ≥ 0} are the
		// support hyperplanes of cone(gens).
		dual, err := hull.Dual(r.ctx, gT, lat.Rank(), r.hullOptions()...)
		if err != nil {
			return err
		}
		back, err := hull.Dual(r.ctx, dual.Rays, lat.Rank(), r.hullOptions()...)
		if err != nil {
			return err
		}
		if len(back.Lineality) == 0 {
			r.gens, r.hyps, r.rays = gT, dual.Rays, back.Rays
			r.log.Debug("dual mode", zap.Int("hyperplanes", len(r.hyps)), zap.Int("rays", len(r.rays)))

			return nil
		}

		return r.quotient(g, num.BigMatrix(back.Lineality))
	}

	res, err := r.build(gT, false, r.hullOptions())
	if err != nil {
		return err
	}
	if res.Pointed {
		r.gens, r.known = gT, res
		r.hyps = res.Hyperplanes()
		r.rays = pick(gT, res.ExtremeRays)

		return nil
	}
	dual, err := hull.Dual(r.ctx, res.Hyperplanes(), lat.Rank(), r.hullOptions()...)
	if err != nil {
		return err
	}

	return r.quotient(g, num.BigMatrix(dual.Lineality))
}

func (r *runner[T]) shapeFromConstraints() error {
	p, f := r.pre, r.frame
	rk := f.lat.Rank()
	if rk == 0 {
		return r.zeroCone()
	}
	var forms [][]*big.Int
	if len(p.gens) > 0 {
		g0 := make([][]*big.Int, len(p.gens))
		for i, x := range p.gens {
			y, err := f.l0.ToSublattice(x)
			if err != nil {
				return err
			}
			g0[i] = y
		}
		g0T, err := toT[T](g0)
		if err != nil {
			return err
		}
		res, err := hull.Build(r.ctx, g0T, r.hullOptions()...)
		if err != nil {
			return err
		}
		for _, h := range num.BigMatrix(res.Hyperplanes()) {
			fh, err := f.l1.ToSublatticeDual(h)
			if err != nil {
				return err
			}
			forms = append(forms, fh)
		}
	}
	ineqs := p.ineqs
	if p.implicitDehom {
		ineqs = append(append([][]*big.Int(nil), ineqs...), p.dehom)
	}
	for _, a := range ineqs {
		fa, err := f.lat.ToSublatticeDual(a)
		if err != nil {
			return err
		}
		forms = append(forms, fa)
	}
	formsT, err := toT[T](dropZero(forms))
	if err != nil {
		return err
	}

	var rays, lin [][]T
	rank := -1
	if r.req.has(PrimalMode) && len(formsT) > 0 {
		// The support hyperplanes of cone(forms) are the extreme rays of
		// the cone; this needs the cone to be pointed and full dimensional.
		res, err := hull.Build(r.ctx, formsT, r.hullOptions()...)
		switch {
		case err == nil && res.Pointed:
			rays, rank = res.Hyperplanes(), rk
		case err != nil && !errors.Is(err, hull.ErrNotFullDim):
			return err
		default:
			r.log.Debug("primal mode not applicable, using dual mode")
		}
	}
	if rank < 0 {
		dr, err := hull.Dual(r.ctx, formsT, rk, r.hullOptions()...)
		if err != nil {
			return err
		}
		rays, lin, rank = dr.Rays, dr.Lineality, dr.Rank
	}
	if rank == 0 {
		return r.zeroCone()
	}

	raysB, linB := num.BigMatrix(rays), num.BigMatrix(lin)
	r.span = f.lat
	if rank < rk {
		inner, err := matrix.SaturatedSpan(rk, append(append([][]*big.Int(nil), raysB...), linB...))
		if err != nil {
			return err
		}
		if r.span, err = f.lat.Compose(inner); err != nil {
			return err
		}
		for _, m := range [][][]*big.Int{raysB, linB} {
			for i, x := range m {
				if m[i], err = inner.ToSublattice(x); err != nil {
					return err
				}
			}
		}
	}
	r.eff = r.span
	if len(linB) > 0 {
		return r.quotient(raysB, linB)
	}
	raysT, err := toT[T](raysB)
	if err != nil {
		return err
	}
	res, err := hull.Build(r.ctx, raysT, r.hullOptions()...)
	if err != nil {
		return err
	}
	r.gens, r.rays, r.known = raysT, raysT, res
	r.hyps = res.Hyperplanes()

	return nil
}

// zeroCone sets up the cone {0}.
func (r *runner[T]) zeroCone() error {
	z, err := matrix.SaturatedSpan(r.pre.dim, nil)
	if err != nil {
		return err
	}
	r.span, r.eff = z, z
	r.fromInput = false

	return nil
}

// quotient divides span by the lineality space lin (span coordinates) and
// projects gens (span coordinates) into the pointed quotient.
func (r *runner[T]) quotient(gens, lin [][]*big.Int) error {
	r.fromInput = false
	r.lineality = make([][]*big.Int, len(lin))
	for i, l := range lin {
		a, err := r.span.FromSublattice(l)
		if err != nil {
			return err
		}
		r.lineality[i] = a
	}
	if len(lin) == r.span.Rank() {
		z, err := matrix.SaturatedSpan(r.pre.dim, nil)
		if err != nil {
			return err
		}
		r.eff = z

		return nil
	}
	q, err := matrix.QuotientBy(r.span.Rank(), lin)
	if err != nil {
		return err
	}
	if r.eff, err = r.span.Compose(q); err != nil {
		return err
	}
	var qg [][]*big.Int
	for _, x := range gens {
		y, err := q.ToSublatticeScaled(x)
		if err != nil {
			return err
		}
		if !isZero(y) {
			qg = append(qg, y)
		}
	}
	gq, err := toT[T](qg)
	if err != nil {
		return err
	}
	res, err := hull.Build(r.ctx, gq, r.hullOptions()...)
	if err != nil {
		return err
	}
	r.gens, r.known = gq, res
	r.hyps = res.Hyperplanes()
	r.rays = pick(gq, res.ExtremeRays)
	r.log.Debug("split off maximal subspace", zap.Int("dim", len(lin)), zap.Int("quotient_rank", q.Rank()))

	return nil
}

// structure stores the properties available right after shape.
func (r *runner[T]) structure() {
	out := r.out
	out.rank = r.span.Rank()
	out.effRank = r.eff.Rank()
	out.pointed = len(r.lineality) == 0
	out.lineality = copyRows(r.lineality)
	if out.lineality == nil {
		out.lineality = [][]*big.Int{}
	}
	out.sublattice = r.span.Embedding()
	if eqs, err := r.span.Equations(); err == nil {
		out.equations = eqs
		out.done = out.done.with(Equations)
	} else {
		out.fail(Equations, err)
	}
	out.hyps = make([][]*big.Int, 0, len(r.hyps))
	for _, h := range num.BigMatrix(r.hyps) {
		a, err := r.eff.FromSublatticeDual(h)
		if err != nil {
			out.fail(SupportHyperplanes, err)

			break
		}
		out.hyps = append(out.hyps, a)
	}
	out.rays = make([][]*big.Int, 0, len(r.rays))
	for _, x := range num.BigMatrix(r.rays) {
		a, err := r.eff.FromSublattice(x)
		if err != nil {
			out.fail(ExtremeRays, err)

			break
		}
		out.rays = append(out.rays, a)
	}
	for _, p := range []Property{SupportHyperplanes, ExtremeRays, MaximalSubspace, Sublattice, Rank, IsPointed} {
		if out.errs[p] == nil {
			out.done = out.done.with(p)
		}
	}
	if r.pre.inhom {
		r.polyhedron()
	} else {
		for _, p := range []Property{VerticesOfPolyhedron, RecessionRank} {
			out.fail(p, notComputable(p, "input is homogeneous"))
		}
	}
}

// polyhedron splits the extreme rays by the dehomogenization.
func (r *runner[T]) polyhedron() {
	out := r.out
	var rec [][]*big.Int
	out.vertices = [][]*big.Int{}
	for _, x := range out.rays {
		if dotBig(r.pre.dehom, x).Sign() > 0 {
			out.vertices = append(out.vertices, x)
		} else {
			rec = append(rec, x)
		}
	}
	rec = append(rec, out.lineality...)
	rk, err := matrix.RankOf(r.pre.dim, toBigInt(rec))
	if err != nil {
		out.fail(RecessionRank, err)

		return
	}
	out.recessionRank = rk
	out.done = out.done.with(VerticesOfPolyhedron).with(RecessionRank)
}

func toBigInt(rows [][]*big.Int) [][]num.BigInt {
	out, _ := num.FromBigMatrix[num.BigInt](rows)

	return out
}

// prepareGrading restricts the grading to eff, divides it by its content
// and checks it is positive on the cone.
func (r *runner[T]) prepareGrading() {
	if len(r.gens) == 0 {
		r.gradingErr = fmt.Errorf("%w: the cone has no pointed part", ErrNotComputable)

		return
	}
	p := r.pre
	var g []*big.Int
	switch {
	case p.grading != nil || p.dehom != nil:
		amb, explicit := p.grading, p.grading != nil
		if !explicit {
			amb = p.dehom
		}
		for _, l := range r.lineality {
			if dotBig(amb, l).Sign() != 0 {
				if explicit {
					r.gradingErr = inputErrorf(InputGrading, "does not vanish on the maximal subspace")
				} else {
					r.gradingErr = fmt.Errorf("%w: dehomogenization does not vanish on the maximal subspace", ErrNotComputable)
				}

				return
			}
		}
		var err error
		if g, err = r.eff.ToSublatticeDual(amb); err != nil {
			r.gradingErr = err

			return
		}
		for _, x := range num.BigMatrix(r.gens) {
			if dotBig(g, x).Sign() > 0 {
				continue
			}
			if explicit {
				r.gradingErr = inputErrorf(InputGrading, "not positive on the cone")
			} else {
				r.gradingErr = fmt.Errorf("%w: polyhedron is unbounded", ErrNotComputable)
			}

			return
		}
	default:
		var err error
		if g, err = implicitGrading(r.eff.Rank(), num.BigMatrix(r.rays)); err != nil {
			r.gradingErr = err

			return
		}
		r.log.Debug("implicit grading", zap.Stringers("grading", g))
	}
	content := new(big.Int)
	for _, x := range g {
		content.GCD(nil, nil, content, new(big.Int).Abs(x))
	}
	if content.Cmp(big.NewInt(1)) > 0 {
		for _, x := range g {
			x.Quo(x, content)
		}
	}
	gT, ok := num.FromBigVector[T](g)
	if !ok {
		r.gradingErr = num.ErrOverflow

		return
	}
	r.grading = gT
}

// implicitGrading returns the form that is 1 on every ray, if it is
// integral.
func implicitGrading(d int, rays [][]*big.Int) ([]*big.Int, error) {
	rows := make([][]num.BigInt, len(rays))
	for i, x := range rays {
		row := make([]num.BigInt, d+1)
		for j := range x {
			row[j] = num.NewBigInt(x[j])
		}
		row[d] = num.NewBigInt(big.NewInt(-1))
		rows[i] = row
	}
	m, err := matrix.FromRows(d+1, rows)
	if err != nil {
		return nil, err
	}
	k, err := matrix.Kernel(m)
	if err != nil {
		return nil, err
	}
	for _, v := range k.ToRows() {
		t := v[d].Big()
		if t.CmpAbs(big.NewInt(1)) != 0 {
			continue
		}
		g := make([]*big.Int, d)
		for j := range g {
			g[j] = new(big.Int).Mul(v[j].Big(), t)
		}

		return g, nil
	}

	return nil, fmt.Errorf("%w: no grading given and the extreme rays do not lie at height 1", ErrNotComputable)
}

func (r *runner[T]) primalMultiplicity() bool {
	return r.req.has(Multiplicity) && !r.req.any(Descent, SignedDec)
}

// buildBase builds the triangulation when a requested property needs one.
func (r *runner[T]) buildBase() error {
	req := r.req
	r.base = r.known
	tri := req.any(Triangulation, TriangulationSize, Volume, HilbertBasis, Deg1Elements, HVector) ||
		(r.primalMultiplicity() && r.gradingErr == nil)
	if !tri || len(r.gens) == 0 {
		return nil
	}
	keep := r.o.KeepTriangulation || req.any(Triangulation, HilbertBasis, Deg1Elements, HVector)
	extra := []hull.Option{
		hull.WithKeepTriangulation(keep),
		hull.WithVolumes(req.any(Volume, Triangulation)),
	}
	if r.grading != nil && r.primalMultiplicity() {
		extra = append(extra, hull.WithGrading(num.BigVector(r.grading)))
	}
	if req.has(HVector) {
		extra = append(extra, hull.WithOrderVector(interior(r.rays)))
	}
	base, err := r.build(r.gens, true, r.hullOptions(extra...))
	if err != nil {
		return err
	}
	r.base = base

	out := r.out
	out.triSize = base.TriangulationSize
	out.done = out.done.with(TriangulationSize)
	if base.Volume != nil {
		out.volume = new(big.Int).Set(base.Volume)
		out.done = out.done.with(Volume)
	}
	if r.grading != nil && base.Multiplicity != nil && r.primalMultiplicity() {
		out.mult = new(big.Rat).Set(base.Multiplicity)
		out.done = out.done.with(Multiplicity)
	}
	if keep {
		gens, err := r.ambient(r.gens)
		if err != nil {
			return err
		}
		out.triGens = gens
		out.tri = make([]Simplex, len(base.Triangulation))
		for i, s := range base.Triangulation {
			out.tri[i] = Simplex{Key: append([]int(nil), s.Key...), Vol: s.Vol.Big()}
		}
		out.done = out.done.with(Triangulation)
	}

	return nil
}

// interior returns the sum of the rays.
func interior[T num.Integer[T]](rays [][]T) []*big.Int {
	v := make([]*big.Int, len(rays[0]))
	for j := range v {
		v[j] = new(big.Int)
	}
	for _, x := range rays {
		for j, c := range x {
			v[j].Add(v[j], c.Big())
		}
	}

	return v
}

func (r *runner[T]) ambient(rows [][]T) ([][]*big.Int, error) {
	out := make([][]*big.Int, len(rows))
	for i, x := range num.BigMatrix(rows) {
		a, err := r.eff.FromSublattice(x)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}

	return out, nil
}

// engines runs the remaining engines concurrently.
func (r *runner[T]) engines() error {
	req, out := r.req, r.out
	g, ctx := errgroup.WithContext(r.ctx)
	g.SetLimit(max(1, r.o.Threads))
	var mu sync.Mutex
	fail := func(p Property, err error) error {
		if fatal(err) {
			return err
		}
		mu.Lock()
		out.fail(p, err)
		mu.Unlock()

		return nil
	}
	pointedPart := func(p Property) bool {
		if len(r.gens) > 0 {
			return true
		}
		out.fail(p, notComputable(p, "the cone has no pointed part"))

		return false
	}
	for _, p := range []Property{Triangulation, TriangulationSize, Volume, HilbertBasis, Deg1Elements, HVector, Multiplicity, Automorphisms} {
		if req.has(p) && !pointedPart(p) {
			req = req.without(p)
		}
	}
	for _, p := range []Property{Multiplicity, Deg1Elements, HVector} {
		if req.has(p) && r.gradingErr != nil {
			out.fail(p, &PropertyError{Property: p, Err: r.gradingErr})
			req = req.without(p)
		}
	}

	if req.any(HilbertBasis, Deg1Elements) {
		g.Go(func() error {
			hb, err := hilbert.HilbertBasis(ctx, r.gens, r.hyps, r.base.Triangulation,
				hilbert.WithThreads(r.o.Threads), hilbert.WithLogger(r.log))
			if err != nil {
				if req.has(Deg1Elements) {
					_ = fail(Deg1Elements, err)
				}

				return fail(HilbertBasis, err)
			}
			amb, err := r.ambient(hb)
			if err != nil {
				return err
			}
			mu.Lock()
			out.hb = amb
			out.done = out.done.with(HilbertBasis)
			mu.Unlock()
			if !req.has(Deg1Elements) {
				return nil
			}
			excl, err := r.excludedForms()
			if err != nil {
				return fail(Deg1Elements, err)
			}
			d1, err := hilbert.Deg1Elements(hb, r.grading, excl)
			if err != nil {
				return fail(Deg1Elements, err)
			}
			amb, err = r.ambient(d1)
			if err != nil {
				return err
			}
			mu.Lock()
			out.deg1 = amb
			out.done = out.done.with(Deg1Elements)
			mu.Unlock()

			return nil
		})
	}
	if req.has(HVector) {
		g.Go(func() error {
			h, err := r.hvector(ctx)
			if err != nil {
				return fail(HVector, err)
			}
			mu.Lock()
			out.hvec = h
			out.done = out.done.with(HVector)
			mu.Unlock()

			return nil
		})
	}

	descentWithGroup := req.has(Multiplicity) && req.has(Descent) && req.has(Automorphisms)
	if req.has(Automorphisms) {
		g.Go(func() error {
			grp, err := automorph.Compute(ctx, r.rays, r.hyps, r.o.Quality, automorph.WithLogger(r.log))
			if err != nil {
				if descentWithGroup {
					_ = fail(Multiplicity, err)
				}

				return fail(Automorphisms, err)
			}
			mu.Lock()
			out.group = grp
			out.done = out.done.with(Automorphisms)
			mu.Unlock()
			if descentWithGroup {
				return r.multiplicity(ctx, grp, &mu, fail)
			}

			return nil
		})
	}
	if req.has(Multiplicity) && !r.primalMultiplicity() && !descentWithGroup {
		g.Go(func() error { return r.multiplicity(ctx, nil, &mu, fail) })
	}
	if err := g.Wait(); err != nil {
		if cerr := r.ctx.Err(); cerr != nil && !errors.Is(err, hull.ErrInterrupted) {
			return interrupted(cerr)
		}

		return err
	}

	return nil
}

func (r *runner[T]) excludedForms() ([][]T, error) {
	var forms [][]*big.Int
	for _, f := range r.pre.excluded {
		e, err := r.eff.ToSublatticeDual(f)
		if err != nil {
			return nil, err
		}
		forms = append(forms, e)
	}

	return toT[T](forms)
}

// hvector evaluates the h-vector on the base triangulation. When some
// generator has degree above 1 but every extreme ray has degree 1, the
// rays are triangulated instead.
func (r *runner[T]) hvector(ctx context.Context) ([]*big.Int, error) {
	opts := []hilbert.Option{hilbert.WithThreads(r.o.Threads), hilbert.WithLogger(r.log)}
	h, err := hilbert.HVector(ctx, r.gens, r.base.Triangulation, r.grading, opts...)
	if err == nil || !errors.Is(err, hilbert.ErrNotDegreeOne) {
		return h, err
	}
	for _, x := range r.rays {
		d, ok := num.Dot(x, r.grading)
		if !ok {
			return nil, num.ErrOverflow
		}
		if d.Cmp(num.One[T]()) != 0 {
			return nil, err
		}
	}
	res, berr := hull.Build(ctx, r.rays, r.hullOptions(hull.WithKeepTriangulation(true),
		hull.WithOrderVector(interior(r.rays)))...)
	if berr != nil {
		return nil, berr
	}

	return hilbert.HVector(ctx, r.rays, res.Triangulation, r.grading, opts...)
}

func (r *runner[T]) multiplicity(ctx context.Context, grp *automorph.Group, mu *sync.Mutex, fail func(Property, error) error) error {
	var m *big.Rat
	switch {
	case r.req.has(SignedDec):
		res, err := signeddec.Multiplicity(ctx, r.hyps, r.grading,
			signeddec.WithThreads(r.o.Threads), signeddec.WithBlockSize(r.o.BlockSize), signeddec.WithLogger(r.log))
		if err != nil {
			return fail(Multiplicity, err)
		}
		m = res.Multiplicity
		r.log.Info("signed decomposition", zap.Int("subfacets", res.Subfacets), zap.Int("attempts", res.Attempts))
	default:
		opts := []descent.Option{
			descent.WithThreads(r.o.Threads),
			descent.WithOrbitBound(r.o.OrbitBound),
			descent.WithCodimBound(r.o.CodimBound),
			descent.WithIsomorphismCache(r.o.CodimBound > 0),
			descent.WithLogger(r.log),
		}
		if grp != nil {
			opts = append(opts, descent.WithAutomorphisms(grp))
		}
		res, err := descent.Multiplicity(ctx, r.rays, r.hyps, r.grading, opts...)
		if err != nil {
			return fail(Multiplicity, err)
		}
		m = res.Multiplicity
		r.log.Info("descent", zap.Ints("faces_per_level", res.FacesPerLevel))
	}
	mu.Lock()
	r.out.mult = m
	r.out.done = r.out.done.with(Multiplicity)
	mu.Unlock()

	return nil
}
