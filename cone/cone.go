// SPDX-License-Identifier: MIT

package cone

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/polymake/polymake-sub008/automorph"
	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/num"
)

// DefaultDecimalDigits is the precision of MultiplicityDecimal when the
// decimal_digits parameter is unset.
const DefaultDecimalDigits = 10

// Stats describes the runs of a Cone.
type Stats struct {
	Runs    int
	Retries int // width promotions after overflow
	Resumes int // builds continued from a snapshot
	Width   num.Width
	LastRun string
	Elapsed time.Duration
}

// Cone is a rational cone or polyhedron given by an Input. Properties are
// computed on demand by Compute and read with the getters. A Cone is safe
// for concurrent use; Compute calls are serialized.
type Cone struct {
	mu sync.Mutex

	input  Input
	pre    *prepared
	frame  *frame
	base   Options
	opts   Options
	params Params
	width  num.Width

	res   *results
	snaps [2]*hull.Snapshot
	stats Stats
}

// New validates in and returns a Cone. No computation happens here
// besides the lattice of the input.
//
// Errors:
//   - *InputError wrapping ErrBadInput for malformed input.
//   - ErrOptionViolation for invalid options.
func New(in Input, opts ...Option) (*Cone, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	c := &Cone{base: o, opts: o, width: o.StartWidth, res: newResults()}
	if err := c.load(cloneInput(in)); err != nil {
		return nil, err
	}
	c.stats.Width = c.width

	return c, nil
}

func cloneInput(in Input) Input {
	out := make(Input, len(in))
	for k, rows := range in {
		out[k] = copyRows(rows)
	}

	return out
}

func (c *Cone) load(in Input) error {
	pre, err := prepare(in)
	if err != nil {
		return err
	}
	fr, err := pre.frame()
	if err != nil {
		return err
	}
	c.input, c.pre, c.frame = in, pre, fr

	return nil
}

// SetParams sets numeric parameters by name, for example
// "descent_codim_bound" or "expansion_degree". Results already computed
// are kept.
func (c *Cone) SetParams(raw map[string]int) error {
	p, err := DecodeParams(raw)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = p
	c.opts = p.apply(c.base)

	return nil
}

// Compute computes the requested properties, honoring the algorithm flags
// among props. It returns the requested properties that are still not
// available; their getters report why.
//
// Implementation:
//   - Stage 1: drop what is already known and close the request under
//     dependencies.
//   - Stage 2: run the pipeline at the current width; on overflow move to
//     the next width (int32, int64, big) unless retry is disabled.
//   - Stage 3: merge the new values and snapshots.
//
// Errors:
//   - ErrOptionViolation for unknown properties.
//   - ErrInterrupted when ctx is cancelled.
//   - ErrFatal wrapping num.ErrOverflow when retry is off or exhausted.
func (c *Cone) Compute(ctx context.Context, props ...Property) ([]Property, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var asked propertySet
	for _, p := range props {
		if p < 0 || p >= numProperties {
			return nil, fmt.Errorf("%w: unknown property %d", ErrOptionViolation, int(p))
		}
		asked = asked.with(p)
	}
	if asked.has(DualMode) && asked.has(PrimalMode) {
		return nil, fmt.Errorf("%w: DualMode and PrimalMode are exclusive", ErrOptionViolation)
	}
	if asked.has(Descent) && asked.has(SignedDec) {
		return nil, fmt.Errorf("%w: Descent and SignedDec are exclusive", ErrOptionViolation)
	}
	req := asked.closure()
	var todo propertySet
	for _, p := range req.list() {
		if !c.res.tried(p) {
			todo = todo.with(p)
		}
	}
	if todo != 0 {
		for p := DualMode; p < numProperties; p++ {
			if asked.has(p) {
				todo = todo.with(p)
			}
		}
		if err := c.run(ctx, todo); err != nil {
			return nil, err
		}
	}

	var remaining []Property
	for _, p := range asked.list() {
		if !c.res.done.has(p) {
			remaining = append(remaining, p)
		}
	}

	return remaining, nil
}

func (c *Cone) run(ctx context.Context, req propertySet) error {
	o := c.opts
	id := uuid.NewString()
	log := o.Logger.With(zap.String("run", id))
	start := time.Now()
	log.Info("compute", zap.Stringers("properties", req.list()), zap.Stringer("width", c.width))

	w := c.width
	for {
		out, err := c.runAt(ctx, w, req, o, log)
		if err == nil {
			c.res.merge(out)
			c.snaps = out.snaps
			c.width = w
			c.stats.Runs++
			if out.resumed {
				c.stats.Resumes++
			}
			c.stats.Width = w
			c.stats.LastRun = id
			c.stats.Elapsed = time.Since(start)
			log.Info("compute done", zap.Duration("elapsed", c.stats.Elapsed))

			return nil
		}
		if cerr := ctx.Err(); cerr != nil && !errors.Is(err, ErrInterrupted) {
			return interrupted(cerr)
		}
		if !errors.Is(err, num.ErrOverflow) {
			return err
		}
		next, ok := w.Next()
		if !o.Retry || !ok {
			return fmt.Errorf("%w: %w at width %s", ErrFatal, err, w)
		}
		o.Metrics.OverflowRetry()
		c.stats.Retries++
		log.Warn("overflow, retrying", zap.Stringer("from", w), zap.Stringer("to", next))
		w = next
	}
}

func (c *Cone) runAt(ctx context.Context, w num.Width, req propertySet, o Options, log *zap.Logger) (*results, error) {
	switch w {
	case num.Width32:
		return execute[num.Int32](ctx, c, req, o, log)
	case num.Width64:
		return execute[num.Int64](ctx, c, req, o, log)
	default:
		return execute[num.BigInt](ctx, c, req, o, log)
	}
}

// Invalidate forgets the given properties, or all of them without
// arguments. Snapshots are kept.
func (c *Cone) Invalidate(props ...Property) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(props) == 0 {
		c.res = newResults()

		return
	}
	c.res.invalidate(setOf(props...))
}

// AddGenerators appends rows to the generators. It applies to homogeneous
// cones given by generators alone; the next Compute continues the hull
// from the previous one where possible.
func (c *Cone) AddGenerators(rows [][]*big.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pre.constrained() || c.pre.inhom || c.pre.polytope || len(c.input[InputExtremeRays]) > 0 {
		return inputErrorf(InputGenerators, "generators can only be added to a cone given by generators")
	}
	in := cloneInput(c.input)
	in[InputGenerators] = append(in[InputGenerators], copyRows(rows)...)
	if err := c.load(in); err != nil {
		return err
	}
	c.res = newResults()

	return nil
}

// Width is the integer width of the last successful run.
func (c *Cone) Width() num.Width {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.width
}

// Stats returns run counters.
func (c *Cone) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

// Snapshot returns the last hull snapshot taken with a triangulation, or
// without one when no triangulation was built.
func (c *Cone) Snapshot() *hull.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snaps[1] != nil {
		return c.snaps[1]
	}

	return c.snaps[0]
}

// check reports whether p is available.
func (c *Cone) check(p Property) error {
	if c.res.done.has(p) {
		return nil
	}
	if err, ok := c.res.errs[p]; ok {
		return err
	}

	return notComputable(p, "not computed")
}

// rows reads the field selected by get under c.mu.
func (c *Cone) rows(p Property, get func(*results) [][]*big.Int) ([][]*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(p); err != nil {
		return nil, err
	}

	return copyRows(get(c.res)), nil
}

// SupportHyperplanes returns the primitive irredundant support hyperplanes
// in input coordinates.
func (c *Cone) SupportHyperplanes() ([][]*big.Int, error) {
	return c.rows(SupportHyperplanes, func(r *results) [][]*big.Int { return r.hyps })
}

// ExtremeRays returns one primitive generator per extreme ray. For cones
// with a maximal subspace these are lifts of the extreme rays of the
// quotient.
func (c *Cone) ExtremeRays() ([][]*big.Int, error) {
	return c.rows(ExtremeRays, func(r *results) [][]*big.Int { return r.rays })
}

// MaximalSubspace returns a basis of the largest linear subspace.
func (c *Cone) MaximalSubspace() ([][]*big.Int, error) {
	return c.rows(MaximalSubspace, func(r *results) [][]*big.Int { return r.lineality })
}

// Equations returns the equations of the linear span.
func (c *Cone) Equations() ([][]*big.Int, error) {
	return c.rows(Equations, func(r *results) [][]*big.Int { return r.equations })
}

// Sublattice returns a basis of the lattice the cone lives in.
func (c *Cone) Sublattice() ([][]*big.Int, error) {
	return c.rows(Sublattice, func(r *results) [][]*big.Int { return r.sublattice })
}

// HilbertBasis returns the Hilbert basis, sorted.
func (c *Cone) HilbertBasis() ([][]*big.Int, error) {
	return c.rows(HilbertBasis, func(r *results) [][]*big.Int { return r.hb })
}

// Deg1Elements returns the Hilbert basis elements of degree 1.
func (c *Cone) Deg1Elements() ([][]*big.Int, error) {
	return c.rows(Deg1Elements, func(r *results) [][]*big.Int { return r.deg1 })
}

// VerticesOfPolyhedron returns the vertices of an inhomogeneous input, as
// homogeneous vectors with positive last coordinate.
func (c *Cone) VerticesOfPolyhedron() ([][]*big.Int, error) {
	return c.rows(VerticesOfPolyhedron, func(r *results) [][]*big.Int { return r.vertices })
}

// Rank is the dimension of the cone.
func (c *Cone) Rank() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(Rank); err != nil {
		return 0, err
	}

	return c.res.rank, nil
}

// RecessionRank is the dimension of the recession cone of a polyhedron.
func (c *Cone) RecessionRank() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(RecessionRank); err != nil {
		return 0, err
	}

	return c.res.recessionRank, nil
}

// IsPointed reports whether the maximal subspace is zero.
func (c *Cone) IsPointed() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(IsPointed); err != nil {
		return false, err
	}

	return c.res.pointed, nil
}

// Triangulation returns the simplices together with the generators their
// keys index.
func (c *Cone) Triangulation() ([]Simplex, [][]*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(Triangulation); err != nil {
		return nil, nil, err
	}
	out := make([]Simplex, len(c.res.tri))
	for i, s := range c.res.tri {
		out[i] = Simplex{Key: append([]int(nil), s.Key...), Vol: new(big.Int).Set(s.Vol)}
	}

	return out, copyRows(c.res.triGens), nil
}

// TriangulationSize is the number of simplices.
func (c *Cone) TriangulationSize() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(TriangulationSize); err != nil {
		return 0, err
	}

	return c.res.triSize, nil
}

// Volume is the sum of the simplex determinants in the lattice of the
// cone.
func (c *Cone) Volume() (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(Volume); err != nil {
		return nil, err
	}

	return new(big.Int).Set(c.res.volume), nil
}

// Multiplicity is the normalized volume of the degree-1 cross section.
func (c *Cone) Multiplicity() (*big.Rat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(Multiplicity); err != nil {
		return nil, err
	}

	return new(big.Rat).Set(c.res.mult), nil
}

// MultiplicityDecimal formats the multiplicity with the decimal_digits
// parameter.
func (c *Cone) MultiplicityDecimal() (string, error) {
	m, err := c.Multiplicity()
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	digits := c.params.DecimalDigits
	c.mu.Unlock()
	if digits == 0 {
		digits = DefaultDecimalDigits
	}

	return m.FloatString(digits), nil
}

// HVector returns the numerator of the Hilbert series of the degree-1
// generated cone.
func (c *Cone) HVector() ([]*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(HVector); err != nil {
		return nil, err
	}

	return copyVec(c.res.hvec), nil
}

// HilbertFunction expands the Hilbert series from the h-vector:
// H(k) = Σ_i h_i·C(k-i+d-1, d-1) for k up to the expansion_degree parameter
// (at least the length of the h-vector).
func (c *Cone) HilbertFunction() ([]*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(HVector); err != nil {
		return nil, err
	}
	h, d := c.res.hvec, c.res.effRank
	last := max(c.params.ExpansionDegree, len(h)-1)
	out := make([]*big.Int, last+1)
	for k := range out {
		sum := new(big.Int)
		for i, hi := range h {
			if i > k {
				break
			}
			b := new(big.Int).Binomial(int64(k-i+d-1), int64(d-1))
			sum.Add(sum, b.Mul(b, hi))
		}
		out[k] = sum
	}

	return out, nil
}

// Automorphisms returns the automorphism group of the extreme rays and
// support hyperplanes.
func (c *Cone) Automorphisms() (*automorph.Group, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(Automorphisms); err != nil {
		return nil, err
	}

	return c.res.group, nil
}
