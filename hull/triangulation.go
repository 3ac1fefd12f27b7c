// SPDX-License-Identifier: MIT

package hull

import (
	"context"
	"math/big"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/polymake/polymake-sub008/bitset"
	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// cell is a simplex of the placing triangulation. Keys stay in memory for
// extension; evaluation data is filled in by flush.
type cell[T num.Integer[T]] struct {
	key      []int
	set      bitset.Set
	height   T
	vol      T
	excluded bitset.Set
}

// triangulation holds the cells and the bounded evaluation buffer.
type triangulation[T num.Integer[T]] struct {
	gens    [][]T
	dim     int
	cells   []*cell[T]
	pending []int
	eval    bool
	degs    []*big.Int
	ov      []T
	volume  *big.Int
	mult    *big.Rat
}

func newTriangulation[T num.Integer[T]](gens [][]T, o *Options, degs []*big.Int) (*triangulation[T], error) {
	t := &triangulation[T]{
		gens:   gens,
		dim:    len(gens[0]),
		eval:   o.evaluating(),
		degs:   degs,
		volume: new(big.Int),
		mult:   new(big.Rat),
	}
	if o.OrderVector != nil {
		if len(o.OrderVector) != t.dim {
			return nil, hullErrorf("orderVector", ErrRaggedInput)
		}
		ov, ok := num.FromBigVector[T](o.OrderVector)
		if !ok {
			return nil, num.ErrOverflow
		}
		t.ov = ov
	}

	return t, nil
}

// add appends a simplex and queues it for evaluation.
func (t *triangulation[T]) add(key []int, height T) {
	k := append([]int(nil), key...)
	sort.Ints(k)
	t.cells = append(t.cells, &cell[T]{
		key:    k,
		set:    bitset.FromIndices(len(t.gens), k...),
		height: height,
		vol:    num.Zero[T](),
	})
	t.pending = append(t.pending, len(t.cells)-1)
}

// extend places g over every negative facet. A simplicial facet is its own
// restricted triangulation; otherwise the (dim−1)-faces of existing cells
// lying in the facet are coned over g.
func (t *triangulation[T]) extend(g int, neg []*Facet[T]) error {
	var ck num.Checked[T]
	old := len(t.cells)
	for _, nf := range neg {
		h := ck.Neg(nf.ValNewGen)
		if nf.Simplicial {
			t.add(append(nf.GenInHyp.Indices(), g), h)

			continue
		}
		for c := 0; c < old; c++ {
			s := t.cells[c]
			if bitset.AndCount(s.set, nf.GenInHyp) != t.dim-1 {
				continue
			}
			t.add(append(bitset.And(s.set, nf.GenInHyp).Indices(), g), h)
		}
	}

	return ck.Err()
}

// maybeFlush applies backpressure: a full buffer is evaluated before the
// next generator is inserted.
func (t *triangulation[T]) maybeFlush(ctx context.Context, o *Options, st *Stats) error {
	if len(t.pending) < o.EvalBufferSize {
		return nil
	}

	return t.flush(ctx, o, st)
}

// accum collects per-worker evaluation results.
type accum struct {
	volume *big.Int
	mult   *big.Rat
	n      int
}

// flush evaluates the pending cells on up to o.Threads workers.
func (t *triangulation[T]) flush(ctx context.Context, o *Options, st *Stats) error {
	if len(t.pending) == 0 {
		return nil
	}
	if !t.eval {
		st.Simplices += len(t.pending)
		t.pending = t.pending[:0]

		return nil
	}
	workers := o.Threads
	if workers > len(t.pending) {
		workers = len(t.pending)
	}
	chunk := (len(t.pending) + workers - 1) / workers
	// every worker gets a non-empty range
	workers = (len(t.pending) + chunk - 1) / chunk
	accs := make([]accum, workers)
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, len(t.pending))
		acc := &accs[w]
		acc.volume, acc.mult = new(big.Int), new(big.Rat)
		grp.Go(func() error {
			for _, ci := range t.pending[lo:hi] {
				if err := gctx.Err(); err != nil {
					return interrupted(err)
				}
				if err := t.evaluate(t.cells[ci], acc); err != nil {
					return err
				}
			}

			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}
	n := 0
	for _, a := range accs {
		t.volume.Add(t.volume, a.volume)
		t.mult.Add(t.mult, a.mult)
		n += a.n
	}
	o.Metrics.addSimplices(n)
	o.Metrics.addFlush()
	o.Logger.Debug("evaluation flush", zap.Int("simplices", n))
	st.Simplices += n
	st.Flushes++
	t.pending = t.pending[:0]

	return nil
}

// evaluate computes |det|, the excluded-facet mask and the multiplicity
// contribution det/∏deg of one cell.
func (t *triangulation[T]) evaluate(c *cell[T], acc *accum) error {
	rows := make([][]T, t.dim)
	for i, k := range c.key {
		rows[i] = t.gens[k]
	}
	m, err := matrix.FromRows(t.dim, rows)
	if err != nil {
		return err
	}
	var ck num.Checked[T]
	var vol T
	if t.ov != nil {
		forms, v, err := matrix.SimplexData(m)
		if err != nil {
			return err
		}
		vol = v
		c.excluded = bitset.New(t.dim)
		for i, f := range forms {
			if excludedBy(&ck, f, t.ov) {
				c.excluded.Set(i)
			}
		}
	} else {
		det, err := matrix.Determinant(m)
		if err != nil {
			return err
		}
		vol = ck.Abs(det)
	}
	if err := ck.Err(); err != nil {
		return err
	}
	if vol.IsZero() {
		return hullErrorf("evaluate", ErrFatal)
	}
	c.vol = vol
	vb := vol.Big()
	acc.volume.Add(acc.volume, vb)
	if t.degs != nil {
		prod := big.NewInt(1)
		for _, k := range c.key {
			prod.Mul(prod, t.degs[k])
		}
		acc.mult.Add(acc.mult, new(big.Rat).SetFrac(vb, prod))
	}
	acc.n++

	return nil
}

// excludedBy reports whether the simplex facet with inner form f is excluded
// by the order vector v: f·v < 0, or f·v = 0 and the first non-zero entry of
// f is negative.
func excludedBy[T num.Integer[T]](ck *num.Checked[T], f, v []T) bool {
	s := ck.Dot(f, v).Sign()
	if s != 0 {
		return s < 0
	}
	for _, x := range f {
		if !x.IsZero() {
			return x.Sign() < 0
		}
	}

	return false
}

// simplices exports the cells.
func (t *triangulation[T]) simplices() []Simplex[T] {
	out := make([]Simplex[T], len(t.cells))
	for i, c := range t.cells {
		out[i] = Simplex[T]{
			Key:      append([]int(nil), c.key...),
			Height:   c.height,
			Vol:      c.vol,
			Excluded: c.excluded.Clone(),
		}
	}

	return out
}
