// SPDX-License-Identifier: MIT

package hull

import (
	"context"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/polymake/polymake-sub008/num"
)

// Snapshot is a serializable cut of a computation: facets, inserted
// generators, comparison counters and, when a triangulation was built, the
// simplex keys. Sublattice is owned by the caller (rows of decimal strings)
// and carried unchanged.
type Snapshot struct {
	ID            string            `yaml:"id"`
	Dim           int               `yaml:"dim"`
	Generators    int               `yaml:"generators"`
	Inserted      []int             `yaml:"inserted,flow"`
	NextID        uint64            `yaml:"next_id"`
	Comparisons   []int             `yaml:"comparisons,flow"`
	Facets        []SnapshotFacet   `yaml:"facets"`
	Triangulation []SnapshotSimplex `yaml:"triangulation,omitempty"`
	Sublattice    [][]string        `yaml:"sublattice,omitempty"`
}

// SnapshotFacet is a Facet with decimal coordinates and a 0/1 incidence string.
type SnapshotFacet struct {
	Hyp        []string `yaml:"hyp,flow"`
	GenInHyp   string   `yaml:"gen_in_hyp"`
	BornAt     int      `yaml:"born_at"`
	Ident      uint64   `yaml:"ident"`
	Mother     uint64   `yaml:"mother"`
	Simplicial bool     `yaml:"simplicial"`
}

// SnapshotSimplex is a triangulation cell.
type SnapshotSimplex struct {
	Key    []int  `yaml:"key,flow"`
	Height string `yaml:"height"`
}

// snapshotState is the engine state captured by finish.
type snapshotState[T num.Integer[T]] struct {
	dim      int
	n        int
	inserted []int
	nextID   uint64
	cmps     []int
	facets   []*Facet[T]
	cells    []*cell[T]
}

func (e *engine[T]) capture() *snapshotState[T] {
	s := &snapshotState[T]{
		dim:      e.dim,
		n:        len(e.gens),
		inserted: e.inserted.Indices(),
		cmps:     append([]int(nil), e.cmps...),
		facets:   make([]*Facet[T], len(e.facets)),
	}
	var maxID uint64
	for i, f := range e.facets {
		s.facets[i] = f.clone()
		maxID = max(maxID, f.Ident)
	}
	for _, t := range e.workers {
		maxID = max(maxID, t.ids.next)
	}
	s.nextID = max(maxID, e.ids.next) + 1
	if e.tri != nil {
		s.cells = e.tri.cells
	}

	return s
}

// Snapshot returns the state of r for Resume.
func (r *Result[T]) Snapshot() *Snapshot {
	s := r.state
	out := &Snapshot{
		ID:          uuid.NewString(),
		Dim:         s.dim,
		Generators:  s.n,
		Inserted:    append([]int(nil), s.inserted...),
		NextID:      s.nextID,
		Comparisons: append([]int(nil), s.cmps...),
		Facets:      make([]SnapshotFacet, len(s.facets)),
	}
	for i, f := range s.facets {
		hyp := make([]string, len(f.Hyp))
		for j, x := range f.Hyp {
			hyp[j] = x.String()
		}
		out.Facets[i] = SnapshotFacet{
			Hyp:        hyp,
			GenInHyp:   f.GenInHyp.String(),
			BornAt:     f.BornAt,
			Ident:      f.Ident,
			Mother:     f.Mother,
			Simplicial: f.Simplicial,
		}
	}
	if s.cells != nil {
		out.Triangulation = make([]SnapshotSimplex, len(s.cells))
		for i, c := range s.cells {
			out.Triangulation[i] = SnapshotSimplex{Key: append([]int(nil), c.key...), Height: c.height.String()}
		}
	}

	return out
}

// Encode renders the snapshot as YAML.
func (s *Snapshot) Encode() ([]byte, error) {
	return yaml.Marshal(s)
}

// DecodeSnapshot parses a YAML snapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotMismatch, err)
	}

	return &s, nil
}

func parseBig[T num.Integer[T]](s string) (T, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return num.Zero[T](), fmt.Errorf("%w: bad integer %q", ErrSnapshotMismatch, s)
	}
	v, ok := num.FromBig[T](b)
	if !ok {
		return num.Zero[T](), num.ErrOverflow
	}

	return v, nil
}

// Resume continues the computation captured in snap over gens, whose first
// snap.Generators rows must be the generators the snapshot was taken from.
// The remaining generators are inserted in the configured order.
//
// Errors:
//   - as Build, plus ErrSnapshotMismatch when a restored facet is negative
//     on an inserted generator or its incidence disagrees with the values.
func Resume[T num.Integer[T]](ctx context.Context, gens [][]T, snap *Snapshot, opts ...Option) (*Result[T], error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := validateGenerators(gens); err != nil {
		return nil, hullErrorf("Resume", err)
	}
	if snap == nil || snap.Dim != len(gens[0]) || snap.Generators > len(gens) || len(snap.Inserted) == 0 {
		return nil, hullErrorf("Resume", ErrSnapshotMismatch)
	}
	if o.triangulating() && snap.Triangulation == nil {
		return nil, hullErrorf("Resume", fmt.Errorf("%w: snapshot has no triangulation", ErrSnapshotMismatch))
	}
	e, err := newTopEngine(ctx, gens, &o, snap.NextID)
	if err != nil {
		return nil, hullErrorf("Resume", err)
	}
	if err := e.restore(snap); err != nil {
		return nil, hullErrorf("Resume", err)
	}
	if err := e.run(e.insertionOrder()); err != nil {
		return nil, err
	}

	return e.finish()
}

// restore loads snap into a fresh top-level engine and checks it against
// the generators.
func (e *engine[T]) restore(snap *Snapshot) error {
	n := len(e.gens)
	for _, i := range snap.Inserted {
		if i < 0 || i >= snap.Generators {
			return fmt.Errorf("%w: inserted index %d", ErrSnapshotMismatch, i)
		}
		e.inserted.Set(i)
	}
	copy(e.cmps, snap.Comparisons)
	var ck num.Checked[T]
	for _, sf := range snap.Facets {
		if len(sf.Hyp) != e.dim {
			return fmt.Errorf("%w: facet %d has %d coordinates", ErrSnapshotMismatch, sf.Ident, len(sf.Hyp))
		}
		f := &Facet[T]{
			Hyp:        make([]T, e.dim),
			ValNewGen:  num.Zero[T](),
			BornAt:     sf.BornAt,
			Ident:      sf.Ident,
			Mother:     sf.Mother,
			Simplicial: sf.Simplicial,
		}
		for j, s := range sf.Hyp {
			v, err := parseBig[T](s)
			if err != nil {
				return err
			}
			f.Hyp[j] = v
		}
		if err := f.GenInHyp.UnmarshalText([]byte(sf.GenInHyp)); err != nil {
			return fmt.Errorf("%w: %w", ErrSnapshotMismatch, err)
		}
		f.GenInHyp.Resize(n)
		for _, i := range snap.Inserted {
			v := ck.Dot(f.Hyp, e.gens[i])
			if v.Sign() < 0 || v.IsZero() != f.GenInHyp.Test(i) {
				return fmt.Errorf("%w: facet %d disagrees with generator %d", ErrSnapshotMismatch, f.Ident, i)
			}
		}
		e.facets = append(e.facets, f)
	}
	if err := ck.Err(); err != nil {
		return err
	}
	if e.tri != nil {
		for _, ss := range snap.Triangulation {
			if len(ss.Key) != e.dim {
				return fmt.Errorf("%w: simplex key of length %d", ErrSnapshotMismatch, len(ss.Key))
			}
			for _, k := range ss.Key {
				if k < 0 || k >= snap.Generators {
					return fmt.Errorf("%w: simplex index %d", ErrSnapshotMismatch, k)
				}
			}
			h, err := parseBig[T](ss.Height)
			if err != nil {
				return err
			}
			e.tri.add(ss.Key, h)
		}
	}

	return nil
}
