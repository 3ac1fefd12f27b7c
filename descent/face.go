// SPDX-License-Identifier: MIT

package descent

import (
	"context"
	"math/big"

	"github.com/polymake/polymake-sub008/bitset"
	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// face is a face of the cone: its rays (ascending indices into the cone's
// rays) and the set of cone facets containing it.
type face struct {
	rays []int
	key  bitset.Set
}

// local is a face expressed in the lattice Z^d ∩ lin(F).
type local[T num.Integer[T]] struct {
	coords  [][]T      // rays in lattice coordinates, in face order
	grading []*big.Int // grading restricted to the lattice
	rank    int
}

type outcomeKind uint8

const (
	kindInner outcomeKind = iota
	kindLeaf
	kindFinished
	kindCached
)

type child struct {
	rays   []int
	factor *big.Rat
}

type outcome struct {
	kind     outcomeKind
	value    *big.Rat
	children []child
}

// faceOf closes a ray set to a face.
func (d *descender[T]) faceOf(rays []int) face {
	key := bitset.Full(d.nFacets)
	for _, r := range rays {
		key.InPlaceAnd(d.incidence[r])
	}

	return face{rays: rays, key: key}
}

func (d *descender[T]) localize(f face) (*local[T], error) {
	rows := make([][]*big.Int, len(f.rays))
	for i, r := range f.rays {
		rows[i] = d.bigRays[r]
	}
	sub, err := matrix.SaturatedSpan(d.dim, rows)
	if err != nil {
		return nil, err
	}
	lc := make([][]*big.Int, len(rows))
	for i, row := range rows {
		if lc[i], err = sub.ToSublattice(row); err != nil {
			return nil, err
		}
	}
	gr, err := sub.ToSublatticeDual(d.grading)
	if err != nil {
		return nil, err
	}
	coords, ok := num.FromBigMatrix[T](lc)
	if !ok {
		return nil, num.ErrOverflow
	}

	return &local[T]{coords: coords, grading: gr, rank: sub.Rank()}, nil
}

// process handles one face at codimension depth.
func (d *descender[T]) process(ctx context.Context, f face, depth int) (outcome, error) {
	if err := ctx.Err(); err != nil {
		return outcome{}, interrupted(err)
	}
	loc, err := d.localize(f)
	if err != nil {
		return outcome{}, err
	}
	if len(f.rays) == loc.rank {
		v, err := d.simplicial(f, loc)

		return outcome{kind: kindLeaf, value: v}, err
	}
	if d.o.CodimBound > 0 && depth >= d.o.CodimBound {
		return d.finish(ctx, f, loc)
	}

	hres, err := hull.Build(ctx, loc.coords, hull.WithThreads(1))
	if err != nil {
		return outcome{}, err
	}
	apex := pickApex(len(f.rays), hres.Facets)
	deg := d.degs[f.rays[apex]]
	var ck num.Checked[T]
	out := outcome{kind: kindInner}
	for _, fc := range hres.Facets {
		if fc.GenInHyp.Test(apex) {
			continue
		}
		h := ck.Dot(fc.Hyp, loc.coords[apex])
		idx := fc.GenInHyp.Indices()
		rays := make([]int, len(idx))
		for k, i := range idx {
			rays[k] = f.rays[i]
		}
		out.children = append(out.children, child{rays: rays, factor: new(big.Rat).SetFrac(h.Big(), deg)})
	}
	if err := ck.Err(); err != nil {
		return outcome{}, err
	}

	return out, nil
}

// pickApex returns the ray lying on the most facets, so that the fewest
// facets avoid it. Ties go to the lowest index.
func pickApex[T num.Integer[T]](n int, facets []hull.Facet[T]) int {
	count := make([]int, n)
	for _, fc := range facets {
		for _, i := range fc.GenInHyp.Indices() {
			count[i]++
		}
	}
	best := 0
	for i := 1; i < n; i++ {
		if count[i] > count[best] {
			best = i
		}
	}

	return best
}

// simplicial returns |det| / ∏ deg over the rays of a simplicial face.
func (d *descender[T]) simplicial(f face, loc *local[T]) (*big.Rat, error) {
	m, err := matrix.FromRows(loc.rank, loc.coords)
	if err != nil {
		return nil, err
	}
	det, err := matrix.Determinant(m)
	if err != nil {
		return nil, err
	}
	den := big.NewInt(1)
	for _, r := range f.rays {
		den.Mul(den, d.degs[r])
	}

	return new(big.Rat).SetFrac(new(big.Int).Abs(det.Big()), den), nil
}

// finish triangulates the face and returns its multiplicity.
func (d *descender[T]) finish(ctx context.Context, f face, loc *local[T]) (outcome, error) {
	var probe *isoProbe
	if d.cache != nil {
		p, err := probeFace(ctx, f, loc, d.degs)
		if err != nil {
			return outcome{}, err
		}
		if v, ok := d.cache.lookup(p); ok {
			return outcome{kind: kindCached, value: v}, nil
		}
		probe = p
	}
	res, err := hull.Build(ctx, loc.coords, hull.WithThreads(1), hull.WithGrading(loc.grading))
	if err != nil {
		return outcome{}, err
	}
	if probe != nil {
		d.cache.store(probe, res.Multiplicity)
	}

	return outcome{kind: kindFinished, value: res.Multiplicity}, nil
}
