// SPDX-License-Identifier: MIT

package descent

import (
	"context"
	"math/big"
	"sync"

	"github.com/polymake/polymake-sub008/automorph"
	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// isoProbe is a face in canonical ray order.
type isoProbe struct {
	typ    *automorph.CanonicalType
	coords [][]*big.Int
	degs   []*big.Int
}

type isoEntry struct {
	probe *isoProbe
	value *big.Rat
}

// isoCache maps canonical types of finished faces to their multiplicity.
// Entries with equal types are checked for a unimodular map before reuse.
type isoCache struct {
	mu      sync.RWMutex
	entries map[uint64][]isoEntry
}

func newIsoCache() *isoCache {
	return &isoCache{entries: make(map[uint64][]isoEntry)}
}

// probeFace computes the canonical type of a face from its rays, its
// facets and the grading, which gets a color of its own.
func probeFace[T num.Integer[T]](ctx context.Context, f face, loc *local[T], degs []*big.Int) (*isoProbe, error) {
	hres, err := hull.Build(ctx, loc.coords, hull.WithThreads(1))
	if err != nil {
		return nil, err
	}
	forms := hres.Hyperplanes()
	gr, ok := num.FromBigVector[T](loc.grading)
	if !ok {
		return nil, num.ErrOverflow
	}
	forms = append(forms, gr)
	colors := make([]int, len(forms))
	colors[len(colors)-1] = 1
	grp, err := automorph.Compute(ctx, loc.coords, forms, automorph.Rational, automorph.WithFormColors(colors))
	if err != nil {
		return nil, err
	}
	p := &isoProbe{typ: grp.CanonicalType}
	for _, i := range grp.CanonicalLabeling.Generators {
		p.coords = append(p.coords, num.BigVector(loc.coords[i]))
		p.degs = append(p.degs, degs[f.rays[i]])
	}

	return p, nil
}

func (c *isoCache) lookup(p *isoProbe) (*big.Rat, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries[p.typ.Fingerprint()] {
		if e.probe.typ.Equal(p.typ) && sameDegrees(e.probe.degs, p.degs) && unimodularImage(e.probe.coords, p.coords) {
			return new(big.Rat).Set(e.value), true
		}
	}

	return nil, false
}

func (c *isoCache) store(p *isoProbe, v *big.Rat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fp := p.typ.Fingerprint()
	c.entries[fp] = append(c.entries[fp], isoEntry{probe: p, value: new(big.Rat).Set(v)})
}

func sameDegrees(a, b []*big.Int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}

	return true
}

// unimodularImage reports whether an integral matrix of determinant ±1
// maps row a_i onto row b_i for every i.
func unimodularImage(a, b [][]*big.Int) bool {
	if len(a) != len(b) || len(a) == 0 || len(a[0]) != len(b[0]) {
		return false
	}
	k := len(a[0])
	ra, _ := num.FromBigMatrix[num.BigInt](a)
	da, err := matrix.FromRows(k, ra)
	if err != nil {
		return false
	}
	basis, err := matrix.MaxRankRows(da, nil)
	if err != nil || len(basis) != k {
		return false
	}
	sel, err := da.Select(basis)
	if err != nil {
		return false
	}
	adj, det, err := matrix.Invert(sel)
	if err != nil {
		return false
	}
	adjRows := num.BigMatrix(adj.ToRows())
	den := det.Big()
	m := make([][]*big.Int, k)
	rem := new(big.Int)
	for i := 0; i < k; i++ {
		m[i] = make([]*big.Int, k)
		for j := 0; j < k; j++ {
			acc := new(big.Int)
			for t, r := range basis {
				acc.Add(acc, new(big.Int).Mul(adjRows[i][t], b[r][j]))
			}
			q, _ := new(big.Int).QuoRem(acc, den, rem)
			if rem.Sign() != 0 {
				return false
			}
			m[i][j] = q
		}
	}
	for i, row := range a {
		for j := 0; j < k; j++ {
			acc := new(big.Int)
			for t := 0; t < k; t++ {
				acc.Add(acc, new(big.Int).Mul(row[t], m[t][j]))
			}
			if acc.Cmp(b[i][j]) != 0 {
				return false
			}
		}
	}
	rm, _ := num.FromBigMatrix[num.BigInt](m)
	dm, err := matrix.FromRows(k, rm)
	if err != nil {
		return false
	}
	dd, err := matrix.Determinant(dm)
	if err != nil {
		return false
	}

	return new(big.Int).Abs(dd.Big()).Cmp(big.NewInt(1)) == 0
}
