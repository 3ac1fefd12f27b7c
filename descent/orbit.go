// SPDX-License-Identifier: MIT

package descent

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/polymake/polymake-sub008/automorph"
	"github.com/polymake/polymake-sub008/bitset"
)

// element is one group element acting on rays and facets.
type element struct {
	rays, facets []int
}

// orbitMerger maps a face to the smallest face of its orbit.
type orbitMerger struct {
	elems []element
}

// newOrbitMerger enumerates the group generated by g. It returns nil and a
// reason when the group cannot be used for merging.
func newOrbitMerger(g *automorph.Group, rays [][]*big.Int, grading []*big.Int, nFacets, bound int) (*orbitMerger, string, error) {
	for k := range g.GenPerms {
		if len(g.GenPerms[k]) != len(rays) || len(g.FormPerms[k]) != nFacets {
			return nil, "", badInput("group acts on %d rays and %d facets, cone has %d and %d",
				len(g.GenPerms[k]), len(g.FormPerms[k]), len(rays), nFacets)
		}
	}
	if g.Order.Cmp(big.NewInt(int64(bound))) > 0 {
		return nil, fmt.Sprintf("group order %s exceeds orbit bound %d", g.Order, bound), nil
	}
	if !g.Integral {
		return nil, "linear maps are not integral", nil
	}
	for _, p := range g.GenPerms {
		for i, j := range p {
			if degree(grading, rays[i]).Cmp(degree(grading, rays[j])) != 0 {
				return nil, "group does not preserve the grading", nil
			}
		}
	}

	id := element{rays: identity(len(rays)), facets: identity(nFacets)}
	key := func(e element) string { return fmt.Sprint(e.rays, e.facets) }
	seen := map[string]bool{key(id): true}
	m := &orbitMerger{elems: []element{id}}
	for head := 0; head < len(m.elems); head++ {
		e := m.elems[head]
		for k := range g.GenPerms {
			n := element{
				rays:   automorph.Compose(g.GenPerms[k], e.rays),
				facets: automorph.Compose(g.FormPerms[k], e.facets),
			}
			if kk := key(n); !seen[kk] {
				seen[kk] = true
				m.elems = append(m.elems, n)
			}
		}
		if len(m.elems) > bound {
			return nil, fmt.Sprintf("more than %d group elements", bound), nil
		}
	}

	return m, "", nil
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}

	return p
}

func degree(grading, x []*big.Int) *big.Int {
	acc := new(big.Int)
	for i := range x {
		acc.Add(acc, new(big.Int).Mul(grading[i], x[i]))
	}

	return acc
}

// canonical returns the orbit representative of f with the smallest key.
func (m *orbitMerger) canonical(f face) face {
	best := f
	for _, e := range m.elems[1:] {
		key := bitset.New(f.key.Len())
		for _, j := range f.key.Indices() {
			key.Set(e.facets[j])
		}
		if !key.Less(best.key) {
			continue
		}
		rays := make([]int, len(f.rays))
		for k, r := range f.rays {
			rays[k] = e.rays[r]
		}
		sort.Ints(rays)
		best = face{rays: rays, key: key}
	}

	return best
}
