// SPDX-License-Identifier: MIT

package automorph

import (
	"context"
	"math/big"
	"sort"
)

// partition is an ordered partition of the vertex set. Cells are
// contiguous ranges of elems; end is only meaningful at cell starts.
type partition struct {
	elems  []int
	cellOf []int
	end    []int
}

func initialPartition(g *graph) *partition {
	p := &partition{elems: make([]int, g.n), cellOf: make([]int, g.n), end: make([]int, g.n)}
	for i := range p.elems {
		p.elems[i] = i
	}
	sort.SliceStable(p.elems, func(a, b int) bool { return g.color[p.elems[a]] < g.color[p.elems[b]] })
	for s := 0; s < g.n; {
		e := s + 1
		for e < g.n && g.color[p.elems[e]] == g.color[p.elems[s]] {
			e++
		}
		p.end[s] = e
		for i := s; i < e; i++ {
			p.cellOf[p.elems[i]] = s
		}
		s = e
	}

	return p
}

func (p *partition) clone() *partition {
	return &partition{
		elems:  append([]int(nil), p.elems...),
		cellOf: append([]int(nil), p.cellOf...),
		end:    append([]int(nil), p.end...),
	}
}

func (p *partition) discrete() bool {
	for s := 0; s < len(p.elems); s = p.end[s] {
		if p.end[s]-s > 1 {
			return false
		}
	}

	return true
}

// targetCell returns the vertices of the first non-singleton cell in
// ascending order.
func (p *partition) targetCell() []int {
	for s := 0; s < len(p.elems); s = p.end[s] {
		if p.end[s]-s > 1 {
			return sortedCopy(p.elems[s:p.end[s]])
		}
	}

	return nil
}

// with returns a copy of p with v split off in front of its cell.
func (p *partition) with(v int) *partition {
	q := p.clone()
	s := q.cellOf[v]
	e := q.end[s]
	for i := s; i < e; i++ {
		if q.elems[i] == v {
			q.elems[s], q.elems[i] = q.elems[i], q.elems[s]

			break
		}
	}
	q.end[s] = s + 1
	if e > s+1 {
		q.end[s+1] = e
		for i := s + 1; i < e; i++ {
			q.cellOf[q.elems[i]] = s + 1
		}
	}

	return q
}

// splitBy splits the cell [t, te) by the neighbor counts in cnt, smaller
// counts first.
func (p *partition) splitBy(t, te int, cnt []int) bool {
	if te-t < 2 {
		return false
	}
	c0 := cnt[p.elems[t]]
	uniform := true
	for i := t + 1; i < te; i++ {
		if cnt[p.elems[i]] != c0 {
			uniform = false

			break
		}
	}
	if uniform {
		return false
	}
	cell := p.elems[t:te]
	sort.SliceStable(cell, func(a, b int) bool { return cnt[cell[a]] < cnt[cell[b]] })
	for i := t; i < te; {
		j := i + 1
		for j < te && cnt[p.elems[j]] == cnt[p.elems[i]] {
			j++
		}
		p.end[i] = j
		for k := i; k < j; k++ {
			p.cellOf[p.elems[k]] = i
		}
		i = j
	}

	return true
}

// refine splits cells until every vertex of a cell has the same number of
// neighbors in every cell. Splitters and targets are taken in position
// order, so the result commutes with graph isomorphisms.
func (p *partition) refine(g *graph, cnt []int) {
	n := len(p.elems)
	for {
		split := false
		for s := 0; s < n && !split; s = p.end[s] {
			for i := range cnt {
				cnt[i] = 0
			}
			for i := s; i < p.end[s]; i++ {
				for _, u := range g.adj[p.elems[i]] {
					cnt[u]++
				}
			}
			for t := 0; t < n; {
				te := p.end[t]
				if p.splitBy(t, te, cnt) {
					split = true
				}
				t = te
			}
		}
		if !split {
			return
		}
	}
}

// certificate encodes the graph relabeled by the discrete partition p.
func certificate(g *graph, p *partition) []int {
	pos := make([]int, g.n)
	for i, v := range p.elems {
		pos[v] = i
	}
	out := make([]int, 0, 2*g.n)
	nb := make([]int, 0, 8)
	for _, v := range p.elems {
		out = append(out, g.color[v], len(g.adj[v]))
		nb = nb[:0]
		for _, u := range g.adj[v] {
			nb = append(nb, pos[u])
		}
		sort.Ints(nb)
		out = append(out, nb...)
	}

	return out
}

func compareInts(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}

			return 1
		}
	}

	return len(a) - len(b)
}

// searcher walks the individualization-refinement tree.
//
// The first leaf fixes the reference labeling. Along the first path every
// other vertex of the target cell is tried unless it is already known to
// lie in the orbit of a tried vertex under the automorphisms fixing the
// path prefix; a subtree stops as soon as it yields a leaf equivalent to
// the first one. The group order is the product of the orbit sizes of the
// first-path vertices in their prefix stabilizers. The canonical leaf is
// the one with the smallest certificate.
type searcher struct {
	ctx context.Context
	g   *graph
	cnt []int

	first, firstCert []int
	best, bestCert   []int
	autos            [][]int
	order            *big.Int
	nodes            int
}

func newSearcher(ctx context.Context, g *graph) *searcher {
	return &searcher{ctx: ctx, g: g, cnt: make([]int, g.n), order: big.NewInt(1)}
}

func (s *searcher) run() error {
	_, err := s.visit(initialPartition(s.g), nil, true)

	return err
}

func (s *searcher) visit(p *partition, prefix []int, firstPath bool) (bool, error) {
	s.nodes++
	if err := s.ctx.Err(); err != nil {
		return false, interrupted(err)
	}
	p.refine(s.g, s.cnt)
	if p.discrete() {
		return s.leaf(p), nil
	}
	cell := p.targetCell()
	if firstPath {
		w := cell[0]
		if _, err := s.visit(p.with(w), extend(prefix, w), true); err != nil {
			return false, err
		}
		tried := []int{w}
		for _, v := range cell[1:] {
			if s.knownEquivalent(prefix, v, tried) {
				continue
			}
			tried = append(tried, v)
			if _, err := s.visit(p.with(v), extend(prefix, v), false); err != nil {
				return false, err
			}
		}
		s.order.Mul(s.order, big.NewInt(int64(s.orbitSize(prefix, w))))

		return true, nil
	}
	var tried []int
	for _, v := range cell {
		if s.knownEquivalent(prefix, v, tried) {
			continue
		}
		tried = append(tried, v)
		found, err := s.visit(p.with(v), extend(prefix, v), false)
		if err != nil || found {
			return found, err
		}
	}

	return false, nil
}

func extend(prefix []int, v int) []int {
	out := make([]int, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = v

	return out
}

// leaf reports whether the leaf is equivalent to the first leaf.
func (s *searcher) leaf(p *partition) bool {
	lab := append([]int(nil), p.elems...)
	cert := certificate(s.g, p)
	if s.first == nil {
		s.first, s.firstCert = lab, cert
		s.best, s.bestCert = lab, cert

		return true
	}
	if compareInts(cert, s.firstCert) == 0 {
		s.addAuto(s.first, lab)

		return true
	}
	switch c := compareInts(cert, s.bestCert); {
	case c == 0:
		s.addAuto(s.best, lab)
	case c < 0:
		s.best, s.bestCert = lab, cert
	}

	return false
}

// addAuto records the automorphism mapping labeling from onto labeling to.
func (s *searcher) addAuto(from, to []int) {
	perm := make([]int, len(from))
	for i, v := range from {
		perm[v] = to[i]
	}
	if !isIdentity(perm) {
		s.autos = append(s.autos, perm)
	}
}

// stabilizerOrbits joins the orbits of the automorphisms found so far that
// fix prefix pointwise.
func (s *searcher) stabilizerOrbits(prefix []int) unionFind {
	u := newUnionFind(s.g.n)
	for _, a := range s.autos {
		fixes := true
		for _, v := range prefix {
			if a[v] != v {
				fixes = false

				break
			}
		}
		if !fixes {
			continue
		}
		for i, j := range a {
			u.union(i, j)
		}
	}

	return u
}

func (s *searcher) knownEquivalent(prefix []int, v int, tried []int) bool {
	if len(tried) == 0 {
		return false
	}
	u := s.stabilizerOrbits(prefix)
	rv := u.find(v)
	for _, t := range tried {
		if u.find(t) == rv {
			return true
		}
	}

	return false
}

func (s *searcher) orbitSize(prefix []int, w int) int {
	u := s.stabilizerOrbits(prefix)
	rw := u.find(w)
	size := 0
	for v := 0; v < s.g.n; v++ {
		if u.find(v) == rw {
			size++
		}
	}

	return size
}
