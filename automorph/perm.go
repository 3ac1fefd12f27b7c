// SPDX-License-Identifier: MIT

package automorph

import (
	"sort"

	"github.com/polymake/polymake-sub008/bitset"
)

// unionFind is a plain disjoint-set forest with path halving.
type unionFind []int

func newUnionFind(n int) unionFind {
	u := make(unionFind, n)
	for i := range u {
		u[i] = i
	}

	return u
}

func (u unionFind) find(x int) int {
	for u[x] != x {
		u[x] = u[u[x]]
		x = u[x]
	}

	return x
}

func (u unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u[rb] = ra
	} else {
		u[ra] = rb
	}
}

// Orbits returns the orbits of the group generated by perms on 0..n-1.
// Each orbit is sorted and orbits are ordered by their smallest element.
func Orbits(perms [][]int, n int) [][]int {
	u := newUnionFind(n)
	for _, p := range perms {
		for i, j := range p {
			u.union(i, j)
		}
	}
	byRoot := make(map[int]int)
	var out [][]int
	for i := 0; i < n; i++ {
		r := u.find(i)
		k, ok := byRoot[r]
		if !ok {
			k = len(out)
			byRoot[r] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], i)
	}

	return out
}

// CycleDecomposition returns the cycles of perm of length at least two,
// each starting at its smallest element, ordered by that element.
func CycleDecomposition(perm []int) [][]int {
	seen := make([]bool, len(perm))
	var out [][]int
	for i := range perm {
		if seen[i] || perm[i] == i {
			continue
		}
		var c []int
		for j := i; !seen[j]; j = perm[j] {
			seen[j] = true
			c = append(c, j)
		}
		out = append(out, c)
	}

	return out
}

// Compose returns p∘q, the permutation applying q first: (p∘q)[i] = p[q[i]].
func Compose(p, q []int) []int {
	out := make([]int, len(q))
	for i, j := range q {
		out[i] = p[j]
	}

	return out
}

// Inverse returns the inverse permutation of p.
func Inverse(p []int) []int {
	out := make([]int, len(p))
	for i, j := range p {
		out[j] = i
	}

	return out
}

func isIdentity(p []int) bool {
	for i, j := range p {
		if i != j {
			return false
		}
	}

	return true
}

// IsAutomorphism reports whether relabeling generators by genPerm maps the
// family of incidence sets (one per form, bit i set when generator i lies
// on the form) onto itself.
func IsAutomorphism(incidence []bitset.Set, genPerm []int) bool {
	have := make(map[string]int, len(incidence))
	for _, s := range incidence {
		have[s.Key()]++
	}
	for _, s := range incidence {
		if s.Len() != len(genPerm) {
			return false
		}
		img := bitset.New(s.Len())
		for _, i := range s.Indices() {
			img.Set(genPerm[i])
		}
		k := img.Key()
		if have[k] == 0 {
			return false
		}
		have[k]--
	}

	return true
}

func sortedCopy(xs []int) []int {
	out := append([]int(nil), xs...)
	sort.Ints(out)

	return out
}
