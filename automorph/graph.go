// SPDX-License-Identifier: MIT

package automorph

import (
	"math/big"
	"math/bits"
	"sort"
)

// valueMatrix is the indexed form of the pairing data.
//
// cross holds generator × form indices and self generator × generator
// indices; either may be nil. values[k] is the pairing value of index k.
type valueMatrix struct {
	rows, cols int
	values     []*big.Int
	cross      [][]int
	self       [][]int
}

// indexValues replaces raw values by their rank among the distinct values.
func indexValues(cross, self [][]*big.Int) *valueMatrix {
	distinct := make(map[string]*big.Int)
	collect := func(m [][]*big.Int) {
		for _, row := range m {
			for _, v := range row {
				distinct[v.String()] = v
			}
		}
	}
	collect(cross)
	collect(self)
	vals := make([]*big.Int, 0, len(distinct))
	for _, v := range distinct {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].Cmp(vals[j]) < 0 })
	rank := make(map[string]int, len(vals))
	for i, v := range vals {
		rank[v.String()] = i
	}
	index := func(m [][]*big.Int) [][]int {
		if m == nil {
			return nil
		}
		out := make([][]int, len(m))
		for i, row := range m {
			out[i] = make([]int, len(row))
			for j, v := range row {
				out[i][j] = rank[v.String()]
			}
		}

		return out
	}
	vm := &valueMatrix{values: vals, cross: index(cross), self: index(self)}
	switch {
	case cross != nil:
		vm.rows = len(cross)
		if vm.rows > 0 {
			vm.cols = len(cross[0])
		}
	case self != nil:
		vm.rows = len(self)
	}

	return vm
}

// layers returns the number of bit planes needed for the largest index.
func (vm *valueMatrix) layers() int {
	if len(vm.values) <= 2 {
		return 1
	}

	return bits.Len(uint(len(vm.values) - 1))
}

// graph is an undirected vertex-colored graph with sorted adjacency lists.
// Vertices are dense ints and colors drive the partition refinement, which a
// string-keyed weighted graph type cannot carry.
type graph struct {
	n     int
	color []int
	adj   [][]int
}

func (g *graph) addEdge(a, b int) {
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
}

// vertex numbering: layer ℓ occupies [ℓ·(rows+cols), (ℓ+1)·(rows+cols)),
// generators first.
func (vm *valueMatrix) genVertex(i, layer int) int  { return layer*(vm.rows+vm.cols) + i }
func (vm *valueMatrix) formVertex(j, layer int) int { return layer*(vm.rows+vm.cols) + vm.rows + j }

// encode builds the layered graph. genClass and formClass carry the
// coloring constraints; vertices are colored by (side, class, layer, self
// diagonal index).
func (vm *valueMatrix) encode(genClass, formClass []int) *graph {
	nl := vm.layers()
	n := nl * (vm.rows + vm.cols)
	g := &graph{n: n, color: make([]int, n), adj: make([][]int, n)}

	type colorKey [4]int
	keys := make([]colorKey, n)
	for l := 0; l < nl; l++ {
		for i := 0; i < vm.rows; i++ {
			diag := -1
			if vm.self != nil {
				diag = vm.self[i][i]
			}
			keys[vm.genVertex(i, l)] = colorKey{0, genClass[i], l, diag}
			if l+1 < nl {
				g.addEdge(vm.genVertex(i, l), vm.genVertex(i, l+1))
			}
		}
		for j := 0; j < vm.cols; j++ {
			keys[vm.formVertex(j, l)] = colorKey{1, formClass[j], l, -1}
			if l+1 < nl {
				g.addEdge(vm.formVertex(j, l), vm.formVertex(j, l+1))
			}
		}
		for i := 0; i < vm.rows; i++ {
			for j := 0; j < vm.cols; j++ {
				if vm.cross[i][j]>>l&1 == 1 {
					g.addEdge(vm.genVertex(i, l), vm.formVertex(j, l))
				}
			}
			if vm.self == nil {
				continue
			}
			for j := i + 1; j < vm.rows; j++ {
				if vm.self[i][j]>>l&1 == 1 {
					g.addEdge(vm.genVertex(i, l), vm.genVertex(j, l))
				}
			}
		}
	}

	distinct := append([]colorKey(nil), keys...)
	sort.Slice(distinct, func(a, b int) bool {
		for k := 0; k < 4; k++ {
			if distinct[a][k] != distinct[b][k] {
				return distinct[a][k] < distinct[b][k]
			}
		}

		return false
	})
	ids := make(map[colorKey]int)
	for _, k := range distinct {
		if _, ok := ids[k]; !ok {
			ids[k] = len(ids)
		}
	}
	for v, k := range keys {
		g.color[v] = ids[k]
	}
	for v := range g.adj {
		sort.Ints(g.adj[v])
	}

	return g
}
