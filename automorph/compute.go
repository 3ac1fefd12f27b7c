// SPDX-License-Identifier: MIT

package automorph

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// Group is the automorphism group found by Compute.
//
// GenPerms and FormPerms are parallel: entry k of both describes the same
// group element. Order is exact. LinearMaps (parallel to GenPerms) is set
// for Rational and Euclidean quality when the generators have full rank and
// every permutation is induced by a linear map.
type Group struct {
	Quality           Quality
	GenPerms          [][]int
	FormPerms         [][]int
	GenOrbits         [][]int
	FormOrbits        [][]int
	Order             *big.Int
	CanonicalLabeling Labeling
	CanonicalType     *CanonicalType
	LinearMaps        []LinearMap
	Integral          bool
	Nodes             int
}

// IsTrivial reports whether the group has order 1.
func (g *Group) IsTrivial() bool { return g.Order.Cmp(big.NewInt(1)) == 0 }

// Compute returns the automorphisms of gens paired with forms that preserve
// the structure selected by q and the coloring given by opts.
//
// Implementation:
//   - Stage 1: compute the pairing values for q and index them by value.
//   - Stage 2: encode the index matrix as a layered colored graph.
//   - Stage 3: run the refinement search; translate the vertex
//     permutations back to generator and form permutations.
//   - Stage 4: for Rational and Euclidean quality derive the linear maps.
//
// Errors:
//   - ErrBadInput, ErrNoForms, ErrOptionViolation.
//   - ErrInterrupted when ctx is cancelled during the search.
func Compute[T num.Integer[T]](ctx context.Context, gens, forms [][]T, q Quality, opts ...Option) (*Group, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, err
	}
	if len(gens) == 0 {
		return nil, badInput("no generators")
	}
	dim := len(gens[0])
	if err := matrix.ValidateRows(dim, gens); err != nil {
		return nil, badInput("generators: %v", err)
	}
	if err := matrix.ValidateRows(dim, forms); err != nil {
		return nil, badInput("forms: %v", err)
	}
	genClass, err := classes(len(gens), o.GeneratorColors, o.FixedGenerators, "generator")
	if err != nil {
		return nil, err
	}
	formClass, err := classes(len(forms), o.FormColors, o.FixedForms, "form")
	if err != nil {
		return nil, err
	}

	bg, bf := num.BigMatrix(gens), num.BigMatrix(forms)
	vm, err := pairing(bg, bf, q)
	if err != nil {
		return nil, err
	}
	s := newSearcher(ctx, vm.encode(genClass, formClass))
	if err := s.run(); err != nil {
		return nil, err
	}

	grp := &Group{Quality: q, Order: s.order, Nodes: s.nodes}
	seen := make(map[string]struct{})
	for _, a := range s.autos {
		gp := make([]int, vm.rows)
		for i := range gp {
			gp[i] = a[vm.genVertex(i, 0)]
		}
		fp := make([]int, vm.cols)
		for j := range fp {
			fp[j] = a[vm.formVertex(j, 0)] - vm.rows
		}
		k := permKey(gp, fp)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		grp.GenPerms = append(grp.GenPerms, gp)
		grp.FormPerms = append(grp.FormPerms, fp)
	}
	grp.GenOrbits = Orbits(grp.GenPerms, vm.rows)
	grp.FormOrbits = Orbits(grp.FormPerms, vm.cols)
	for _, v := range s.best {
		switch {
		case v < vm.rows:
			grp.CanonicalLabeling.Generators = append(grp.CanonicalLabeling.Generators, v)
		case v < vm.rows+vm.cols:
			grp.CanonicalLabeling.Forms = append(grp.CanonicalLabeling.Forms, v-vm.rows)
		}
	}
	grp.CanonicalType = newCanonicalType(q, vm, grp.CanonicalLabeling, genClass, formClass)

	if q != Combinatorial {
		maps, err := linearMaps(bg, grp.GenPerms)
		if err != nil {
			return nil, err
		}
		grp.LinearMaps = maps
		grp.Integral = maps != nil || len(grp.GenPerms) == 0
		for _, m := range maps {
			if !m.IsIntegral() {
				grp.Integral = false
			}
		}
	}
	o.Logger.Debug("automorphisms computed",
		zap.Stringer("quality", q),
		zap.Int("generators", len(gens)),
		zap.Int("forms", len(forms)),
		zap.String("order", grp.Order.String()),
		zap.Int("nodes", s.nodes))

	return grp, nil
}

// classes merges colors and fixed indices into one class id per element.
func classes(n int, colors, fixed []int, what string) ([]int, error) {
	if colors != nil && len(colors) != n {
		return nil, badInput("%d %s colors for %d elements", len(colors), what, n)
	}
	out := make([]int, n)
	top := 0
	for i := range out {
		if colors != nil {
			out[i] = colors[i]
		}
		if out[i] >= top {
			top = out[i] + 1
		}
	}
	fixed = sortedCopy(fixed)
	for k, i := range fixed {
		if i < 0 || i >= n {
			return nil, badInput("fixed %s %d out of range", what, i)
		}
		out[i] = top + k
	}

	return out, nil
}

func permKey(gp, fp []int) string {
	b := make([]byte, 0, 4*(len(gp)+len(fp)))
	for _, x := range gp {
		b = append(b, byte(x>>24), byte(x>>16), byte(x>>8), byte(x))
	}
	for _, x := range fp {
		b = append(b, byte(x>>24), byte(x>>16), byte(x>>8), byte(x))
	}

	return string(b)
}

// pairing computes the raw values for q and indexes them.
func pairing(gens, forms [][]*big.Int, q Quality) (*valueMatrix, error) {
	var cross, self [][]*big.Int
	switch q {
	case Combinatorial:
		if len(forms) == 0 {
			return nil, ErrNoForms
		}
		cross = incidence(gens, forms)
	case Rational:
		if len(forms) > 0 {
			cross = table(gens, forms, dot)
		} else {
			g, err := gramForms(gens)
			if err != nil {
				return nil, err
			}
			self = table(gens, g, dot)
		}
	case Euclidean:
		self = table(gens, gens, squaredDistance)
		if len(forms) > 0 {
			cross = incidence(gens, forms)
		}
	default:
		return nil, badInput("unknown quality %d", q)
	}
	vm := indexValues(cross, self)
	if cross == nil {
		vm.rows, vm.cols = len(gens), 0
	}

	return vm, nil
}

func dot(a, b []*big.Int) *big.Int {
	acc := new(big.Int)
	for i := range a {
		acc.Add(acc, new(big.Int).Mul(a[i], b[i]))
	}

	return acc
}

func squaredDistance(a, b []*big.Int) *big.Int {
	acc := new(big.Int)
	for i := range a {
		d := new(big.Int).Sub(a[i], b[i])
		acc.Add(acc, d.Mul(d, d))
	}

	return acc
}

func table(rows, cols [][]*big.Int, f func(a, b []*big.Int) *big.Int) [][]*big.Int {
	out := make([][]*big.Int, len(rows))
	for i, r := range rows {
		out[i] = make([]*big.Int, len(cols))
		for j, c := range cols {
			out[i][j] = f(r, c)
		}
	}

	return out
}

// incidence is 1 where the pairing vanishes and 0 elsewhere.
func incidence(gens, forms [][]*big.Int) [][]*big.Int {
	return table(gens, forms, func(a, b []*big.Int) *big.Int {
		if dot(a, b).Sign() == 0 {
			return big.NewInt(1)
		}

		return big.NewInt(0)
	})
}

// gramForms returns g_i·adj(GᵀG) for every generator.
func gramForms(gens [][]*big.Int) ([][]*big.Int, error) {
	d := len(gens[0])
	gram := make([][]*big.Int, d)
	for i := 0; i < d; i++ {
		gram[i] = make([]*big.Int, d)
		for j := 0; j < d; j++ {
			acc := new(big.Int)
			for _, g := range gens {
				acc.Add(acc, new(big.Int).Mul(g[i], g[j]))
			}
			gram[i][j] = acc
		}
	}
	rows, _ := num.FromBigMatrix[num.BigInt](gram)
	m, err := matrix.FromRows(d, rows)
	if err != nil {
		return nil, err
	}
	adj, _, err := matrix.Invert(m)
	if err != nil {
		return nil, badInput("rational quality without forms needs full-rank generators: %v", err)
	}
	a := num.BigMatrix(adj.ToRows())
	out := make([][]*big.Int, len(gens))
	for k, g := range gens {
		out[k] = make([]*big.Int, d)
		for j := 0; j < d; j++ {
			acc := new(big.Int)
			for i := 0; i < d; i++ {
				acc.Add(acc, new(big.Int).Mul(g[i], a[i][j]))
			}
			out[k][j] = acc
		}
	}

	return out, nil
}
