// SPDX-License-Identifier: MIT

package automorph

import (
	"math/big"

	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// LinearMap is the matrix A/Denom with g_σ(i) = g_i·A/Denom for every
// generator (row vectors). Denom is positive and coprime to the content
// of A.
type LinearMap struct {
	Matrix [][]*big.Int
	Denom  *big.Int
}

// Apply maps the row vector x.
func (m LinearMap) Apply(x []*big.Int) []*big.Rat {
	out := make([]*big.Rat, len(m.Matrix[0]))
	for j := range out {
		acc := new(big.Int)
		for i, xi := range x {
			acc.Add(acc, new(big.Int).Mul(xi, m.Matrix[i][j]))
		}
		out[j] = new(big.Rat).SetFrac(acc, m.Denom)
	}

	return out
}

// IsIntegral reports whether the map has an integer matrix.
func (m LinearMap) IsIntegral() bool { return m.Denom.Cmp(big.NewInt(1)) == 0 }

// linearMaps returns one map per generator permutation, or nil when some
// permutation is not induced by a linear map or gens lack full rank.
func linearMaps(gens [][]*big.Int, perms [][]int) ([]LinearMap, error) {
	if len(gens) == 0 {
		return nil, nil
	}
	d := len(gens[0])
	rows, ok := num.FromBigMatrix[num.BigInt](gens)
	if !ok {
		return nil, nil
	}
	dense, err := matrix.FromRows(d, rows)
	if err != nil {
		return nil, err
	}
	basis, err := matrix.MaxRankRows(dense, nil)
	if err != nil {
		return nil, err
	}
	if len(basis) < d {
		return nil, nil
	}
	sel, err := dense.Select(basis)
	if err != nil {
		return nil, err
	}
	adj, det, err := matrix.Invert(sel)
	if err != nil {
		return nil, err
	}
	adjRows := num.BigMatrix(adj.ToRows())
	detBig := det.Big()

	out := make([]LinearMap, 0, len(perms))
	for _, p := range perms {
		// A·det = adj · B_σ, where B_σ holds the images of the basis rows.
		a := make([][]*big.Int, d)
		for i := 0; i < d; i++ {
			a[i] = make([]*big.Int, d)
			for j := 0; j < d; j++ {
				acc := new(big.Int)
				for k, b := range basis {
					acc.Add(acc, new(big.Int).Mul(adjRows[i][k], gens[p[b]][j]))
				}
				a[i][j] = acc
			}
		}
		if !maps(gens, p, a, detBig) {
			return nil, nil
		}
		out = append(out, reduceMap(a, detBig))
	}

	return out, nil
}

// maps checks g_i·a == den·g_p(i) for every generator.
func maps(gens [][]*big.Int, p []int, a [][]*big.Int, den *big.Int) bool {
	d := len(a)
	for i, g := range gens {
		for j := 0; j < d; j++ {
			acc := new(big.Int)
			for k := 0; k < d; k++ {
				acc.Add(acc, new(big.Int).Mul(g[k], a[k][j]))
			}
			if acc.Cmp(new(big.Int).Mul(den, gens[p[i]][j])) != 0 {
				return false
			}
		}
	}

	return true
}

func reduceMap(a [][]*big.Int, den *big.Int) LinearMap {
	g := new(big.Int).Abs(den)
	for _, row := range a {
		for _, x := range row {
			g.GCD(nil, nil, g, new(big.Int).Abs(x))
		}
	}
	if den.Sign() < 0 {
		g.Neg(g)
	}
	m := LinearMap{Matrix: make([][]*big.Int, len(a)), Denom: new(big.Int).Quo(den, g)}
	for i, row := range a {
		m.Matrix[i] = make([]*big.Int, len(row))
		for j, x := range row {
			m.Matrix[i][j] = new(big.Int).Quo(x, g)
		}
	}

	return m
}
