// SPDX-License-Identifier: MIT
// Package matrix: LLL lattice reduction.
//
// Purpose:
//   - Shorten sublattice bases before they are used as coordinate systems, so
//     that generator coordinates stay inside the fixed-width range as long as
//     possible.
//
// Notes:
//   - Gram–Schmidt data is kept in math/big.Rat and recomputed after each
//     size-reduction or swap. The inputs here are small bases (rank ≤ a few
//     dozen), so clarity beats the incremental update formulas.

package matrix

import (
	"math/big"
)

// gramSchmidt returns μ and the squared norms |b*_i|² of the Gram–Schmidt
// orthogonalization of b.
func gramSchmidt(b [][]*big.Int) ([][]*big.Rat, []*big.Rat) {
	n := len(b)
	d := 0
	if n > 0 {
		d = len(b[0])
	}
	star := make([][]*big.Rat, n)
	mu := make([][]*big.Rat, n)
	norm := make([]*big.Rat, n)
	for i := 0; i < n; i++ {
		star[i] = make([]*big.Rat, d)
		for k := 0; k < d; k++ {
			star[i][k] = new(big.Rat).SetInt(b[i][k])
		}
		mu[i] = make([]*big.Rat, n)
		for j := 0; j < i; j++ {
			dot := new(big.Rat)
			for k := 0; k < d; k++ {
				dot.Add(dot, new(big.Rat).Mul(new(big.Rat).SetInt(b[i][k]), star[j][k]))
			}
			mu[i][j] = new(big.Rat)
			if norm[j].Sign() != 0 {
				mu[i][j].Quo(dot, norm[j])
			}
			for k := 0; k < d; k++ {
				star[i][k].Sub(star[i][k], new(big.Rat).Mul(mu[i][j], star[j][k]))
			}
		}
		norm[i] = new(big.Rat)
		for k := 0; k < d; k++ {
			norm[i].Add(norm[i], new(big.Rat).Mul(star[i][k], star[i][k]))
		}
	}

	return mu, norm
}

// roundRat returns the integer nearest to x (halves round up).
func roundRat(x *big.Rat) *big.Int {
	num := new(big.Int).Mul(x.Num(), big.NewInt(2))
	num.Add(num, x.Denom())
	den := new(big.Int).Mul(x.Denom(), big.NewInt(2))

	return num.Div(num, den)
}

// LLL reduces the linearly independent rows of basis (Lovász constant from
// WithLLLDelta, default 3/4). It returns the reduced rows and the unimodular transform T with
// reduced = T·basis.
//
// Errors:
//   - ErrNotFullRank if the rows are dependent.
func LLL(basis [][]*big.Int, opts ...Option) ([][]*big.Int, [][]*big.Int, error) {
	o := gatherOptions(opts...)
	n := len(basis)
	b := make([][]*big.Int, n)
	t := make([][]*big.Int, n)
	for i := range basis {
		b[i] = make([]*big.Int, len(basis[i]))
		for k, x := range basis[i] {
			b[i][k] = new(big.Int).Set(x)
		}
		t[i] = make([]*big.Int, n)
		for k := range t[i] {
			t[i][k] = new(big.Int)
		}
		t[i][i].SetInt64(1)
	}
	mu, norm := gramSchmidt(b)
	for _, x := range norm {
		if x.Sign() == 0 {
			return nil, nil, matrixErrorf(opLLL, ErrNotFullRank)
		}
	}
	delta := o.delta
	sub := func(rows [][]*big.Int, k, j int, q *big.Int) {
		for c := range rows[k] {
			rows[k][c].Sub(rows[k][c], new(big.Int).Mul(q, rows[j][c]))
		}
	}
	for k := 1; k < n; {
		for j := k - 1; j >= 0; j-- {
			q := roundRat(mu[k][j])
			if q.Sign() == 0 {
				continue
			}
			sub(b, k, j, q)
			sub(t, k, j, q)
			mu, norm = gramSchmidt(b)
		}
		// Lovász condition: |b*_k|² ≥ (δ − μ²)|b*_{k-1}|²
		lhs := new(big.Rat).Set(norm[k])
		m2 := new(big.Rat).Mul(mu[k][k-1], mu[k][k-1])
		rhs := new(big.Rat).Mul(new(big.Rat).Sub(delta, m2), norm[k-1])
		if lhs.Cmp(rhs) >= 0 {
			k++

			continue
		}
		b[k], b[k-1] = b[k-1], b[k]
		t[k], t[k-1] = t[k-1], t[k]
		mu, norm = gramSchmidt(b)
		if k > 1 {
			k--
		}
	}

	return b, t, nil
}
