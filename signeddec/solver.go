// SPDX-License-Identifier: MIT

package signeddec

import (
	"math/big"
)

// solver keeps M⁻¹ for M with rows ω, λ_{forms[0]}, …, λ_{forms[d-2]}.
// cols[k] is column k of M⁻¹, so row k of M is 1 on it and the other
// rows vanish on it.
type solver struct {
	forms  [][]*big.Rat // all support forms
	omega  []*big.Rat
	cur    []int // form index per row 1..d-1
	cols   [][]*big.Rat
	det    *big.Rat
	full   int
	update int
}

func newSolver(forms [][]*big.Rat, omega []*big.Rat) *solver {
	return &solver{forms: forms, omega: omega}
}

func ratDot(a, b []*big.Rat) *big.Rat {
	acc := new(big.Rat)
	t := new(big.Rat)
	for i := range a {
		acc.Add(acc, t.Mul(a[i], b[i]))
	}

	return acc
}

// first inverts M from scratch by Gauss-Jordan elimination. It returns
// false if M is singular.
func (s *solver) first(sub []int) bool {
	s.full++
	d := len(s.omega)
	rows := make([][]*big.Rat, d)
	rows[0] = s.omega
	for i, f := range sub {
		rows[i+1] = s.forms[f]
	}
	aug := make([][]*big.Rat, d)
	for i := range aug {
		aug[i] = make([]*big.Rat, 2*d)
		for j := 0; j < d; j++ {
			aug[i][j] = new(big.Rat).Set(rows[i][j])
			aug[i][d+j] = new(big.Rat)
		}
		aug[i][d+i].SetInt64(1)
	}
	det := big.NewRat(1, 1)
	t := new(big.Rat)
	for c := 0; c < d; c++ {
		p := -1
		for r := c; r < d; r++ {
			if aug[r][c].Sign() != 0 {
				p = r

				break
			}
		}
		if p < 0 {
			return false
		}
		if p != c {
			aug[p], aug[c] = aug[c], aug[p]
			det.Neg(det)
		}
		piv := new(big.Rat).Set(aug[c][c])
		det.Mul(det, piv)
		inv := new(big.Rat).Inv(piv)
		for j := range aug[c] {
			aug[c][j].Mul(aug[c][j], inv)
		}
		for r := 0; r < d; r++ {
			if r == c || aug[r][c].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(aug[r][c])
			for j := range aug[r] {
				aug[r][j].Sub(aug[r][j], t.Mul(f, aug[c][j]))
			}
		}
	}
	s.cols = make([][]*big.Rat, d)
	for k := 0; k < d; k++ {
		s.cols[k] = make([]*big.Rat, d)
		for i := 0; i < d; i++ {
			s.cols[k][i] = aug[i][d+k]
		}
	}
	s.det = det
	s.cur = append(s.cur[:0], sub...)

	return true
}

// replace swaps form dropped for form added in place, updating M⁻¹ by a
// rank-one correction. It returns false if the result would be singular.
func (s *solver) replace(dropped, added int) bool {
	r := -1
	for i, f := range s.cur {
		if f == dropped {
			r = i + 1

			break
		}
	}
	if r < 0 {
		return false
	}
	a := s.forms[added]
	scale := ratDot(a, s.cols[r])
	if scale.Sign() == 0 {
		return false
	}
	s.update++
	nr := make([]*big.Rat, len(s.cols[r]))
	for i, x := range s.cols[r] {
		nr[i] = new(big.Rat).Quo(x, scale)
	}
	t := new(big.Rat)
	for k := range s.cols {
		if k == r {
			continue
		}
		c := ratDot(a, s.cols[k])
		if c.Sign() == 0 {
			continue
		}
		for i := range s.cols[k] {
			s.cols[k][i].Sub(s.cols[k][i], t.Mul(c, nr[i]))
		}
	}
	s.cols[r] = nr
	s.det.Mul(s.det, scale)
	s.cur[r-1] = added

	return true
}

// term returns 1 / (|det M| · ∏ γ(n_k)), or errDegenerate if some γ(n_k)
// vanishes.
func (s *solver) term(grading []*big.Rat) (*big.Rat, error) {
	den := new(big.Rat).Abs(s.det)
	for _, c := range s.cols {
		g := ratDot(grading, c)
		if g.Sign() == 0 {
			return nil, errDegenerate
		}
		den.Mul(den, g)
	}

	return new(big.Rat).Inv(den), nil
}
