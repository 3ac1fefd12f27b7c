// SPDX-License-Identifier: MIT

package automorph_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/polymake/polymake-sub008/automorph"
	"github.com/polymake/polymake-sub008/bitset"
	"github.com/polymake/polymake-sub008/num"
)

type ComputeSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ComputeSuite) SetupTest() { s.ctx = context.Background() }

func TestComputeSuite(t *testing.T) {
	suite.Run(t, new(ComputeSuite))
}

func (s *ComputeSuite) compute(gens, forms [][]int64, q automorph.Quality, opts ...automorph.Option) *automorph.Group {
	t := s.T()
	var f [][]num.Int64
	if forms != nil {
		f = rows64(t, forms)
	}
	g, err := automorph.Compute(s.ctx, rows64(t, gens), f, q, opts...)
	s.Require().NoError(err)

	return g
}

func (s *ComputeSuite) TestIdentityInterchangeable() {
	for _, q := range []automorph.Quality{automorph.Combinatorial, automorph.Rational} {
		g := s.compute(identityGens, identityGens, q)
		s.Equal(int64(6), g.Order.Int64(), q.String())
		s.Equal([][]int{{0, 1, 2}}, g.GenOrbits)
		s.Equal([][]int{{0, 1, 2}}, g.FormOrbits)
	}
	g := s.compute(identityGens, nil, automorph.Rational)
	s.Equal(int64(6), g.Order.Int64())
	s.True(g.Integral)
	s.Len(g.LinearMaps, len(g.GenPerms))
}

func (s *ComputeSuite) TestIdentityDistinguished() {
	g := s.compute(identityGens, identityGens, automorph.Combinatorial,
		automorph.WithGeneratorColors([]int{0, 1, 2}))
	s.True(g.IsTrivial())
	s.Empty(g.GenPerms)
	s.Equal([][]int{{0}, {1}, {2}}, g.GenOrbits)

	g = s.compute(identityGens, identityGens, automorph.Combinatorial, automorph.WithFixedGenerators(0))
	s.Equal(int64(2), g.Order.Int64())
	s.Equal([][]int{{0}, {1, 2}}, g.GenOrbits)

	g = s.compute(identityGens, identityGens, automorph.Combinatorial, automorph.WithFixedForms(2))
	s.Equal(int64(2), g.Order.Int64())
	s.Equal([][]int{{0, 1}, {2}}, g.FormOrbits)

	g = s.compute(identityGens, identityGens, automorph.Combinatorial,
		automorph.WithFormColors([]int{5, 5, 7}))
	s.Equal(int64(2), g.Order.Int64())
}

func (s *ComputeSuite) TestQualities() {
	tests := []struct {
		q    automorph.Quality
		want int64
	}{
		{automorph.Combinatorial, 6},
		{automorph.Rational, 2},
		{automorph.Euclidean, 1},
	}
	for _, tt := range tests {
		g := s.compute(triangleGens, triangleForms, tt.q)
		s.Equal(tt.want, g.Order.Int64(), tt.q.String())
	}
	g := s.compute(triangleGens, triangleForms, automorph.Rational)
	s.Require().Len(g.GenPerms, 1)
	s.Equal([]int{2, 1, 0}, g.GenPerms[0])
	s.Equal([]int{2, 1, 0}, g.FormPerms[0])
	s.True(g.Integral)
}

func (s *ComputeSuite) TestPolytopes() {
	tests := []struct {
		name        string
		gens, forms [][]int64
		want        int64
	}{
		{"square", squareGens, squareForms, 8},
		{"cube", cubeGens, cubeForms, 48},
	}
	for _, tt := range tests {
		for _, q := range []automorph.Quality{automorph.Combinatorial, automorph.Rational, automorph.Euclidean} {
			g := s.compute(tt.gens, tt.forms, q)
			s.Equal(tt.want, g.Order.Int64(), "%s %s", tt.name, q)
			s.Equal(int(tt.want), closure(g.GenPerms, len(tt.gens)), "%s %s closure", tt.name, q)
			s.Len(g.GenOrbits, 1)
		}
	}
}

func (s *ComputeSuite) TestPermutationsPreserveIncidence() {
	t := s.T()
	gens, forms := rows64(t, cubeGens), rows64(t, cubeForms)
	inc := incidence(t, gens, forms)
	g := s.compute(cubeGens, cubeForms, automorph.Combinatorial)
	s.Require().NotEmpty(g.GenPerms)
	for k, gp := range g.GenPerms {
		s.True(automorph.IsAutomorphism(inc, gp))
		fp := g.FormPerms[k]
		for i := range gens {
			for j := range forms {
				s.Equal(inc[j].Test(i), inc[fp[j]].Test(gp[i]))
			}
		}
		for _, hp := range g.GenPerms {
			s.True(automorph.IsAutomorphism(inc, automorph.Compose(gp, hp)))
		}
	}
	s.False(automorph.IsAutomorphism(inc, []int{1, 0, 2, 3, 4, 5, 6, 7}))
}

func (s *ComputeSuite) TestLinearMaps() {
	gens := rows64(s.T(), squareGens)
	g := s.compute(squareGens, squareForms, automorph.Rational)
	s.Require().Len(g.LinearMaps, len(g.GenPerms))
	s.True(g.Integral)
	for k, m := range g.LinearMaps {
		s.True(m.IsIntegral())
		for i, row := range gens {
			img := m.Apply(num.BigVector(row))
			want := num.BigVector(gens[g.GenPerms[k][i]])
			for j := range img {
				s.Zero(img[j].Cmp(new(big.Rat).SetInt(want[j])))
			}
		}
	}
	comb := s.compute(squareGens, squareForms, automorph.Combinatorial)
	s.Nil(comb.LinearMaps)
}

func (s *ComputeSuite) TestCanonicalType() {
	a := s.compute(squareGens, squareForms, automorph.Rational)
	// Same square with generators and forms listed in another order.
	b := s.compute(
		[][]int64{{1, 1, 1}, {1, 0, 0}, {1, 1, 0}, {1, 0, 1}},
		[][]int64{{1, 0, -1}, {0, 1, 0}, {0, 0, 1}, {1, -1, 0}},
		automorph.Rational)
	s.True(a.CanonicalType.Equal(b.CanonicalType))
	s.Equal(a.CanonicalType.Fingerprint(), b.CanonicalType.Fingerprint())
	s.ElementsMatch([]int{0, 1, 2, 3}, a.CanonicalLabeling.Generators)
	s.ElementsMatch([]int{0, 1, 2, 3}, a.CanonicalLabeling.Forms)

	c := s.compute(triangleGens, triangleForms, automorph.Rational)
	s.False(a.CanonicalType.Equal(c.CanonicalType))

	d := s.compute(squareGens, squareForms, automorph.Combinatorial)
	s.False(a.CanonicalType.Equal(d.CanonicalType))

	colored := s.compute(squareGens, squareForms, automorph.Rational, automorph.WithFixedGenerators(0))
	s.False(a.CanonicalType.Equal(colored.CanonicalType))
}

func (s *ComputeSuite) TestErrors() {
	t := s.T()
	gens := rows64(t, identityGens)
	_, err := automorph.Compute[num.Int64](s.ctx, gens, nil, automorph.Combinatorial)
	s.ErrorIs(err, automorph.ErrNoForms)

	_, err = automorph.Compute(s.ctx, gens, gens, automorph.Combinatorial, automorph.WithGeneratorColors([]int{0}))
	s.ErrorIs(err, automorph.ErrBadInput)

	_, err = automorph.Compute(s.ctx, gens, gens, automorph.Combinatorial, automorph.WithFixedForms(3))
	s.ErrorIs(err, automorph.ErrBadInput)

	_, err = automorph.Compute(s.ctx, gens, rows64(t, [][]int64{{1, 0}}), automorph.Rational)
	s.ErrorIs(err, automorph.ErrBadInput)

	_, err = automorph.Compute[num.Int64](s.ctx, nil, nil, automorph.Rational)
	s.ErrorIs(err, automorph.ErrBadInput)

	_, err = automorph.Compute(s.ctx, rows64(t, [][]int64{{1, 0, 0}, {2, 0, 0}}), nil, automorph.Rational)
	s.ErrorIs(err, automorph.ErrBadInput)

	_, err = automorph.Compute(s.ctx, gens, gens, automorph.Combinatorial, automorph.WithFormColors(nil))
	s.ErrorIs(err, automorph.ErrOptionViolation)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err = automorph.Compute(ctx, gens, gens, automorph.Combinatorial)
	s.ErrorIs(err, automorph.ErrInterrupted)
}

func TestPermutationHelpers(t *testing.T) {
	p := []int{1, 2, 0, 3, 5, 4}
	q := []int{0, 1, 2, 4, 3, 5}

	assert.Equal(t, [][]int{{0, 1, 2}, {4, 5}}, automorph.CycleDecomposition(p))
	assert.Empty(t, automorph.CycleDecomposition([]int{0, 1, 2}))
	assert.Equal(t, []int{2, 0, 1, 3, 5, 4}, automorph.Inverse(p))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, automorph.Compose(p, automorph.Inverse(p)))
	assert.Equal(t, []int{1, 2, 0, 5, 3, 4}, automorph.Compose(p, q))
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}}, automorph.Orbits([][]int{p, q}, 6))
	assert.Equal(t, [][]int{{0}, {1}}, automorph.Orbits(nil, 2))
}

func TestIsAutomorphismSizes(t *testing.T) {
	inc := []bitset.Set{bitset.FromIndices(3, 0, 1), bitset.FromIndices(3, 1, 2)}
	require.True(t, automorph.IsAutomorphism(inc, []int{2, 1, 0}))
	require.False(t, automorph.IsAutomorphism(inc, []int{1, 0, 2}))
	require.False(t, automorph.IsAutomorphism(inc, []int{0, 1}))
}
