// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

type SublatticeSuite struct {
	suite.Suite
}

func TestSublatticeSuite(t *testing.T) {
	suite.Run(t, new(SublatticeSuite))
}

func vec(xs ...int64) []*big.Int { return bigRows([][]int64{xs})[0] }

func (s *SublatticeSuite) requireVec(want []int64, got []*big.Int) {
	s.Require().Equal(want, int64Rows([][]*big.Int{got})[0])
}

func (s *SublatticeSuite) TestIdentity() {
	id := matrix.NewIdentity(3)
	s.True(id.IsIdentity())
	s.Equal(3, id.Rank())
	y, err := id.ToSublattice(vec(1, -2, 3))
	s.Require().NoError(err)
	s.requireVec([]int64{1, -2, 3}, y)
}

func (s *SublatticeSuite) TestSaturatedVersusGenerated() {
	gens := bigRows([][]int64{{2, 0, 0}, {0, 2, 0}})

	sat, err := matrix.SaturatedSpan(3, gens)
	s.Require().NoError(err)
	s.Equal(2, sat.Rank())
	s.False(sat.IsIdentity())
	y, err := sat.ToSublattice(vec(1, 0, 0))
	s.Require().NoError(err)
	x, err := sat.FromSublattice(y)
	s.Require().NoError(err)
	s.requireVec([]int64{1, 0, 0}, x)

	gen, err := matrix.GeneratedBy(3, gens)
	s.Require().NoError(err)
	_, err = gen.ToSublattice(vec(1, 0, 0))
	s.Require().ErrorIs(err, matrix.ErrNotInLattice)
	y, err = gen.ToSublattice(vec(2, -4, 0))
	s.Require().NoError(err)
	x, err = gen.FromSublattice(y)
	s.Require().NoError(err)
	s.requireVec([]int64{2, -4, 0}, x)

	_, err = sat.ToSublattice(vec(0, 0, 1))
	s.Require().ErrorIs(err, matrix.ErrNotInLattice)
}

func (s *SublatticeSuite) TestScaledCoordinates() {
	sat, err := matrix.SaturatedSpan(3, bigRows([][]int64{{1, 1, 0}, {1, -1, 0}}))
	s.Require().NoError(err)
	y, err := sat.ToSublatticeScaled(vec(4, 6, 0))
	s.Require().NoError(err)
	x, err := sat.FromSublattice(y)
	s.Require().NoError(err)
	s.requireVec([]int64{2, 3, 0}, x)

	_, err = sat.ToSublatticeScaled(vec(1, 1, 1))
	s.Require().ErrorIs(err, matrix.ErrNotInLattice)
}

func (s *SublatticeSuite) TestOutsideRationalSpan() {
	for name, l := range map[string]func() (*matrix.Sublattice, error){
		"saturated": func() (*matrix.Sublattice, error) {
			return matrix.SaturatedSpan(4, bigRows([][]int64{{1, 2, 0, 0}, {0, 1, 3, 0}}))
		},
		"generated": func() (*matrix.Sublattice, error) {
			return matrix.GeneratedBy(4, bigRows([][]int64{{2, 2, 0, 0}, {0, 1, 3, 0}}))
		},
		"zero": func() (*matrix.Sublattice, error) { return matrix.SaturatedSpan(4, nil) },
	} {
		lat, err := l()
		s.Require().NoError(err, name)
		_, err = lat.ToSublattice(vec(0, 0, 0, 1))
		s.Require().ErrorIs(err, matrix.ErrNotInLattice, name)
		_, err = lat.ToSublatticeScaled(vec(1, 0, 0, 0))
		s.Require().ErrorIs(err, matrix.ErrNotInLattice, name)
	}
}

func (s *SublatticeSuite) TestQuotientAcceptsEveryVector() {
	full, err := matrix.QuotientBy(2, bigRows([][]int64{{1, 0}, {0, 1}}))
	s.Require().NoError(err)
	s.Equal(0, full.Rank())
	y, err := full.ToSublatticeScaled(vec(3, -1))
	s.Require().NoError(err)
	s.Empty(y)

	q, err := matrix.QuotientBy(3, bigRows([][]int64{{0, 0, 1}}))
	s.Require().NoError(err)
	sat, err := matrix.SaturatedSpan(3, bigRows([][]int64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}))
	s.Require().NoError(err)
	c, err := sat.Compose(q)
	s.Require().NoError(err)
	_, err = c.ToSublattice(vec(1, 2, 5))
	s.Require().NoError(err)
}

func (s *SublatticeSuite) TestSolutionLatticeCongruence() {
	l, err := matrix.SolutionLattice(2, nil, bigRows([][]int64{{1, 0, 2}}))
	s.Require().NoError(err)
	s.Equal(2, l.Rank())

	rows, ok := num.FromBigMatrix[num.Int64](l.Embedding())
	s.Require().True(ok)
	b, err := matrix.FromRows(2, rows)
	s.Require().NoError(err)
	det, err := matrix.Determinant(b)
	s.Require().NoError(err)
	s.Equal(int64(2), abs(int64(det)))

	y, err := l.ToSublattice(vec(2, 3))
	s.Require().NoError(err)
	x, err := l.FromSublattice(y)
	s.Require().NoError(err)
	s.requireVec([]int64{2, 3}, x)

	_, err = l.ToSublattice(vec(1, 0))
	s.Require().ErrorIs(err, matrix.ErrNotInLattice)

	eqs, err := l.Equations()
	s.Require().NoError(err)
	s.Empty(eqs)

	_, err = matrix.SolutionLattice(2, nil, bigRows([][]int64{{1, 0, 0}}))
	s.Require().ErrorIs(err, matrix.ErrOutOfRange)
}

func (s *SublatticeSuite) TestSolutionLatticeEquation() {
	l, err := matrix.SolutionLattice(3, bigRows([][]int64{{1, 1, 1}}), nil)
	s.Require().NoError(err)
	s.Equal(2, l.Rank())
	eqs, err := l.Equations()
	s.Require().NoError(err)
	s.Require().Len(eqs, 1)
	e := int64Rows(eqs)[0]
	s.Equal(e[0], e[1])
	s.Equal(e[1], e[2])
	s.NotZero(e[0])
}

func (s *SublatticeSuite) TestQuotient() {
	q, err := matrix.QuotientBy(3, bigRows([][]int64{{1, 1, 0}}))
	s.Require().NoError(err)
	s.Equal(2, q.Rank())
	s.Zero(q.Annihilator().Cmp(big.NewInt(1)))

	y, err := q.ToSublattice(vec(3, 3, 0))
	s.Require().NoError(err)
	s.requireVec([]int64{0, 0}, y)

	y, err = q.ToSublattice(vec(1, 0, 2))
	s.Require().NoError(err)
	x, err := q.FromSublattice(y)
	s.Require().NoError(err)
	back, err := q.ToSublattice(x)
	s.Require().NoError(err)
	s.Equal(int64Rows([][]*big.Int{y}), int64Rows([][]*big.Int{back}))
}

func (s *SublatticeSuite) TestDualMapsAgreeOnLattice() {
	l, err := matrix.GeneratedBy(3, bigRows([][]int64{{1, 2, 0}, {0, 3, 3}}))
	s.Require().NoError(err)
	f := vec(1, -1, 2)
	fr, err := l.ToSublatticeDual(f)
	s.Require().NoError(err)
	back, err := l.FromSublatticeDual(fr)
	s.Require().NoError(err)

	for _, b := range l.Embedding() {
		v1, v2 := new(big.Int), new(big.Int)
		for j := range b {
			v1.Add(v1, new(big.Int).Mul(b[j], f[j]))
			v2.Add(v2, new(big.Int).Mul(b[j], back[j]))
		}
		s.Equal(v1.Sign(), v2.Sign())
	}
}

func (s *SublatticeSuite) TestCompose() {
	outer, err := matrix.SaturatedSpan(3, bigRows([][]int64{{1, 0, 0}, {0, 1, 0}}))
	s.Require().NoError(err)
	y, err := outer.ToSublattice(vec(2, 0, 0))
	s.Require().NoError(err)
	inner, err := matrix.GeneratedBy(2, [][]*big.Int{y, mustCoords(s, outer, vec(0, 1, 0))})
	s.Require().NoError(err)

	c, err := outer.Compose(inner)
	s.Require().NoError(err)
	s.Equal(3, c.Dim())
	s.Equal(2, c.Rank())

	z, err := c.ToSublattice(vec(4, -5, 0))
	s.Require().NoError(err)
	x, err := c.FromSublattice(z)
	s.Require().NoError(err)
	s.requireVec([]int64{4, -5, 0}, x)

	_, err = c.ToSublattice(vec(1, 0, 0))
	s.Require().ErrorIs(err, matrix.ErrNotInLattice)

	_, err = inner.Compose(outer)
	s.Require().ErrorIs(err, matrix.ErrDimensionMismatch)
}

func mustCoords(s *SublatticeSuite, l *matrix.Sublattice, x []*big.Int) []*big.Int {
	y, err := l.ToSublattice(x)
	s.Require().NoError(err)

	return y
}

func TestWithReduceBasisOff(t *testing.T) {
	gens := bigRows([][]int64{{1, 0, 0}, {5, 1, 0}})
	l, err := matrix.GeneratedBy(3, gens, matrix.WithReduceBasis(false))
	require.NoError(t, err)
	y, err := l.ToSublattice(vec(6, 1, 0))
	require.NoError(t, err)
	x, err := l.FromSublattice(y)
	require.NoError(t, err)
	require.Equal(t, []int64{6, 1, 0}, int64Rows([][]*big.Int{x})[0])
}
