// SPDX-License-Identifier: MIT

package cone_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/polymake/polymake-sub008/cone"
	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/num"
)

type ConeSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ConeSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestConeSuite(t *testing.T) {
	suite.Run(t, new(ConeSuite))
}

func (s *ConeSuite) compute(c *cone.Cone, props ...cone.Property) {
	left, err := c.Compute(s.ctx, props...)
	s.Require().NoError(err)
	s.Require().Empty(left)
}

func (s *ConeSuite) TestUnimodularSimplex() {
	c := newCone(s.T(), inputs{cone.InputGenerators: identity3})
	s.compute(c, cone.SupportHyperplanes, cone.ExtremeRays, cone.Rank, cone.IsPointed,
		cone.TriangulationSize, cone.Volume, cone.Multiplicity, cone.HilbertBasis,
		cone.Deg1Elements, cone.HVector, cone.Automorphisms, cone.MaximalSubspace, cone.Equations)

	want := []string{"0 0 1", "0 1 0", "1 0 0"}
	hyps, err := c.SupportHyperplanes()
	s.Require().NoError(err)
	s.Equal(want, rowStrings(hyps))
	rays, err := c.ExtremeRays()
	s.Require().NoError(err)
	s.Equal(want, rowStrings(rays))
	hb, err := c.HilbertBasis()
	s.Require().NoError(err)
	s.Equal(want, rowStrings(hb))
	deg1, err := c.Deg1Elements()
	s.Require().NoError(err)
	s.Equal(want, rowStrings(deg1))

	rk, err := c.Rank()
	s.Require().NoError(err)
	s.Equal(3, rk)
	pointed, err := c.IsPointed()
	s.Require().NoError(err)
	s.True(pointed)
	lin, err := c.MaximalSubspace()
	s.Require().NoError(err)
	s.Empty(lin)
	eqs, err := c.Equations()
	s.Require().NoError(err)
	s.Empty(eqs)

	n, err := c.TriangulationSize()
	s.Require().NoError(err)
	s.Equal(1, n)
	vol, err := c.Volume()
	s.Require().NoError(err)
	s.Equal(int64(1), vol.Int64())
	m, err := c.Multiplicity()
	s.Require().NoError(err)
	s.Equal("1", m.RatString())
	h, err := c.HVector()
	s.Require().NoError(err)
	s.Equal([]int64{1}, int64s(h))

	g, err := c.Automorphisms()
	s.Require().NoError(err)
	s.Equal(int64(6), g.Order.Int64())

	s.Require().NoError(c.SetParams(map[string]int{"expansion_degree": 3}))
	hf, err := c.HilbertFunction()
	s.Require().NoError(err)
	s.Equal([]int64{1, 3, 6, 10}, int64s(hf))
}

func (s *ConeSuite) TestRedundantGenerator() {
	c := newCone(s.T(), inputs{cone.InputGenerators: squareWithCentre})
	s.compute(c, cone.ExtremeRays, cone.SupportHyperplanes, cone.Multiplicity,
		cone.HilbertBasis, cone.Deg1Elements, cone.HVector)

	rays, err := c.ExtremeRays()
	s.Require().NoError(err)
	s.Equal([]string{"1 0 0", "1 0 1", "1 1 0", "1 1 1"}, rowStrings(rays))
	s.NotContains(rowStrings(rays), "2 1 1")
	hyps, err := c.SupportHyperplanes()
	s.Require().NoError(err)
	s.Equal([]string{"0 0 1", "0 1 0", "1 -1 0", "1 0 -1"}, rowStrings(hyps))

	m, err := c.Multiplicity()
	s.Require().NoError(err)
	s.Equal("2", m.RatString())
	hb, err := c.HilbertBasis()
	s.Require().NoError(err)
	s.Equal(rowStrings(rays), rowStrings(hb))
	deg1, err := c.Deg1Elements()
	s.Require().NoError(err)
	s.Len(deg1, 4)
	h, err := c.HVector()
	s.Require().NoError(err)
	s.Equal([]int64{1, 1}, int64s(h))
}

func (s *ConeSuite) TestTriangulation() {
	c := newCone(s.T(), inputs{cone.InputGenerators: {{1, 0, 0}, {1, 1, 0}, {1, 0, 1}, {1, 1, 1}}})
	s.compute(c, cone.Triangulation, cone.Volume)
	tri, gens, err := c.Triangulation()
	s.Require().NoError(err)
	s.Len(gens, 4)
	s.Require().Len(tri, 2)
	total := new(big.Int)
	for _, sx := range tri {
		s.Len(sx.Key, 3)
		s.True(sx.Key[0] < sx.Key[1] && sx.Key[1] < sx.Key[2])
		total.Add(total, sx.Vol)
	}
	vol, err := c.Volume()
	s.Require().NoError(err)
	s.Equal(0, total.Cmp(vol))
	s.Equal(int64(2), vol.Int64())
}

func (s *ConeSuite) TestOverflowRetry() {
	gens := inputs{cone.InputGenerators: {{50000, 1, 0}, {1, 50000, 0}, {0, 0, 1}}}
	reg := prometheus.NewRegistry()
	metrics, err := hull.NewMetrics(reg)
	s.Require().NoError(err)

	narrow := newCone(s.T(), gens, cone.WithStartWidth(num.Width32), cone.WithMetrics(metrics))
	s.compute(narrow, cone.SupportHyperplanes, cone.ExtremeRays)
	wide := newCone(s.T(), gens, cone.WithStartWidth(num.WidthBig))
	s.compute(wide, cone.SupportHyperplanes, cone.ExtremeRays)

	got, err := narrow.SupportHyperplanes()
	s.Require().NoError(err)
	want, err := wide.SupportHyperplanes()
	s.Require().NoError(err)
	s.Equal(rowStrings(want), rowStrings(got))
	s.Contains(rowStrings(got), "-1 50000 0")

	s.Equal(num.Width64, narrow.Width())
	s.Equal(1, narrow.Stats().Retries)
	s.Equal(num.WidthBig, wide.Width())

	mfs, err := reg.Gather()
	s.Require().NoError(err)
	retries := 0.0
	for _, mf := range mfs {
		if mf.GetName() == "cone_hull_overflow_retries_total" {
			for _, m := range mf.GetMetric() {
				retries += m.GetCounter().GetValue()
			}
		}
	}
	s.Equal(1.0, retries)

	strict := newCone(s.T(), gens, cone.WithStartWidth(num.Width32), cone.WithoutRetry())
	_, err = strict.Compute(s.ctx, cone.SupportHyperplanes)
	s.Require().ErrorIs(err, cone.ErrFatal)
	s.ErrorIs(err, num.ErrOverflow)
}

func (s *ConeSuite) TestInequalitiesAndEquations() {
	c := newCone(s.T(), inputs{
		cone.InputInequalities: identity3,
		cone.InputEquations:    {{0, 0, 1}},
	})
	s.compute(c, cone.ExtremeRays, cone.Rank, cone.Equations, cone.Sublattice)
	rays, err := c.ExtremeRays()
	s.Require().NoError(err)
	s.Equal([]string{"0 1 0", "1 0 0"}, rowStrings(rays))
	rk, err := c.Rank()
	s.Require().NoError(err)
	s.Equal(2, rk)
	eqs, err := c.Equations()
	s.Require().NoError(err)
	s.Require().Len(eqs, 1)
	for _, r := range rays {
		s.Zero(dot(eqs[0], r))
	}
	basis, err := c.Sublattice()
	s.Require().NoError(err)
	s.Len(basis, 2)
}

func (s *ConeSuite) TestCongruence() {
	c := newCone(s.T(), inputs{
		cone.InputInequalities: {{1, 0}, {0, 1}},
		cone.InputCongruences:  {{1, -1, 2}},
	})
	s.compute(c, cone.ExtremeRays, cone.HilbertBasis, cone.Deg1Elements, cone.Multiplicity)
	rays, err := c.ExtremeRays()
	s.Require().NoError(err)
	s.Equal([]string{"0 2", "2 0"}, rowStrings(rays))
	hb, err := c.HilbertBasis()
	s.Require().NoError(err)
	s.Equal([]string{"0 2", "1 1", "2 0"}, rowStrings(hb))
	deg1, err := c.Deg1Elements()
	s.Require().NoError(err)
	s.Len(deg1, 3)
	m, err := c.Multiplicity()
	s.Require().NoError(err)
	s.Equal("2", m.RatString())
}

func (s *ConeSuite) TestMaximalSubspace() {
	c := newCone(s.T(), inputs{cone.InputGenerators: {{1, 0}, {-1, 0}, {0, 1}}})
	s.compute(c, cone.IsPointed, cone.MaximalSubspace, cone.SupportHyperplanes, cone.ExtremeRays, cone.Rank)
	pointed, err := c.IsPointed()
	s.Require().NoError(err)
	s.False(pointed)
	lin, err := c.MaximalSubspace()
	s.Require().NoError(err)
	s.Require().Len(lin, 1)
	s.Zero(lin[0][1].Sign())
	s.Equal(0, lin[0][0].CmpAbs(big.NewInt(1)))
	hyps, err := c.SupportHyperplanes()
	s.Require().NoError(err)
	s.Equal([]string{"0 1"}, rowStrings(hyps))
	rays, err := c.ExtremeRays()
	s.Require().NoError(err)
	s.Require().Len(rays, 1)
	s.Equal(int64(1), rays[0][1].Int64())
	rk, err := c.Rank()
	s.Require().NoError(err)
	s.Equal(2, rk)
}

func (s *ConeSuite) TestPolyhedron() {
	c := newCone(s.T(), inputs{cone.InputInhomInequalities: {{1, -1}}})
	s.compute(c, cone.VerticesOfPolyhedron, cone.RecessionRank, cone.ExtremeRays)
	v, err := c.VerticesOfPolyhedron()
	s.Require().NoError(err)
	s.Equal([]string{"1 1"}, rowStrings(v))
	rr, err := c.RecessionRank()
	s.Require().NoError(err)
	s.Equal(1, rr)
	rays, err := c.ExtremeRays()
	s.Require().NoError(err)
	s.Equal([]string{"1 0", "1 1"}, rowStrings(rays))

	_, err = c.Compute(s.ctx, cone.Multiplicity)
	s.Require().NoError(err)
	_, err = c.Multiplicity()
	s.ErrorIs(err, cone.ErrNotComputable)
}

func (s *ConeSuite) TestBoundedPolyhedron() {
	c := newCone(s.T(), inputs{cone.InputInhomInequalities: {{1, 0}, {-1, 2}}})
	s.compute(c, cone.VerticesOfPolyhedron, cone.RecessionRank, cone.Multiplicity, cone.Deg1Elements)
	v, err := c.VerticesOfPolyhedron()
	s.Require().NoError(err)
	s.Equal([]string{"0 1", "2 1"}, rowStrings(v))
	rr, err := c.RecessionRank()
	s.Require().NoError(err)
	s.Zero(rr)
	m, err := c.Multiplicity()
	s.Require().NoError(err)
	s.Equal("2", m.RatString())
	deg1, err := c.Deg1Elements()
	s.Require().NoError(err)
	s.Equal([]string{"0 1", "1 1", "2 1"}, rowStrings(deg1))
}

func (s *ConeSuite) TestPolytope() {
	c := newCone(s.T(), inputs{cone.InputPolytope: {{0, 0}, {1, 0}, {0, 1}, {1, 1}}})
	s.compute(c, cone.Multiplicity, cone.Deg1Elements, cone.HVector)
	m, err := c.Multiplicity()
	s.Require().NoError(err)
	s.Equal("2", m.RatString())
	deg1, err := c.Deg1Elements()
	s.Require().NoError(err)
	s.Equal([]string{"0 0 1", "0 1 1", "1 0 1", "1 1 1"}, rowStrings(deg1))
	h, err := c.HVector()
	s.Require().NoError(err)
	s.Equal([]int64{1, 1}, int64s(h))

	left, err := c.Compute(s.ctx, cone.VerticesOfPolyhedron)
	s.Require().NoError(err)
	s.Equal([]cone.Property{cone.VerticesOfPolyhedron}, left)
	_, err = c.VerticesOfPolyhedron()
	s.ErrorIs(err, cone.ErrNotComputable)
}

func (s *ConeSuite) TestThreadCounts() {
	heptagon := [][]int64{{0, 0}, {3, 0}, {5, 2}, {5, 4}, {3, 6}, {0, 5}, {-1, 2}}
	for threads := 1; threads <= 8; threads++ {
		c := newCone(s.T(), inputs{cone.InputPolytope: heptagon}, cone.WithThreads(threads))
		s.compute(c, cone.Volume, cone.Multiplicity, cone.TriangulationSize)
		v, err := c.Volume()
		s.Require().NoError(err)
		s.Equal("54", v.String(), "threads=%d", threads)
		m, err := c.Multiplicity()
		s.Require().NoError(err)
		s.Equal("54", m.RatString(), "threads=%d", threads)
		n, err := c.TriangulationSize()
		s.Require().NoError(err)
		s.Equal(5, n, "threads=%d", threads)
	}
}

func (s *ConeSuite) TestExplicitGrading() {
	c := newCone(s.T(), inputs{
		cone.InputGenerators: {{1, 0}, {1, 3}},
		cone.InputGrading:    {{1, 1}},
	})
	s.compute(c, cone.Multiplicity)
	m, err := c.Multiplicity()
	s.Require().NoError(err)
	s.Equal("3/4", m.RatString())
	s.Require().NoError(c.SetParams(map[string]int{"decimal_digits": 2}))
	dec, err := c.MultiplicityDecimal()
	s.Require().NoError(err)
	s.Equal("0.75", dec)
}

func (s *ConeSuite) TestAlgorithmFlagsAgree() {
	base := newCone(s.T(), inputs{cone.InputGenerators: octaGens})
	s.compute(base, cone.SupportHyperplanes, cone.ExtremeRays, cone.Multiplicity)
	hyps, err := base.SupportHyperplanes()
	s.Require().NoError(err)
	s.Len(hyps, 8)
	want, err := base.Multiplicity()
	s.Require().NoError(err)
	s.Equal("8", want.RatString())

	dual := newCone(s.T(), inputs{cone.InputGenerators: octaGens})
	s.compute(dual, cone.SupportHyperplanes, cone.ExtremeRays, cone.DualMode)
	got, err := dual.SupportHyperplanes()
	s.Require().NoError(err)
	s.Equal(rowStrings(hyps), rowStrings(got))

	for _, flags := range [][]cone.Property{
		{cone.Descent},
		{cone.Descent, cone.Automorphisms},
		{cone.SignedDec},
		{cone.BottomDecomposition},
	} {
		c := newCone(s.T(), inputs{cone.InputGenerators: octaGens})
		s.compute(c, append([]cone.Property{cone.Multiplicity}, flags...)...)
		m, err := c.Multiplicity()
		s.Require().NoError(err, "%v", flags)
		s.Equal(want.RatString(), m.RatString(), "%v", flags)
	}

	primal := newCone(s.T(), inputs{cone.InputInequalities: hyps64(hyps)})
	s.compute(primal, cone.ExtremeRays, cone.PrimalMode)
	rays, err := primal.ExtremeRays()
	s.Require().NoError(err)
	s.Len(rays, 6)
}

func hyps64(rows [][]*big.Int) [][]int64 {
	out := make([][]int64, len(rows))
	for i, r := range rows {
		out[i] = int64s(r)
	}

	return out
}

func (s *ConeSuite) TestPrecomputed() {
	rays := [][]int64{{1, 0, 0}, {1, 1, 0}, {1, 0, 1}, {1, 1, 1}}
	hyps := [][]int64{{0, 0, 1}, {0, 1, 0}, {1, -1, 0}, {1, 0, -1}}
	c := newCone(s.T(), inputs{cone.InputExtremeRays: rays, cone.InputSupportHyperplanes: hyps})
	s.compute(c, cone.SupportHyperplanes, cone.ExtremeRays)
	got, err := c.SupportHyperplanes()
	s.Require().NoError(err)
	s.Equal([]string{"0 0 1", "0 1 0", "1 -1 0", "1 0 -1"}, rowStrings(got))

	_, err = cone.New(cone.Int64Input(inputs{
		cone.InputExtremeRays:        rays,
		cone.InputSupportHyperplanes: {{0, 0, 1}, {0, -1, 0}},
	}))
	s.Require().ErrorIs(err, cone.ErrBadInput)
}

func (s *ConeSuite) TestIncrementalGenerators() {
	c := newCone(s.T(), inputs{cone.InputGenerators: {{1, 0, 0}, {1, 1, 0}, {1, 0, 1}}})
	s.compute(c, cone.SupportHyperplanes)
	s.Require().NotNil(c.Snapshot())

	c.Invalidate()
	s.compute(c, cone.SupportHyperplanes)
	s.Equal(1, c.Stats().Resumes)

	s.Require().NoError(c.AddGenerators(bigRows([]int64{1, 1, 1})))
	_, err := c.SupportHyperplanes()
	s.Require().ErrorIs(err, cone.ErrNotComputable)
	s.compute(c, cone.SupportHyperplanes, cone.ExtremeRays)
	hyps, err := c.SupportHyperplanes()
	s.Require().NoError(err)
	s.Equal([]string{"0 0 1", "0 1 0", "1 -1 0", "1 0 -1"}, rowStrings(hyps))
	s.Equal(2, c.Stats().Resumes)
	s.Equal(3, c.Stats().Runs)

	ineq := newCone(s.T(), inputs{cone.InputInequalities: identity3})
	s.Require().ErrorIs(ineq.AddGenerators(bigRows([]int64{1, 1, 1})), cone.ErrBadInput)
}

func (s *ConeSuite) TestInvalidate() {
	c := newCone(s.T(), inputs{cone.InputGenerators: identity3})
	s.compute(c, cone.SupportHyperplanes, cone.Rank)
	c.Invalidate(cone.Rank)
	_, err := c.Rank()
	s.ErrorIs(err, cone.ErrNotComputable)
	_, err = c.SupportHyperplanes()
	s.NoError(err)
}

func (s *ConeSuite) TestGetterBeforeCompute() {
	c := newCone(s.T(), inputs{cone.InputGenerators: identity3})
	_, err := c.HilbertBasis()
	var perr *cone.PropertyError
	s.Require().ErrorAs(err, &perr)
	s.Equal(cone.HilbertBasis, perr.Property)
	s.ErrorIs(err, cone.ErrNotComputable)
}

func (s *ConeSuite) TestBadGrading() {
	c := newCone(s.T(), inputs{
		cone.InputGenerators: {{1, 0}, {0, 1}},
		cone.InputGrading:    {{1, 0}},
	})
	left, err := c.Compute(s.ctx, cone.Multiplicity, cone.SupportHyperplanes)
	s.Require().NoError(err)
	s.Equal([]cone.Property{cone.Multiplicity}, left)
	_, err = c.Multiplicity()
	s.ErrorIs(err, cone.ErrBadInput)
	var ierr *cone.InputError
	s.Require().ErrorAs(err, &ierr)
	s.Equal(cone.InputGrading, ierr.Kind)
}

func (s *ConeSuite) TestComputeErrors() {
	c := newCone(s.T(), inputs{cone.InputGenerators: identity3})
	_, err := c.Compute(s.ctx, cone.Property(99))
	s.ErrorIs(err, cone.ErrOptionViolation)
	_, err = c.Compute(s.ctx, cone.ExtremeRays, cone.DualMode, cone.PrimalMode)
	s.ErrorIs(err, cone.ErrOptionViolation)
	_, err = c.Compute(s.ctx, cone.Multiplicity, cone.Descent, cone.SignedDec)
	s.ErrorIs(err, cone.ErrOptionViolation)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err = c.Compute(ctx, cone.HilbertBasis)
	s.ErrorIs(err, cone.ErrInterrupted)
	s.ErrorIs(err, context.Canceled)
}

func (s *ConeSuite) TestLogging() {
	core, logs := observer.New(zapcore.DebugLevel)
	c := newCone(s.T(), inputs{cone.InputGenerators: identity3}, cone.WithLogger(zap.New(core)))
	s.compute(c, cone.ExtremeRays)
	entries := logs.FilterMessage("compute").All()
	s.Require().Len(entries, 1)
	s.Equal(c.Stats().LastRun, entries[0].ContextMap()["run"])
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name  string
		input inputs
		kind  cone.InputKind
	}{
		{"empty", inputs{}, cone.InputGenerators},
		{"ragged", inputs{cone.InputGenerators: {{1, 0}, {1}}}, cone.InputGenerators},
		{"zero generator", inputs{cone.InputGenerators: {{1, 0}, {0, 0}}}, cone.InputGenerators},
		{"dimension mismatch", inputs{cone.InputGenerators: {{1, 0}}, cone.InputInequalities: {{1, 0, 0}}}, cone.InputInequalities},
		{"two gradings", inputs{cone.InputGenerators: {{1, 0}}, cone.InputGrading: {{1, 0}, {0, 1}}}, cone.InputGrading},
		{"polytope mixed", inputs{cone.InputPolytope: {{0, 0}}, cone.InputInequalities: {{1, 0}}}, cone.InputInequalities},
		{"grading with inhomogeneous input", inputs{cone.InputInhomInequalities: {{1, 0}}, cone.InputGrading: {{1}}}, cone.InputGrading},
		{"vertex denominator", inputs{cone.InputVertices: {{1, 0}}}, cone.InputVertices},
		{"congruence modulus", inputs{cone.InputInequalities: {{1, 0}}, cone.InputCongruences: {{1, 1, 0}}}, cone.InputCongruences},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cone.New(cone.Int64Input(tt.input))
			require.ErrorIs(t, err, cone.ErrBadInput)
			var ierr *cone.InputError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, tt.kind, ierr.Kind)
		})
	}

	_, err := cone.New(cone.Int64Input(inputs{cone.InputGenerators: identity3}), cone.WithThreads(0))
	require.ErrorIs(t, err, cone.ErrOptionViolation)
}

func TestConcurrentGetters(t *testing.T) {
	c := newCone(t, inputs{cone.InputGenerators: squareWithCentre})
	done := make(chan struct{})
	var partial int
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			rays, err := c.ExtremeRays()
			if err == nil && len(rays) != 4 {
				partial++
			}
			hyps, err := c.SupportHyperplanes()
			if err == nil && len(hyps) != 4 {
				partial++
			}
		}
	}()
	_, err := c.Compute(context.Background(), cone.ExtremeRays, cone.HilbertBasis)
	require.NoError(t, err)
	<-done
	assert.Zero(t, partial, "a getter returned a property that was only partly stored")
	hb, err := c.HilbertBasis()
	require.NoError(t, err)
	assert.Len(t, hb, 4)
}
