// SPDX-License-Identifier: MIT

package descent_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/num"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func rows64(t *testing.T, rows [][]int64) [][]num.Int64 {
	t.Helper()
	out, ok := num.Int64Matrix[num.Int64](rows)
	require.True(t, ok)

	return out
}

func vec64(xs ...int64) []num.Int64 {
	out := make([]num.Int64, len(xs))
	for i, x := range xs {
		out[i] = num.Int64(x)
	}

	return out
}

// cone returns the extreme rays, the support hyperplanes and the
// multiplicity under grading computed by triangulation.
func cone(t *testing.T, gens [][]int64, grading []int64) ([][]num.Int64, [][]num.Int64, *big.Rat) {
	t.Helper()
	g := rows64(t, gens)
	gr := make([]*big.Int, len(grading))
	for i, x := range grading {
		gr[i] = big.NewInt(x)
	}
	res, err := hull.Build(context.Background(), g, hull.WithGrading(gr))
	require.NoError(t, err)
	rays := make([][]num.Int64, len(res.ExtremeRays))
	for k, i := range res.ExtremeRays {
		rays[k] = g[i]
	}

	return rays, res.Hyperplanes(), res.Multiplicity
}

var (
	squareGens = [][]int64{{1, 0, 0}, {1, 1, 0}, {1, 0, 1}, {1, 1, 1}}
	octaGens   = [][]int64{
		{1, 1, 0, 0}, {1, -1, 0, 0}, {1, 0, 1, 0}, {1, 0, -1, 0}, {1, 0, 0, 1}, {1, 0, 0, -1},
	}
	cubeGens = [][]int64{
		{1, 0, 0, 0}, {1, 1, 0, 0}, {1, 0, 1, 0}, {1, 1, 1, 0},
		{1, 0, 0, 1}, {1, 1, 0, 1}, {1, 0, 1, 1}, {1, 1, 1, 1},
	}
	// A lopsided polytope with a non-unimodular triangulation.
	skewGens = [][]int64{
		{1, 0, 0, 0}, {1, 3, 0, 0}, {1, 0, 2, 0}, {1, 0, 0, 2},
		{1, 2, 2, 1}, {1, 1, 1, 3}, {1, 3, 1, 1},
	}
)
