// SPDX-License-Identifier: MIT

package hull_test

import (
	"math/big"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// rows64 converts int64 rows into num.Int64 rows.
func rows64(t *testing.T, rows [][]int64) [][]num.Int64 {
	t.Helper()
	out, ok := num.Int64Matrix[num.Int64](rows)
	require.True(t, ok)

	return out
}

func bigVec(xs ...int64) []*big.Int {
	out := make([]*big.Int, len(xs))
	for i, x := range xs {
		out[i] = big.NewInt(x)
	}

	return out
}

// hypStrings renders facet forms for order-independent comparison.
func hypStrings[T num.Integer[T]](fs []hull.Facet[T]) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		s := ""
		for j, x := range f.Hyp {
			if j > 0 {
				s += " "
			}
			s += x.String()
		}
		out[i] = s
	}
	sort.Strings(out)

	return out
}

// requireValid checks containment and irredundancy of res over gens.
func requireValid(t *testing.T, gens [][]num.Int64, res *hull.Result[num.Int64]) {
	t.Helper()
	d := len(gens[0])
	for _, f := range res.Facets {
		var on [][]num.Int64
		for i, g := range gens {
			v, ok := num.Dot(f.Hyp, g)
			require.True(t, ok)
			require.GreaterOrEqual(t, int64(v), int64(0), "facet %v negative on generator %d", f.Hyp, i)
			if v == 0 {
				on = append(on, g)
				require.True(t, f.GenInHyp.Test(i), "incidence of generator %d on %v", i, f.Hyp)
			}
		}
		r, err := matrix.RankOf(d, on)
		require.NoError(t, err)
		require.Equal(t, d-1, r, "facet %v is not irredundant", f.Hyp)
	}
}

// Cone over a unit square with a redundant generator in the middle.
var squareGens = [][]int64{
	{1, 0, 0},
	{1, 1, 0},
	{1, 0, 1},
	{1, 1, 1},
	{2, 1, 1},
}

// Cone over the octahedron conv(±e_i) in dimension 4.
var octaGens = [][]int64{
	{1, 1, 0, 0},
	{1, -1, 0, 0},
	{1, 0, 1, 0},
	{1, 0, -1, 0},
	{1, 0, 0, 1},
	{1, 0, 0, -1},
}

// Cone over a 3-cube with the cube centre and the face centres.
var cubeGens = [][]int64{
	{1, 0, 0, 0},
	{1, 1, 0, 0},
	{1, 0, 1, 0},
	{1, 1, 1, 0},
	{1, 0, 0, 1},
	{1, 1, 0, 1},
	{1, 0, 1, 1},
	{1, 1, 1, 1},
	{2, 1, 1, 1},
	{2, 1, 1, 0},
	{2, 1, 1, 2},
}
