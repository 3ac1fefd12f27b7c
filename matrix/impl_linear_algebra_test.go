// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

func TestDense_Accessors(t *testing.T) {
	m := MustDense[num.Int64](t, 3, [][]int64{{1, 2, 3}, {4, 5, 6}})
	r, c := m.Shape()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)

	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, num.Int64(6), v)

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 3, 1), matrix.ErrOutOfRange)

	tr := m.Transpose()
	assert.Equal(t, [][]num.Int64{{1, 4}, {2, 5}, {3, 6}}, tr.ToRows())

	sel, err := m.Select([]int{1})
	require.NoError(t, err)
	assert.Equal(t, []num.Int64{4, 5, 6}, sel.Row(0))

	_, err = matrix.FromRows(2, [][]num.Int64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestMulAndMulVec(t *testing.T) {
	a := MustDense[num.Int64](t, 2, [][]int64{{1, 2}, {3, 4}})
	b := MustDense[num.Int64](t, 2, [][]int64{{0, 1}, {1, 0}})
	p, err := matrix.Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]num.Int64{{2, 1}, {4, 3}}, p.ToRows())

	v, err := matrix.MulVec(a, []num.Int64{1, -1})
	require.NoError(t, err)
	assert.Equal(t, []num.Int64{-1, -1}, v)

	w, err := matrix.VecMul([]num.Int64{1, 1}, a)
	require.NoError(t, err)
	assert.Equal(t, []num.Int64{4, 6}, w)

	_, err = matrix.MulVec(a, []num.Int64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestRankAndDeterminant(t *testing.T) {
	cases := []struct {
		name string
		rows [][]int64
		rank int
		det  int64
	}{
		{"identity", [][]int64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 3, 1},
		{"swap", [][]int64{{0, 1}, {1, 0}}, 2, -1},
		{"singular", [][]int64{{1, 2, 3}, {2, 4, 6}, {1, 1, 1}}, 2, 0},
		{"generic", [][]int64{{2, -1, 0}, {1, 3, 2}, {0, 1, 4}}, 3, 24},
		{"zero-pivot", [][]int64{{0, 2, 1}, {3, 0, 1}, {1, 1, 0}}, 3, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := MustDense[num.Int64](t, len(tc.rows[0]), tc.rows)
			r, err := matrix.Rank(m)
			require.NoError(t, err)
			assert.Equal(t, tc.rank, r)

			d, err := matrix.Determinant(m)
			require.NoError(t, err)
			assert.Equal(t, num.Int64(tc.det), d)

			bd, err := matrix.Determinant(MustDense[num.BigInt](t, len(tc.rows[0]), tc.rows))
			require.NoError(t, err)
			assert.Equal(t, d.String(), bd.String())
		})
	}

	_, err := matrix.Determinant(MustDense[num.Int64](t, 2, [][]int64{{1, 2}}))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

func TestDeterminant_Overflow32(t *testing.T) {
	rows := [][]int64{{50000, 1}, {1, 50000}}
	_, err := matrix.Determinant(MustDense[num.Int32](t, 2, rows))
	require.ErrorIs(t, err, num.ErrOverflow)

	d, err := matrix.Determinant(MustDense[num.Int64](t, 2, rows))
	require.NoError(t, err)
	assert.Equal(t, num.Int64(2499999999), d)
}

func TestInvert(t *testing.T) {
	m := MustDense[num.Int64](t, 3, [][]int64{{2, -1, 0}, {1, 3, 2}, {0, 1, 4}})
	adj, det, err := matrix.Invert(m)
	require.NoError(t, err)
	require.Equal(t, num.Int64(24), det)

	prod, err := matrix.Mul(m, adj)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := num.Int64(0)
			if i == j {
				want = det
			}
			v, _ := prod.At(i, j)
			assert.Equal(t, want, v, "entry (%d,%d)", i, j)
		}
	}

	_, _, err = matrix.Invert(MustDense[num.Int64](t, 2, [][]int64{{1, 2}, {2, 4}}))
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestSimplexData(t *testing.T) {
	gens := MustDense[num.Int64](t, 3, [][]int64{{1, 0, 0}, {1, 1, 0}, {1, 0, 2}})
	forms, vol, err := matrix.SimplexData(gens)
	require.NoError(t, err)
	assert.Equal(t, num.Int64(2), vol)
	for i, f := range forms {
		for j := 0; j < 3; j++ {
			v, ok := num.Dot(f, gens.Row(j))
			require.True(t, ok)
			if i == j {
				assert.Positive(t, int64(v))
			} else {
				assert.Zero(t, int64(v))
			}
		}
	}
}

func TestMaxRankRows(t *testing.T) {
	m := MustDense[num.Int64](t, 3, [][]int64{
		{1, 1, 0},
		{2, 2, 0},
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
	})
	idx, err := matrix.MaxRankRows(m, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, idx)

	idx, err = matrix.MaxRankRows(m, []int{4, 3, 1, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2}, idx)
}
