// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

func TestColumnHermite_Unimodular(t *testing.T) {
	m := MustDense[num.Int64](t, 3, [][]int64{{4, 6, 10}, {1, 2, 3}})
	h, u, rank, err := matrix.ColumnHermite(m)
	require.NoError(t, err)
	require.Equal(t, 2, rank)

	prod, err := matrix.Mul(m, u)
	require.NoError(t, err)
	assert.Equal(t, h.ToRows(), prod.ToRows())

	det, err := matrix.Determinant(u)
	require.NoError(t, err)
	assert.Equal(t, 1, int(det)*int(det))
	for i := 0; i < 2; i++ {
		v, _ := h.At(i, 2)
		assert.Zero(t, int64(v))
	}
}

func TestKernel(t *testing.T) {
	m := MustDense[num.Int64](t, 4, [][]int64{{1, 1, 1, 1}, {0, 1, 2, 3}})
	k, err := matrix.Kernel(m)
	require.NoError(t, err)
	require.Equal(t, 2, k.Rows())
	for i := 0; i < k.Rows(); i++ {
		v, err := matrix.MulVec(m, k.Row(i))
		require.NoError(t, err)
		assert.Equal(t, []num.Int64{0, 0}, v)
	}
	r, err := matrix.Rank(k)
	require.NoError(t, err)
	assert.Equal(t, 2, r)
}

func TestLatticeBasisAndSmith(t *testing.T) {
	m := MustDense[num.Int64](t, 2, [][]int64{{2, 0}, {0, 2}, {2, 2}, {4, 6}})
	b, err := matrix.LatticeBasis(m)
	require.NoError(t, err)
	require.Equal(t, 2, b.Rows())
	det, err := matrix.Determinant(b)
	require.NoError(t, err)
	assert.Equal(t, int64(4), abs(int64(det)))

	d, err := matrix.SmithDiagonal(MustDense[num.Int64](t, 3, [][]int64{{2, 4, 4}, {-6, 6, 12}, {10, -4, -16}}))
	require.NoError(t, err)
	assert.Equal(t, []num.Int64{2, 6, 12}, d)

	idx, err := matrix.Index(MustDense[num.Int64](t, 3, [][]int64{{1, 0, 0}, {1, 1, 0}, {1, 0, 2}}))
	require.NoError(t, err)
	assert.Equal(t, num.Int64(2), idx)
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}

	return x
}

func TestLLL(t *testing.T) {
	basis := bigRows([][]int64{{1, 1, 1}, {-1, 0, 2}, {3, 5, 6}})
	red, tr, err := matrix.LLL(basis)
	require.NoError(t, err)
	require.Len(t, red, 3)

	// reduced = T·basis
	for i := range red {
		for j := range red[i] {
			acc := new(big.Int)
			for k := range basis {
				acc.Add(acc, new(big.Int).Mul(tr[i][k], basis[k][j]))
			}
			assert.Zero(t, acc.Cmp(red[i][j]))
		}
	}
	tdet, err := matrix.Determinant(MustDense[num.Int64](t, 3, int64Rows(tr)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), abs(int64(tdet)))

	// |b1|² ≤ 2^(n-1)·λ1² with λ1 = 1 for this lattice.
	n2 := int64(0)
	for _, x := range int64Rows(red)[0] {
		n2 += x * x
	}
	assert.LessOrEqual(t, n2, int64(4))

	_, _, err = matrix.LLL(bigRows([][]int64{{1, 2}, {2, 4}}))
	require.ErrorIs(t, err, matrix.ErrNotFullRank)
}

func TestWithLLLDelta_Panics(t *testing.T) {
	assert.Panics(t, func() { matrix.WithLLLDelta(1, 8) })
	assert.Panics(t, func() { matrix.WithLLLDelta(3, 2) })
	assert.NotPanics(t, func() { matrix.WithLLLDelta(99, 100) })
}
