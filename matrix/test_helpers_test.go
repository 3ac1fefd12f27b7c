// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polymake/polymake-sub008/matrix"
	"github.com/polymake/polymake-sub008/num"
)

// MustDense builds a Dense[T] from int64 rows or fails the test.
func MustDense[T num.Integer[T]](t *testing.T, cols int, rows [][]int64) *matrix.Dense[T] {
	t.Helper()
	conv, ok := num.Int64Matrix[T](rows)
	require.True(t, ok, "rows do not fit the width")
	m, err := matrix.FromRows(cols, conv)
	require.NoError(t, err)

	return m
}

// bigRows converts int64 rows into *big.Int rows.
func bigRows(rows [][]int64) [][]*big.Int {
	out := make([][]*big.Int, len(rows))
	for i, r := range rows {
		out[i] = make([]*big.Int, len(r))
		for j, x := range r {
			out[i][j] = big.NewInt(x)
		}
	}

	return out
}

// int64Rows converts *big.Int rows into int64 rows.
func int64Rows(rows [][]*big.Int) [][]int64 {
	out := make([][]int64, len(rows))
	for i, r := range rows {
		out[i] = make([]int64, len(r))
		for j, x := range r {
			out[i][j] = x.Int64()
		}
	}

	return out
}
