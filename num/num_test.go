// SPDX-License-Identifier: MIT

package num_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polymake/polymake-sub008/num"
)

func TestInt64_CheckedOps(t *testing.T) {
	cases := []struct {
		name string
		op   func() (num.Int64, bool)
		want num.Int64
		ok   bool
	}{
		{"add", func() (num.Int64, bool) { return num.Int64(2).Add(3) }, 5, true},
		{"add-overflow", func() (num.Int64, bool) { return num.Int64(math.MaxInt64).Add(1) }, 0, false},
		{"add-negative-overflow", func() (num.Int64, bool) { return num.Int64(math.MinInt64).Add(-1) }, 0, false},
		{"sub", func() (num.Int64, bool) { return num.Int64(2).Sub(7) }, -5, true},
		{"sub-overflow", func() (num.Int64, bool) { return num.Int64(math.MinInt64).Sub(1) }, 0, false},
		{"mul", func() (num.Int64, bool) { return num.Int64(-4).Mul(6) }, -24, true},
		{"mul-overflow", func() (num.Int64, bool) { return num.Int64(1 << 32).Mul(1 << 32) }, 0, false},
		{"mul-minus-one", func() (num.Int64, bool) { return num.Int64(math.MinInt64).Mul(-1) }, 0, false},
		{"quo", func() (num.Int64, bool) { return num.Int64(-7).Quo(2) }, -3, true},
		{"quo-zero", func() (num.Int64, bool) { return num.Int64(1).Quo(0) }, 0, false},
		{"neg-min", func() (num.Int64, bool) { return num.Int64(math.MinInt64).Neg() }, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.op()
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestInt32_OverflowBoundary(t *testing.T) {
	_, ok := num.Int32(math.MaxInt32).Add(1)
	assert.False(t, ok)
	_, ok = num.Int32(1 << 16).Mul(1 << 16)
	assert.False(t, ok)
	v, ok := num.Int32(1 << 15).Mul(1 << 15)
	require.True(t, ok)
	assert.Equal(t, num.Int32(1<<30), v)

	_, ok = num.Int32(0).FromInt64(math.MaxInt32 + 1)
	assert.False(t, ok)
}

func TestBigInt_ValueSemantics(t *testing.T) {
	var zero num.BigInt
	assert.True(t, zero.IsZero())

	a, _ := zero.FromInt64(7)
	b, _ := a.Add(a)
	assert.Equal(t, "7", a.String())
	assert.Equal(t, "14", b.String())

	x := a.Big()
	x.SetInt64(100)
	assert.Equal(t, "7", a.String(), "Big must return a copy")

	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	h, ok := zero.FromBig(huge)
	require.True(t, ok)
	_, ok = num.Int64(0).FromBig(h.Big())
	assert.False(t, ok)
}

func TestChecked_Sticky(t *testing.T) {
	var c num.Checked[num.Int64]
	_ = c.Mul(math.MaxInt64, 2)
	require.True(t, c.Overflowed())
	_ = c.Add(1, 1)
	require.ErrorIs(t, c.Err(), num.ErrOverflow)
	c.Reset()
	require.NoError(t, c.Err())
	assert.Equal(t, num.Int64(-6), c.MulSub(2, 3, 3, 4))
}

func TestGcdAndPrimitive(t *testing.T) {
	g, ok := num.Gcd[num.Int64](-12, 18)
	require.True(t, ok)
	assert.Equal(t, num.Int64(6), g)

	l, ok := num.Lcm[num.Int64](4, -6)
	require.True(t, ok)
	assert.Equal(t, num.Int64(12), l)

	v := []num.Int64{4, -6, 0, 10}
	c, ok := num.MakePrimitive(v)
	require.True(t, ok)
	assert.Equal(t, num.Int64(2), c)
	assert.Equal(t, []num.Int64{2, -3, 0, 5}, v)

	bv, _ := num.Int64Vector[num.BigInt]([]int64{9, 15, -21})
	bc, ok := num.MakePrimitive(bv)
	require.True(t, ok)
	assert.Equal(t, "3", bc.String())
	assert.Equal(t, "-7", bv[2].String())
}

func TestConvertAndWidth(t *testing.T) {
	m, ok := num.Int64Matrix[num.Int64]([][]int64{{1, 2}, {3, 1 << 40}})
	require.True(t, ok)
	_, ok = num.ConvertMatrix[num.Int64, num.Int32](m)
	assert.False(t, ok)
	wide, ok := num.ConvertMatrix[num.Int64, num.BigInt](m)
	require.True(t, ok)
	assert.Equal(t, "1099511627776", wide[1][1].String())

	w, ok := num.Width32.Next()
	require.True(t, ok)
	assert.Equal(t, num.Width64, w)
	_, ok = num.WidthBig.Next()
	assert.False(t, ok)

	parsed, err := num.ParseWidth("BIG")
	require.NoError(t, err)
	assert.Equal(t, num.WidthBig, parsed)
	_, err = num.ParseWidth("int128")
	require.ErrorIs(t, err, num.ErrUnknownWidth)

	assert.Equal(t, "3/2", num.Rat[num.Int64](6, 4).RatString())
}
