// SPDX-License-Identifier: MIT

package bitset_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polymake/polymake-sub008/bitset"
)

func TestSet_Basics(t *testing.T) {
	s := bitset.New(130)
	s.Set(0)
	s.Set(64)
	s.Set(129)
	require.Equal(t, 3, s.Count())
	assert.True(t, s.Test(64))
	assert.False(t, s.Test(65))
	assert.Equal(t, []int{0, 64, 129}, s.Indices())

	s.Clear(64)
	assert.Equal(t, 129, s.NextSet(1))
	assert.Equal(t, -1, s.NextSet(130))

	assert.Panics(t, func() { s.Set(130) })
}

func TestSet_Algebra(t *testing.T) {
	a := bitset.FromIndices(10, 1, 2, 3, 7)
	b := bitset.FromIndices(10, 2, 3, 9)

	assert.Equal(t, []int{2, 3}, bitset.And(a, b).Indices())
	assert.Equal(t, []int{1, 2, 3, 7, 9}, bitset.Or(a, b).Indices())
	assert.Equal(t, []int{1, 7}, bitset.AndNot(a, b).Indices())
	assert.Equal(t, 2, bitset.AndCount(a, b))

	assert.True(t, bitset.And(a, b).IsSubsetOf(a))
	assert.False(t, a.IsSubsetOf(b))

	full := bitset.Full(70)
	assert.Equal(t, 70, full.Count())
}

func TestSet_OrderAndKeys(t *testing.T) {
	sets := []bitset.Set{
		bitset.FromIndices(70, 69),
		bitset.FromIndices(70, 0),
		bitset.FromIndices(70, 1, 2),
		bitset.FromIndices(3, 2),
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Less(sets[j]) })
	assert.Equal(t, 3, sets[0].Len(), "smaller size sorts first")
	assert.Equal(t, []int{0}, sets[1].Indices())
	assert.Equal(t, []int{69}, sets[3].Indices())

	x := bitset.FromIndices(70, 5, 66)
	y := x.Clone()
	assert.Equal(t, x.Key(), y.Key())
	assert.Equal(t, x.Hash64(), y.Hash64())
	y.Set(6)
	assert.NotEqual(t, x.Key(), y.Key())
	assert.False(t, x.Less(x))
}

func TestSet_ResizeAndEncoding(t *testing.T) {
	s := bitset.FromIndices(65, 3, 64)
	s.Resize(200)
	assert.Equal(t, []int{3, 64}, s.Indices())
	s.Resize(10)
	assert.Equal(t, []int{3}, s.Indices())

	raw, err := bitset.FromIndices(100, 1, 99).MarshalBinary()
	require.NoError(t, err)
	var back bitset.Set
	require.NoError(t, back.UnmarshalBinary(raw))
	assert.Equal(t, []int{1, 99}, back.Indices())
	require.Error(t, back.UnmarshalBinary(raw[:10]))

	txt, err := bitset.FromIndices(4, 0, 3).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1001", string(txt))
	var tb bitset.Set
	require.NoError(t, tb.UnmarshalText(txt))
	assert.True(t, tb.Equal(bitset.FromIndices(4, 0, 3)))
	require.ErrorIs(t, tb.UnmarshalText([]byte("10x")), bitset.ErrCorrupt)
}
