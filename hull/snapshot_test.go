// SPDX-License-Identifier: MIT

package hull_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polymake/polymake-sub008/hull"
)

func TestSnapshot_ResumeMatchesBuild(t *testing.T) {
	ctx := context.Background()
	all := rows64(t, cubeGens)
	direct, err := hull.Build(ctx, all, hull.WithVolumes(true))
	require.NoError(t, err)

	part, err := hull.Build(ctx, all[:8], hull.WithVolumes(true))
	require.NoError(t, err)
	data, err := part.Snapshot().Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "gen_in_hyp")

	snap, err := hull.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, 8, snap.Generators)
	assert.Len(t, snap.Inserted, 8)
	assert.NotEmpty(t, snap.ID)

	resumed, err := hull.Resume(ctx, all, snap, hull.WithVolumes(true))
	require.NoError(t, err)
	assert.Equal(t, hypStrings(direct.Facets), hypStrings(resumed.Facets))
	assert.Equal(t, direct.ExtremeRays, resumed.ExtremeRays)
	assert.Equal(t, 0, resumed.Volume.Cmp(big.NewInt(6)))
	requireValid(t, all, resumed)

	for _, f := range resumed.Facets {
		assert.NotZero(t, f.Ident)
	}
}

func TestSnapshot_KeepsSublatticeRows(t *testing.T) {
	res, err := hull.Build(context.Background(), rows64(t, squareGens[:4]))
	require.NoError(t, err)
	snap := res.Snapshot()
	snap.Sublattice = [][]string{{"1", "0", "0"}, {"0", "1", "0"}, {"0", "0", "1"}}
	data, err := snap.Encode()
	require.NoError(t, err)
	back, err := hull.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap.Sublattice, back.Sublattice)
	assert.Nil(t, back.Triangulation)
}

func TestSnapshot_Mismatch(t *testing.T) {
	ctx := context.Background()
	res, err := hull.Build(ctx, rows64(t, squareGens[:4]))
	require.NoError(t, err)
	snap := res.Snapshot()

	other := rows64(t, [][]int64{{1, 2, 0}, {1, 1, 0}, {1, 0, 1}, {1, 1, 1}, {2, 1, 1}})
	_, err = hull.Resume(ctx, other, snap)
	assert.ErrorIs(t, err, hull.ErrSnapshotMismatch)

	_, err = hull.Resume(ctx, rows64(t, squareGens), snap, hull.WithKeepTriangulation(true))
	assert.ErrorIs(t, err, hull.ErrSnapshotMismatch)

	_, err = hull.Resume(ctx, rows64(t, [][]int64{{1, 0}, {0, 1}}), snap)
	assert.ErrorIs(t, err, hull.ErrSnapshotMismatch)

	_, err = hull.DecodeSnapshot([]byte("facets: [unterminated"))
	assert.ErrorIs(t, err, hull.ErrSnapshotMismatch)
}

func TestSnapshot_ResumeTriangulation(t *testing.T) {
	ctx := context.Background()
	all := rows64(t, squareGens)
	part, err := hull.Build(ctx, all[:3], hull.WithKeepTriangulation(true))
	require.NoError(t, err)
	resumed, err := hull.Resume(ctx, all, part.Snapshot(), hull.WithKeepTriangulation(true), hull.WithVolumes(true))
	require.NoError(t, err)
	assert.Equal(t, 2, resumed.TriangulationSize)
	assert.Equal(t, 0, resumed.Volume.Cmp(big.NewInt(2)))
}
