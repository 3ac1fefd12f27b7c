// SPDX-License-Identifier: MIT

package hull_test

import (
	"context"
	"testing"

	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/num"
)

// cyclicGens returns the cone over the cyclic polytope with n vertices on
// the moment curve in dimension 4 (homogenized to 5).
func cyclicGens(b *testing.B, n int) [][]num.Int64 {
	b.Helper()
	rows := make([][]int64, n)
	for i := range rows {
		t := int64(i + 1)
		rows[i] = []int64{1, t, t * t, t * t * t, t * t * t * t}
	}
	gens, ok := num.Int64Matrix[num.Int64](rows)
	if !ok {
		b.Fatal("cyclic generators do not fit int64")
	}

	return gens
}

// BenchmarkBuild_Facets measures the facet computation alone.
func BenchmarkBuild_Facets(b *testing.B) {
	gens := cyclicGens(b, 10)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := hull.Build(ctx, gens); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBuild_Volumes adds the triangulation and its determinants.
func BenchmarkBuild_Volumes(b *testing.B) {
	gens := cyclicGens(b, 10)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := hull.Build(ctx, gens, hull.WithVolumes(true), hull.WithThreads(4)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDual measures the double description on the octahedron facets.
func BenchmarkDual(b *testing.B) {
	ineqs, _ := num.Int64Matrix[num.Int64]([][]int64{
		{1, 1, 1, 1}, {1, 1, 1, -1}, {1, 1, -1, 1}, {1, 1, -1, -1},
		{1, -1, 1, 1}, {1, -1, 1, -1}, {1, -1, -1, 1}, {1, -1, -1, -1},
	})
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := hull.Dual(ctx, ineqs, 4); err != nil {
			b.Fatal(err)
		}
	}
}
