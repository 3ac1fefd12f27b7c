// SPDX-License-Identifier: MIT

// Package polymake is an exact engine for rational polyhedral cones: convex
// hulls and triangulations, Hilbert bases, lattice points of degree 1,
// h-vectors, multiplicities and automorphism groups, all in exact integer
// arithmetic with automatic promotion from int32 to int64 to big integers.
//
// Everything is organized under flat packages, one concern each:
//
//	num/       Integer[T] contract, Int32/Int64/BigInt, overflow-checked ops
//	bitset/    dynamic bit vectors for incidences and simplex keys
//	matrix/    exact dense matrices: rank, kernel, Hermite/Smith, LLL, sublattices
//	hull/      Fourier–Motzkin hull with pyramids, triangulation, dual mode, snapshots
//	hilbert/   Hilbert basis, degree-1 elements, h-vector
//	automorph/ automorphism groups via canonical labeling of a colored graph
//	descent/   multiplicity by descent through the face lattice
//	signeddec/ multiplicity by signed decomposition of the dual cone
//	cone/      the façade: typed input, property requests, retry on overflow
//
// Quick example, the cone over a unit square:
//
//	c, _ := cone.New(cone.Int64Input(map[cone.InputKind][][]int64{
//		cone.InputPolytope: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
//	}))
//	_, _ = c.Compute(ctx, cone.Multiplicity, cone.HilbertBasis)
//	m, _ := c.Multiplicity() // 2
//
// Start with package cone; the engine packages are usable on their own when
// the input is already in the coordinates they expect.
package polymake
