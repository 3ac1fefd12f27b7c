// SPDX-License-Identifier: MIT

// Package cone is the entry point of the engine: a Cone holds typed input
// matrices, computes requested properties on demand and keeps what it has
// computed until it is invalidated.
//
// Input is a map from InputKind to rows of *big.Int. Homogeneous kinds
// (generators, inequalities, equations, grading, …) have one column per
// ambient coordinate; congruences carry an extra modulus column and the
// inhomogeneous kinds (inhom_inequalities, inhom_equations, vertices) an
// extra right-hand side or denominator. Inhomogeneous input is homogenized
// internally with the dehomogenization as the last coordinate; polytope
// input is homogenized with 1 and graded by that coordinate.
//
// Compute runs the engines over the working integer width chosen by the
// options (int32, int64 or big). An arithmetic overflow restarts the whole
// computation at the next width unless WithoutRetry is given; a property
// is either fully computed or absent, never partial.
//
//	c, err := cone.New(cone.Int64Input(map[cone.InputKind][][]int64{
//		cone.InputGenerators: {{1, 0}, {1, 1}},
//	}))
//	if err != nil { … }
//	if _, err := c.Compute(ctx, cone.HilbertBasis); err != nil { … }
//	hb, _ := c.HilbertBasis()
//
// Algorithm flags (DualMode, PrimalMode, Descent, SignedDec,
// BottomDecomposition) may be passed to Compute alongside properties to
// choose how the requested properties are obtained.
package cone
