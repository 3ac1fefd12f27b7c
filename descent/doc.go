// SPDX-License-Identifier: MIT

// Package descent computes the multiplicity of a graded cone by descending
// through its face lattice instead of triangulating it.
//
// For a face F, a ray v of F and a facet G of F not containing v, the
// pyramid over G with apex v has multiplicity λ_G(v)/deg(v) · mult(G),
// where λ_G is the primitive form of G in the lattice Z^d ∩ lin(F). The
// pyramids over the facets avoiding v cover F, so
//
//	mult(F) = Σ_{G ∌ v} λ_G(v)/deg(v) · mult(G).
//
// Faces are processed level by level (level = codimension). Faces reached
// from several parents are merged by their set of containing facets, and
// simplicial faces contribute |det|/∏deg directly.
package descent
