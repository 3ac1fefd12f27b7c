// SPDX-License-Identifier: MIT

// Package signeddec computes the multiplicity of a pointed cone from its
// support hyperplanes by a signed decomposition of the dual cone.
//
// The dual cone C* is triangulated and its hollow triangulation is taken:
// the subfacets lying in exactly one simplex, which triangulate ∂C*.
// Coning them from a generic interior vector ω triangulates C* again, and
// dualizing gives
//
//	mult(C) = Σ_F 1 / (|det M_F| · ∏_k γ(n_k)),
//
// where M_F has rows ω and the forms of subfacet F, n_k are the columns of
// M_F⁻¹ and γ is the grading. Terms may be negative; ω is generic when no
// γ(n_k) vanishes, and a new ω is drawn otherwise.
//
// Subfacets are assigned to blocks by an xxhash of their key, so the hollow
// triangulation is never held in memory as a whole. Within a block,
// subfacets are visited in lexicographic order and M_F⁻¹ is updated by a
// row replacement when consecutive subfacets share all but one form.
package signeddec
