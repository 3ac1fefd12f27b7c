// SPDX-License-Identifier: MIT

// Package automorph computes the symmetry group of a set of generators
// paired with a set of linear forms.
//
// The pairing values are mapped to dense indices in increasing value order,
// so structurally equal inputs give equal index matrices whatever order the
// values were produced in. The index matrix is then encoded as a layered
// colored graph (layer ℓ carries bit ℓ of every index) and handed to an
// individualization-refinement search that returns automorphism
// generators, the group order and a canonical labeling.
//
// Qualities:
//   - Combinatorial preserves generator/form incidence only.
//   - Rational preserves the exact pairing values. Without forms the
//     pairing g_i·adj(GᵀG)·g_j is used, which every linear automorphism
//     of the generator set preserves.
//   - Euclidean preserves pairwise squared distances of generators.
package automorph
