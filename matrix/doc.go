// SPDX-License-Identifier: MIT

// Package matrix provides exact integer linear algebra over the num.Integer
// contract.
//
// The package provides:
//
//   - Dense[T]: a row-major integer matrix with checked accessors.
//   - Elimination kernels: Rank, RowEchelon, Determinant (Bareiss), Invert
//     (adjugate and determinant), MaxRankRows (greedy lexicographic basis).
//   - SimplexData: inner support forms and volume of a simplicial cone.
//   - Lattice kernels: ColumnHermite (unimodular column reduction), Kernel
//     (integer nullspace basis), LatticeBasis, SmithDiagonal, LLL.
//   - Sublattice: an (embedding, projection, annihilator) triple that moves
//     vectors and linear forms between ambient and lattice coordinates,
//     including quotients by a linear subspace.
//
// Every kernel is exact. Fixed-width instantiations report num.ErrOverflow
// instead of returning a wrong value; callers retry with a wider width.
//
// Determinism: loop orders are fixed and pivots are chosen by a documented
// rule (smallest absolute value, lowest row index on ties), so equal inputs
// give equal outputs for every width.
package matrix
