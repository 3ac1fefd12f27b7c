// SPDX-License-Identifier: MIT

// Package hilbert enumerates lattice points of simplicial cones and derives
// the Hilbert basis, the degree-1 elements and the h-vector of a cone from a
// triangulation built by package hull.
//
// For a simplicial cone with rows v_1..v_d and D = |det|, every lattice
// point x has coordinates q = x·V⁻¹; the points of the half-open
// parallelepiped {Σ q_i v_i : 0 ≤ q_i < 1} are in bijection with the group
// Z^d / (Z v_1 + … + Z v_d) of order D. The group is generated by the
// images of the unit vectors, so the points are found by a closure over
// residue vectors D·q mod D.
package hilbert
