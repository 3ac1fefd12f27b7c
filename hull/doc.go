// SPDX-License-Identifier: MIT

// Package hull computes the support hyperplanes, extreme rays and a placing
// triangulation of a rational polyhedral cone given by generators.
//
// Primal mode (Build) inserts generators one at a time into a full
// dimensional cone and performs Fourier–Motzkin steps: for a new generator g
// every current facet is classified as positive, negative or neutral, and each
// adjacent (positive, negative) pair spawns the facet
//
//	P.val·N.hyp − N.val·P.hyp
//
// made primitive. Adjacency is decided by the simplicial shortcut, the
// mother/daughter shortcut, and then either the combinatorial test (no other
// facet contains the common generators) or the rank test.
//
// When a step would compare too many pairs, each negative facet N is instead
// turned into a pyramid cone(N, g) whose support hyperplanes are computed
// recursively; the pyramid facets through g that are strictly positive on
// every inserted generator outside the pyramid are exactly the new facets.
// Large pyramids are processed by a fixed pool of workers (errgroup), each
// with its own facet-id allocator, and merged at a barrier.
//
// The triangulation is extended over every negative facet. Simplices wait in
// a bounded evaluation buffer; a full buffer is flushed synchronously, which
// computes determinants, excluded-facet masks and the multiplicity.
//
// Dual mode (Dual) runs the double description method on inequalities and
// returns extreme rays, a lineality basis and the irredundant inequalities.
//
// All arithmetic is generic over num.Integer; overflow surfaces as
// num.ErrOverflow so callers can retry with a wider width. Cancellation of
// the context aborts with ErrInterrupted and no partial result.
package hull
