// SPDX-License-Identifier: MIT

package cone

import (
	"math/big"

	"github.com/polymake/polymake-sub008/automorph"
	"github.com/polymake/polymake-sub008/hull"
)

// Simplex is a cell of the triangulation: indices into the generators
// returned with it, and |det| when volumes were computed.
type Simplex struct {
	Key []int
	Vol *big.Int
}

// results holds computed properties in ambient coordinates.
type results struct {
	done propertySet
	errs map[Property]error

	rank, effRank int
	pointed       bool
	equations     [][]*big.Int
	sublattice    [][]*big.Int
	hyps          [][]*big.Int
	rays          [][]*big.Int
	lineality     [][]*big.Int

	triGens [][]*big.Int
	tri     []Simplex
	triSize int
	volume  *big.Int
	mult    *big.Rat

	hb, deg1 [][]*big.Int
	hvec     []*big.Int
	group    *automorph.Group

	vertices      [][]*big.Int
	recessionRank int

	resumed bool
	snaps   [2]*hull.Snapshot
}

func newResults() *results {
	return &results{errs: make(map[Property]error)}
}

func (r *results) fail(p Property, err error) {
	if _, ok := err.(*PropertyError); !ok {
		err = &PropertyError{Property: p, Err: err}
	}
	r.errs[p] = err
}

// merge copies the properties src computed into r. Errors never replace
// a computed value.
func (r *results) merge(src *results) {
	for p := Property(0); p < DualMode; p++ {
		if !src.done.has(p) {
			if err, ok := src.errs[p]; ok && !r.done.has(p) {
				r.errs[p] = err
			}

			continue
		}
		r.done = r.done.with(p)
		delete(r.errs, p)
		switch p {
		case SupportHyperplanes:
			r.hyps = src.hyps
		case ExtremeRays:
			r.rays = src.rays
		case MaximalSubspace:
			r.lineality = src.lineality
		case Equations:
			r.equations = src.equations
		case Sublattice:
			r.sublattice = src.sublattice
		case Rank:
			r.rank, r.effRank = src.rank, src.effRank
		case IsPointed:
			r.pointed = src.pointed
		case Triangulation:
			r.tri, r.triGens = src.tri, src.triGens
		case TriangulationSize:
			r.triSize = src.triSize
		case Volume:
			r.volume = src.volume
		case Multiplicity:
			r.mult = src.mult
		case HilbertBasis:
			r.hb = src.hb
		case Deg1Elements:
			r.deg1 = src.deg1
		case HVector:
			r.hvec = src.hvec
		case Automorphisms:
			r.group = src.group
		case VerticesOfPolyhedron:
			r.vertices = src.vertices
		case RecessionRank:
			r.recessionRank = src.recessionRank
		}
	}
}

// invalidate forgets the properties in s.
func (r *results) invalidate(s propertySet) {
	r.done &^= s
	for p := range r.errs {
		if s.has(p) {
			delete(r.errs, p)
		}
	}
}

// tried reports whether p was computed or failed.
func (r *results) tried(p Property) bool {
	_, failed := r.errs[p]

	return r.done.has(p) || failed
}
