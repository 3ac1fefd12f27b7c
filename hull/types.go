// SPDX-License-Identifier: MIT

package hull

import (
	"math/big"

	"github.com/polymake/polymake-sub008/bitset"
	"github.com/polymake/polymake-sub008/num"
)

// Facet is a support hyperplane of the cone built so far.
//
// Hyp is primitive and non-negative on every inserted generator; GenInHyp
// marks the inserted generators on which it vanishes. Mother is the Ident of
// the positive facet it was combined from (0 if none); it is a weak
// reference and is never dereferenced.
type Facet[T num.Integer[T]] struct {
	Hyp        []T
	GenInHyp   bitset.Set
	ValNewGen  T
	BornAt     int
	Ident      uint64
	Mother     uint64
	Simplicial bool
}

func (f *Facet[T]) clone() *Facet[T] {
	return &Facet[T]{
		Hyp:        append([]T(nil), f.Hyp...),
		GenInHyp:   f.GenInHyp.Clone(),
		ValNewGen:  f.ValNewGen,
		BornAt:     f.BornAt,
		Ident:      f.Ident,
		Mother:     f.Mother,
		Simplicial: f.Simplicial,
	}
}

// Simplex is a cell of the triangulation.
//
// Key lists dim generator indices in ascending order. Height is the value of
// the generator that created the simplex on the facet it was placed over
// (0 for the start simplex). Vol is |det| when volumes were evaluated and
// zero otherwise. Excluded has bit i set when the simplex facet opposite
// Key[i] is excluded by the order vector.
type Simplex[T num.Integer[T]] struct {
	Key      []int
	Height   T
	Vol      T
	Excluded bitset.Set
}

// Stats counts engine work.
type Stats struct {
	Comparisons       int // (positive, negative) pairs examined
	FacetsCreated     int
	RecursivePyramids int
	StoredPyramids    int
	Simplices         int
	Flushes           int
}

func (s *Stats) merge(o Stats) {
	s.Comparisons += o.Comparisons
	s.FacetsCreated += o.FacetsCreated
	s.RecursivePyramids += o.RecursivePyramids
	s.StoredPyramids += o.StoredPyramids
	s.Simplices += o.Simplices
	s.Flushes += o.Flushes
}

// Result is the outcome of Build or Resume.
type Result[T num.Integer[T]] struct {
	// Dim is the ambient (and cone) dimension.
	Dim int

	// Facets are sorted lexicographically by Hyp.
	Facets []Facet[T]

	// Pointed reports whether the facets have full rank.
	Pointed bool

	// ExtremeRays indexes one generator per extreme ray (pointed cones only).
	ExtremeRays []int

	// Triangulation is set with WithKeepTriangulation.
	Triangulation []Simplex[T]

	// TriangulationSize counts simplices whenever a triangulation was built.
	TriangulationSize int

	// Volume is the sum of |det| over all simplices (WithVolumes or a grading).
	Volume *big.Int

	// Multiplicity is Σ det/∏deg over all simplices (with a grading).
	Multiplicity *big.Rat

	Stats Stats

	state *snapshotState[T]
}

// idAllocator hands out facet identities from one residue class, so
// allocators with distinct classes never collide.
type idAllocator struct {
	next uint64
	step uint64
}

func newIDAllocator(base uint64, class, classes int) *idAllocator {
	return &idAllocator{next: base + uint64(class), step: uint64(classes)}
}

func (a *idAllocator) take() uint64 {
	id := a.next
	a.next += a.step

	return id
}
