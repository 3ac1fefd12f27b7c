// SPDX-License-Identifier: MIT

package cone

import (
	"fmt"
	"strings"
)

// Property names something Compute can produce, or an algorithm flag.
type Property int

const (
	SupportHyperplanes Property = iota
	ExtremeRays
	MaximalSubspace
	Equations
	Sublattice
	Rank
	IsPointed
	Triangulation
	TriangulationSize
	Volume
	Multiplicity
	HilbertBasis
	Deg1Elements
	HVector
	Automorphisms
	VerticesOfPolyhedron
	RecessionRank

	// Algorithm flags. They select how properties are computed and are
	// never reported as remaining.
	DualMode
	PrimalMode
	Descent
	SignedDec
	BottomDecomposition

	numProperties
)

var propertyNames = [numProperties]string{
	"SupportHyperplanes",
	"ExtremeRays",
	"MaximalSubspace",
	"Equations",
	"Sublattice",
	"Rank",
	"IsPointed",
	"Triangulation",
	"TriangulationSize",
	"Volume",
	"Multiplicity",
	"HilbertBasis",
	"Deg1Elements",
	"HVector",
	"Automorphisms",
	"VerticesOfPolyhedron",
	"RecessionRank",
	"DualMode",
	"PrimalMode",
	"Descent",
	"SignedDec",
	"BottomDecomposition",
}

func (p Property) String() string {
	if p < 0 || p >= numProperties {
		return fmt.Sprintf("Property(%d)", int(p))
	}

	return propertyNames[p]
}

// IsFlag reports whether p is an algorithm flag.
func (p Property) IsFlag() bool { return p >= DualMode && p < numProperties }

// ParseProperty accepts the names above, case-insensitively.
func ParseProperty(s string) (Property, error) {
	for i, name := range propertyNames {
		if strings.EqualFold(s, name) {
			return Property(i), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown property %q", ErrOptionViolation, s)
}

// propertySet is a set of properties and flags.
type propertySet uint32

func setOf(ps ...Property) propertySet {
	var s propertySet
	for _, p := range ps {
		s = s.with(p)
	}

	return s
}

func (s propertySet) has(p Property) bool { return s&(1<<uint(p)) != 0 }

func (s propertySet) with(p Property) propertySet { return s | 1<<uint(p) }

func (s propertySet) without(p Property) propertySet { return s &^ (1 << uint(p)) }

func (s propertySet) any(ps ...Property) bool {
	for _, p := range ps {
		if s.has(p) {
			return true
		}
	}

	return false
}

// list returns the properties of s in declaration order, flags excluded.
func (s propertySet) list() []Property {
	var out []Property
	for p := Property(0); p < DualMode; p++ {
		if s.has(p) {
			out = append(out, p)
		}
	}

	return out
}

// closure adds the properties the members of s are computed from.
func (s propertySet) closure() propertySet {
	if s.has(Deg1Elements) {
		s = s.with(HilbertBasis)
	}
	if s.any(VerticesOfPolyhedron, RecessionRank) {
		s = s.with(ExtremeRays).with(MaximalSubspace)
	}

	return s
}
