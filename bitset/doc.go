// SPDX-License-Identifier: MIT

// Package bitset provides the fixed-capacity incidence vector used across the
// cone engines: "generator g lies on facet f", "facet f contains face F",
// "generator g is already inserted".
//
// A Set has a logical size n fixed at construction (Resize may grow it when
// generators are appended to a dynamic cone). Bits beyond n are always zero,
// which lets Equal, Count and Hash64 work on whole 64-bit limbs.
//
// Sets are ordered (Less) and hashable (Key, Hash64) so they can serve as map
// keys for face caches and as bucket selectors for hollow triangulations.
//
// Out-of-range indices panic: they are programmer errors, never user input.
package bitset
