// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the lattice constructors.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Options fields are unexported; public APIs consume ...Option.
package matrix

import "math/big"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultReduceBasis runs LLL on every sublattice basis before it is used
	// as a coordinate system.
	DefaultReduceBasis = true

	// DefaultLLLDeltaNum / DefaultLLLDeltaDen give the Lovász constant 3/4.
	DefaultLLLDeltaNum = 3
	DefaultLLLDeltaDen = 4
)

const panicDeltaInvalid = "matrix: WithLLLDelta: delta must lie in (1/4, 1]"

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	reduceBasis bool
	delta       *big.Rat
}

// WithReduceBasis toggles LLL reduction of sublattice bases.
func WithReduceBasis(on bool) Option {
	return func(o *Options) { o.reduceBasis = on }
}

// WithLLLDelta sets the Lovász constant num/den.
//
// Errors:
//   - Panics when num/den is outside (1/4, 1].
func WithLLLDelta(num, den int64) Option {
	if den <= 0 {
		panic(panicDeltaInvalid)
	}
	d := big.NewRat(num, den)
	if d.Cmp(big.NewRat(1, 4)) <= 0 || d.Cmp(big.NewRat(1, 1)) > 0 {
		panic(panicDeltaInvalid)
	}

	return func(o *Options) { o.delta = d }
}

func defaultOptions() Options {
	return Options{
		reduceBasis: DefaultReduceBasis,
		delta:       big.NewRat(DefaultLLLDeltaNum, DefaultLLLDeltaDen),
	}
}

func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
