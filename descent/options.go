// SPDX-License-Identifier: MIT

package descent

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/polymake/polymake-sub008/automorph"
)

// DefaultOrbitBound caps the group order for which orbits are enumerated.
const DefaultOrbitBound = 5000

// Option configures Multiplicity.
type Option func(*Options)

// Options holds the descent parameters.
type Options struct {
	Threads          int
	Group            *automorph.Group
	OrbitBound       int
	CodimBound       int // 0: descend to simplicial faces
	IsomorphismCache bool
	Logger           *zap.Logger

	err error
}

// DefaultOptions returns GOMAXPROCS workers, no group and no codimension
// bound.
func DefaultOptions() Options {
	return Options{
		Threads:    runtime.GOMAXPROCS(0),
		OrbitBound: DefaultOrbitBound,
		Logger:     zap.NewNop(),
	}
}

// WithThreads sets the number of faces processed concurrently (n ≥ 1).
func WithThreads(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: threads must be positive, got %d", ErrOptionViolation, n)

			return
		}
		o.Threads = n
	}
}

// WithAutomorphisms merges faces lying in one orbit of g. The group must
// act on the rays and facets passed to Multiplicity, in that order. It is
// used only when its linear maps are integral, it preserves the grading
// and its order does not exceed the orbit bound.
func WithAutomorphisms(g *automorph.Group) Option {
	return func(o *Options) { o.Group = g }
}

// WithOrbitBound sets the largest group order for orbit merging (n ≥ 1).
func WithOrbitBound(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: orbit bound must be positive, got %d", ErrOptionViolation, n)

			return
		}
		o.OrbitBound = n
	}
}

// WithCodimBound stops the descent at codimension k; faces left there are
// triangulated and finished exactly. k = 0 disables the bound.
func WithCodimBound(k int) Option {
	return func(o *Options) {
		if k < 0 {
			o.err = fmt.Errorf("%w: negative codimension bound %d", ErrOptionViolation, k)

			return
		}
		o.CodimBound = k
	}
}

// WithIsomorphismCache reuses the multiplicity of a finished face for later
// faces that are unimodularly isomorphic to it with equal grading.
func WithIsomorphismCache(on bool) Option {
	return func(o *Options) { o.IsomorphismCache = on }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func gatherOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o, o.err
}
