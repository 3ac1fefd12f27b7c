// SPDX-License-Identifier: MIT

package automorph

import (
	"fmt"

	"go.uber.org/zap"
)

// Quality selects the structure an automorphism must preserve.
type Quality uint8

const (
	// Combinatorial preserves the zero pattern of the pairing.
	Combinatorial Quality = iota
	// Rational preserves exact pairing values.
	Rational
	// Euclidean preserves squared distances between generators.
	Euclidean
)

// String returns the lowercase quality name.
func (q Quality) String() string {
	switch q {
	case Combinatorial:
		return "combinatorial"
	case Rational:
		return "rational"
	case Euclidean:
		return "euclidean"
	default:
		return fmt.Sprintf("quality(%d)", uint8(q))
	}
}

// Option configures Compute.
type Option func(*Options)

// Options holds the coloring constraints and the logger.
//
// Generators with different colors are never exchanged; a fixed generator
// is mapped to itself by every automorphism. The same holds for forms.
type Options struct {
	FixedGenerators []int
	FixedForms      []int
	GeneratorColors []int
	FormColors      []int
	Logger          *zap.Logger

	err error
}

// DefaultOptions makes all generators and all forms interchangeable.
func DefaultOptions() Options {
	return Options{Logger: zap.NewNop()}
}

// WithFixedGenerators pins the given generator indices.
func WithFixedGenerators(idx ...int) Option {
	return func(o *Options) {
		o.FixedGenerators = append(o.FixedGenerators, idx...)
	}
}

// WithFixedForms pins the given form indices.
func WithFixedForms(idx ...int) Option {
	return func(o *Options) {
		o.FixedForms = append(o.FixedForms, idx...)
	}
}

// WithGeneratorColors assigns a color to every generator; the slice length
// must match the number of generators.
func WithGeneratorColors(colors []int) Option {
	return func(o *Options) {
		if colors == nil {
			o.err = fmt.Errorf("%w: nil generator colors", ErrOptionViolation)

			return
		}
		o.GeneratorColors = append([]int(nil), colors...)
	}
}

// WithFormColors assigns a color to every linear form.
func WithFormColors(colors []int) Option {
	return func(o *Options) {
		if colors == nil {
			o.err = fmt.Errorf("%w: nil form colors", ErrOptionViolation)

			return
		}
		o.FormColors = append([]int(nil), colors...)
	}
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
