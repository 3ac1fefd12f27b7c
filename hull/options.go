// SPDX-License-Identifier: MIT

package hull

import (
	"fmt"
	"math/big"
	"runtime"

	"go.uber.org/zap"
)

// Order selects the insertion order of the generators that follow the
// start simplex.
type Order int

const (
	// OrderInput inserts generators in input order.
	OrderInput Order = iota
	// OrderByDegree inserts generators by increasing degree (grading value,
	// or the 1-norm without grading); ties keep input order.
	OrderByDegree
)

// Defaults.
const (
	DefaultPyramidFactor     = 8
	DefaultEvalBufferSize    = 4096
	DefaultRankTestThreshold = 250
)

// StepShape describes a Fourier–Motzkin step to a PyramidPolicy.
type StepShape struct {
	Level      int // 0 for the top cone
	Dim        int
	Positive   int
	Negative   int
	Generators int // generators of the (sub)cone
}

// PyramidPolicy decides when steps go through pyramids.
//
// Recursive reports whether the step should compute new facets through
// pyramids over the negative facets. Store reports whether a pyramid with
// keyLen generators is handed to the worker pool instead of being processed
// inline; it is only consulted at level 0.
type PyramidPolicy struct {
	Recursive func(StepShape) bool
	Store     func(keyLen, dim int) bool
}

// DefaultPyramidPolicy pyramidizes when Positive·Negative > factor·dim⁴ and
// the cone has more than dim+1 generators; pyramids with more than 3·dim
// generators are stored for the worker pool.
func DefaultPyramidPolicy(factor int) PyramidPolicy {
	return PyramidPolicy{
		Recursive: func(s StepShape) bool {
			d4 := s.Dim * s.Dim * s.Dim * s.Dim

			return s.Generators > s.Dim+1 && s.Positive*s.Negative > factor*d4
		},
		Store: func(keyLen, dim int) bool { return keyLen > 3*dim },
	}
}

// Option configures Build, Dual and Resume.
// An invalid Option is recorded and surfaced as ErrOptionViolation when the
// engine is invoked.
type Option func(*Options)

// Options holds engine parameters.
type Options struct {
	// Threads bounds the worker pool for stored pyramids and evaluation.
	Threads int

	// KeepTriangulation retains the simplices in the Result.
	KeepTriangulation bool

	// Volumes computes |det| of every simplex and their sum.
	Volumes bool

	// Grading, if set, makes the engine compute the multiplicity.
	Grading []*big.Int

	// BottomDecomposition picks the start simplex among low-degree generators.
	BottomDecomposition bool

	// Order of insertion after the start simplex.
	Order Order

	// Pyramids decides when pyramids are used.
	Pyramids PyramidPolicy

	// RankTest forces the rank adjacency test; otherwise it is used once
	// the facet count reaches RankTestThreshold.
	RankTest          bool
	RankTestThreshold int

	// EvalBufferSize bounds the number of unevaluated simplices.
	EvalBufferSize int

	// OrderVector, if set, makes the engine compute excluded-facet masks.
	OrderVector []*big.Int

	Logger  *zap.Logger
	Metrics *Metrics

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns the engine defaults: GOMAXPROCS workers, no
// triangulation output, input order, the default pyramid policy, the
// combinatorial test below DefaultRankTestThreshold facets and a no-op logger.
func DefaultOptions() Options {
	return Options{
		Threads:           runtime.GOMAXPROCS(0),
		Order:             OrderInput,
		Pyramids:          DefaultPyramidPolicy(DefaultPyramidFactor),
		RankTestThreshold: DefaultRankTestThreshold,
		EvalBufferSize:    DefaultEvalBufferSize,
		Logger:            zap.NewNop(),
	}
}

func (o *Options) violate(format string, args ...any) {
	if o.err == nil {
		o.err = fmt.Errorf("%w: "+format, append([]any{ErrOptionViolation}, args...)...)
	}
}

// WithThreads sets the worker pool size (n ≥ 1).
func WithThreads(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.violate("threads must be positive, got %d", n)

			return
		}
		o.Threads = n
	}
}

// WithKeepTriangulation retains the triangulation in the Result.
func WithKeepTriangulation(on bool) Option {
	return func(o *Options) { o.KeepTriangulation = on }
}

// WithVolumes requests simplex determinants and their sum.
func WithVolumes(on bool) Option {
	return func(o *Options) { o.Volumes = on }
}

// WithGrading sets the grading used for the multiplicity and OrderByDegree.
func WithGrading(g []*big.Int) Option {
	return func(o *Options) { o.Grading = g }
}

// WithBottomDecomposition selects the start simplex among generators of
// smallest degree.
func WithBottomDecomposition(on bool) Option {
	return func(o *Options) { o.BottomDecomposition = on }
}

// WithOrder sets the insertion order.
func WithOrder(ord Order) Option {
	return func(o *Options) {
		if ord != OrderInput && ord != OrderByDegree {
			o.violate("unknown order %d", ord)

			return
		}
		o.Order = ord
	}
}

// WithPyramidPolicy replaces the pyramid policy; nil functions mean "never".
func WithPyramidPolicy(p PyramidPolicy) Option {
	return func(o *Options) {
		if p.Recursive == nil {
			p.Recursive = func(StepShape) bool { return false }
		}
		if p.Store == nil {
			p.Store = func(int, int) bool { return false }
		}
		o.Pyramids = p
	}
}

// WithRankTest forces the rank adjacency test.
func WithRankTest(on bool) Option {
	return func(o *Options) { o.RankTest = on }
}

// WithRankTestThreshold sets the facet count from which the rank test is used.
func WithRankTestThreshold(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.violate("rank test threshold must be non-negative, got %d", n)

			return
		}
		o.RankTestThreshold = n
	}
}

// WithEvalBufferSize bounds the evaluation buffer (n ≥ 1).
func WithEvalBufferSize(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.violate("evaluation buffer size must be positive, got %d", n)

			return
		}
		o.EvalBufferSize = n
	}
}

// WithOrderVector sets the vector that decides excluded simplex facets.
func WithOrderVector(v []*big.Int) Option {
	return func(o *Options) { o.OrderVector = v }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics attaches engine metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
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

// triangulating reports whether the engine has to build a triangulation.
func (o *Options) triangulating() bool {
	return o.KeepTriangulation || o.Volumes || o.Grading != nil || o.OrderVector != nil
}

// evaluating reports whether simplices need determinants.
func (o *Options) evaluating() bool {
	return o.Volumes || o.Grading != nil || o.OrderVector != nil
}
