// SPDX-License-Identifier: MIT

package cone

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/polymake/polymake-sub008/automorph"
	"github.com/polymake/polymake-sub008/descent"
	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/num"
	"github.com/polymake/polymake-sub008/signeddec"
)

// Option configures a Cone.
type Option func(*Options)

// Options holds the façade parameters. Engine defaults apply where a
// field is zero.
type Options struct {
	Threads int

	// StartWidth is the first integer width tried; Retry moves to the next
	// width on overflow.
	StartWidth num.Width
	Retry      bool

	PyramidFactor     int
	EvalBufferSize    int
	RankTestThreshold int

	// KeepTriangulation retains the triangulation whenever one is built.
	KeepTriangulation bool

	BlockSize  int
	CodimBound int
	OrbitBound int

	// Quality is the structure automorphisms preserve.
	Quality automorph.Quality

	Logger  *zap.Logger
	Metrics *hull.Metrics

	err error
}

// DefaultOptions starts at int64 with retry, GOMAXPROCS threads and the
// engine defaults.
func DefaultOptions() Options {
	return Options{
		Threads:           runtime.GOMAXPROCS(0),
		StartWidth:        num.Width64,
		Retry:             true,
		PyramidFactor:     hull.DefaultPyramidFactor,
		EvalBufferSize:    hull.DefaultEvalBufferSize,
		RankTestThreshold: hull.DefaultRankTestThreshold,
		BlockSize:         signeddec.DefaultBlockSize,
		OrbitBound:        descent.DefaultOrbitBound,
		Quality:           automorph.Rational,
		Logger:            zap.NewNop(),
	}
}

func (o *Options) violate(format string, args ...any) {
	if o.err == nil {
		o.err = fmt.Errorf("%w: "+format, append([]any{ErrOptionViolation}, args...)...)
	}
}

// WithThreads bounds every worker pool (n ≥ 1).
func WithThreads(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.violate("threads must be positive, got %d", n)

			return
		}
		o.Threads = n
	}
}

// WithStartWidth sets the first integer width tried.
func WithStartWidth(w num.Width) Option {
	return func(o *Options) {
		if w < num.Width32 || w > num.WidthBig {
			o.violate("unknown width %v", w)

			return
		}
		o.StartWidth = w
	}
}

// WithoutRetry makes an overflow fatal instead of restarting at a wider
// width.
func WithoutRetry() Option {
	return func(o *Options) { o.Retry = false }
}

// WithPyramidFactor sets the factor of the default pyramid policy (n ≥ 1).
func WithPyramidFactor(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.violate("pyramid factor must be positive, got %d", n)

			return
		}
		o.PyramidFactor = n
	}
}

// WithEvalBufferSize bounds the simplex evaluation buffer (n ≥ 1).
func WithEvalBufferSize(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.violate("eval buffer size must be positive, got %d", n)

			return
		}
		o.EvalBufferSize = n
	}
}

// WithRankTestThreshold sets the facet count from which the rank
// adjacency test is used (n ≥ 0).
func WithRankTestThreshold(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.violate("rank test threshold must be non-negative, got %d", n)

			return
		}
		o.RankTestThreshold = n
	}
}

// WithKeepTriangulation keeps every triangulation that is built.
func WithKeepTriangulation(on bool) Option {
	return func(o *Options) { o.KeepTriangulation = on }
}

// WithBlockSize sets the hollow triangulation block size (n ≥ 1).
func WithBlockSize(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.violate("block size must be positive, got %d", n)

			return
		}
		o.BlockSize = n
	}
}

// WithCodimBound sets the descent codimension bound (0 = none).
func WithCodimBound(k int) Option {
	return func(o *Options) {
		if k < 0 {
			o.violate("codimension bound must be non-negative, got %d", k)

			return
		}
		o.CodimBound = k
	}
}

// WithOrbitBound bounds orbit enumeration in descent (n ≥ 1).
func WithOrbitBound(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.violate("orbit bound must be positive, got %d", n)

			return
		}
		o.OrbitBound = n
	}
}

// WithAutomorphismQuality sets the structure automorphisms preserve.
func WithAutomorphismQuality(q automorph.Quality) Option {
	return func(o *Options) {
		switch q {
		case automorph.Combinatorial, automorph.Rational, automorph.Euclidean:
			o.Quality = q
		default:
			o.violate("unknown automorphism quality %v", q)
		}
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

// WithMetrics records engine counters and overflow retries on m.
func WithMetrics(m *hull.Metrics) Option {
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
