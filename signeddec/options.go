// SPDX-License-Identifier: MIT

package signeddec

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

const (
	// DefaultBlockSize bounds the subfacets counted per block.
	DefaultBlockSize = 1 << 16
	// DefaultAttempts is the number of generic vectors tried.
	DefaultAttempts = 8
)

// Option configures Multiplicity.
type Option func(*Options)

// Options holds the decomposition parameters.
type Options struct {
	Threads   int
	BlockSize int
	Attempts  int
	Logger    *zap.Logger

	err error
}

// DefaultOptions returns GOMAXPROCS workers and the default block size.
func DefaultOptions() Options {
	return Options{
		Threads:   runtime.GOMAXPROCS(0),
		BlockSize: DefaultBlockSize,
		Attempts:  DefaultAttempts,
		Logger:    zap.NewNop(),
	}
}

// WithThreads sets the number of blocks evaluated concurrently (n ≥ 1).
func WithThreads(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: threads must be positive, got %d", ErrOptionViolation, n)

			return
		}
		o.Threads = n
	}
}

// WithBlockSize sets the approximate number of subfacet candidates per
// block (n ≥ 1).
func WithBlockSize(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: block size must be positive, got %d", ErrOptionViolation, n)

			return
		}
		o.BlockSize = n
	}
}

// WithAttempts sets how many generic vectors are tried (n ≥ 1).
func WithAttempts(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: attempts must be positive, got %d", ErrOptionViolation, n)

			return
		}
		o.Attempts = n
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
