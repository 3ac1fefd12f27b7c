// SPDX-License-Identifier: MIT

package hilbert

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// Option configures HilbertBasis and HVector.
type Option func(*Options)

// Options holds worker and logging parameters.
type Options struct {
	Threads int
	Logger  *zap.Logger

	err error
}

// DefaultOptions returns GOMAXPROCS workers and a no-op logger.
func DefaultOptions() Options {
	return Options{Threads: runtime.GOMAXPROCS(0), Logger: zap.NewNop()}
}

// WithThreads sets the number of simplices processed concurrently (n ≥ 1).
func WithThreads(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: threads must be positive, got %d", ErrOptionViolation, n)

			return
		}
		o.Threads = n
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
