// SPDX-License-Identifier: MIT

package cone

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/polymake/polymake-sub008/automorph"
	"github.com/polymake/polymake-sub008/descent"
	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/num"
	"github.com/polymake/polymake-sub008/signeddec"
)

// Config is the file form of Options.
type Config struct {
	// Threads of 0 means GOMAXPROCS.
	Threads             int    `yaml:"threads" validate:"gte=0"`
	StartWidth          string `yaml:"start_width" validate:"oneof=int32 int64 big"`
	NoRetry             bool   `yaml:"no_retry"`
	PyramidFactor       int    `yaml:"pyramid_factor" validate:"gte=1"`
	EvalBufferSize      int    `yaml:"eval_buffer_size" validate:"gte=1"`
	RankTestThreshold   int    `yaml:"rank_test_threshold" validate:"gte=0"`
	KeepTriangulation   bool   `yaml:"keep_triangulation"`
	BlockSize           int    `yaml:"block_size" validate:"gte=1"`
	CodimBound          int    `yaml:"codim_bound" validate:"gte=0"`
	OrbitBound          int    `yaml:"orbit_bound" validate:"gte=1"`
	AutomorphismQuality string `yaml:"automorphism_quality" validate:"oneof=combinatorial rational euclidean"`
	// LogLevel of "" keeps the no-op logger.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig mirrors DefaultOptions.
func DefaultConfig() Config {
	return Config{
		StartWidth:          num.Width64.String(),
		PyramidFactor:       hull.DefaultPyramidFactor,
		EvalBufferSize:      hull.DefaultEvalBufferSize,
		RankTestThreshold:   hull.DefaultRankTestThreshold,
		BlockSize:           signeddec.DefaultBlockSize,
		OrbitBound:          descent.DefaultOrbitBound,
		AutomorphismQuality: automorph.Rational.String(),
	}
}

var configValidate = validator.New()

// LoadConfig reads configuration with priority environment > file >
// defaults. An empty path skips the file; a missing file is an error.
// Environment variables are the upper-case field tags prefixed with NMZ_,
// for example NMZ_THREADS or NMZ_LOG_LEVEL.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("load config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("%w: parse %s: %w", ErrConfig, path, err)
		}
	}
	if err := c.loadEnv(); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}

	return c, nil
}

func (c *Config) loadEnv() error {
	ints := map[string]*int{
		"NMZ_THREADS":             &c.Threads,
		"NMZ_PYRAMID_FACTOR":      &c.PyramidFactor,
		"NMZ_EVAL_BUFFER_SIZE":    &c.EvalBufferSize,
		"NMZ_RANK_TEST_THRESHOLD": &c.RankTestThreshold,
		"NMZ_BLOCK_SIZE":          &c.BlockSize,
		"NMZ_CODIM_BOUND":         &c.CodimBound,
		"NMZ_ORBIT_BOUND":         &c.OrbitBound,
	}
	for name, dst := range ints {
		if v, ok := os.LookupEnv(name); ok {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrConfig, name, err)
			}
			*dst = i
		}
	}
	bools := map[string]*bool{
		"NMZ_NO_RETRY":           &c.NoRetry,
		"NMZ_KEEP_TRIANGULATION": &c.KeepTriangulation,
	}
	for name, dst := range bools {
		if v, ok := os.LookupEnv(name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrConfig, name, err)
			}
			*dst = b
		}
	}
	strs := map[string]*string{
		"NMZ_START_WIDTH":          &c.StartWidth,
		"NMZ_AUTOMORPHISM_QUALITY": &c.AutomorphismQuality,
		"NMZ_LOG_LEVEL":            &c.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*dst = strings.ToLower(strings.TrimSpace(v))
		}
	}

	return nil
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]

			return fmt.Errorf("%w: %s fails %q (value %v)", ErrConfig, f.Field(), f.Tag(), f.Value())
		}

		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return nil
}

// Options converts c into façade options. A non-empty LogLevel builds a
// production zap logger at that level.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	w, err := num.ParseWidth(c.StartWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	q, err := parseQuality(c.AutomorphismQuality)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithStartWidth(w),
		WithPyramidFactor(c.PyramidFactor),
		WithEvalBufferSize(c.EvalBufferSize),
		WithRankTestThreshold(c.RankTestThreshold),
		WithKeepTriangulation(c.KeepTriangulation),
		WithBlockSize(c.BlockSize),
		WithCodimBound(c.CodimBound),
		WithOrbitBound(c.OrbitBound),
		WithAutomorphismQuality(q),
	}
	if c.Threads > 0 {
		opts = append(opts, WithThreads(c.Threads))
	}
	if c.NoRetry {
		opts = append(opts, WithoutRetry())
	}
	if c.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(lvl)
		logger, err := zc.Build()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLogger(logger))
	}

	return opts, nil
}

func parseQuality(s string) (automorph.Quality, error) {
	for _, q := range []automorph.Quality{automorph.Combinatorial, automorph.Rational, automorph.Euclidean} {
		if strings.EqualFold(s, q.String()) {
			return q, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown automorphism quality %q", ErrConfig, s)
}
