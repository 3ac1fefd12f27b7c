// SPDX-License-Identifier: MIT

package cone

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Params are the numeric parameters of a computation. Zero leaves the
// option value in force.
type Params struct {
	// ExpansionDegree is the last degree of the Hilbert function expansion.
	ExpansionDegree int `mapstructure:"expansion_degree"`
	// DescentCodimBound overrides WithCodimBound.
	DescentCodimBound int `mapstructure:"descent_codim_bound"`
	// DecimalDigits is the precision of MultiplicityDecimal.
	DecimalDigits int `mapstructure:"decimal_digits"`
	// BlockSize overrides WithBlockSize.
	BlockSize int `mapstructure:"block_size"`
	// GensPerSimplexBound overrides WithPyramidFactor.
	GensPerSimplexBound int `mapstructure:"gens_per_simplex_bound"`
	// OrbitEnumerationBound overrides WithOrbitBound.
	OrbitEnumerationBound int `mapstructure:"orbit_enumeration_bound"`
}

// DecodeParams decodes a sparse name → value map. Unknown names and
// negative values are rejected.
func DecodeParams(raw map[string]int) (Params, error) {
	var p Params
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &p,
	})
	if err != nil {
		return Params{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Params{}, fmt.Errorf("%w: numeric parameters: %w", ErrBadInput, err)
	}
	for name, v := range raw {
		if v < 0 {
			return Params{}, fmt.Errorf("%w: numeric parameter %s is negative", ErrBadInput, name)
		}
	}

	return p, nil
}

// apply folds the non-zero parameters into o.
func (p Params) apply(o Options) Options {
	if p.DescentCodimBound > 0 {
		o.CodimBound = p.DescentCodimBound
	}
	if p.BlockSize > 0 {
		o.BlockSize = p.BlockSize
	}
	if p.GensPerSimplexBound > 0 {
		o.PyramidFactor = p.GensPerSimplexBound
	}
	if p.OrbitEnumerationBound > 0 {
		o.OrbitBound = p.OrbitEnumerationBound
	}

	return o
}
