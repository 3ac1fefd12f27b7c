// SPDX-License-Identifier: MIT

package automorph

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Labeling lists generator and form indices in canonical order.
type Labeling struct {
	Generators []int
	Forms      []int
}

// CanonicalType is the indexed pairing data relabeled canonically. Two
// inputs have equal canonical types exactly when an isomorphism respecting
// quality and colors maps one onto the other.
type CanonicalType struct {
	Quality         Quality
	Rows, Cols      int
	Values          []*big.Int
	Cross           [][]int
	Self            [][]int
	GeneratorColors []int
	FormColors      []int
}

func newCanonicalType(q Quality, vm *valueMatrix, lab Labeling, genClass, formClass []int) *CanonicalType {
	ct := &CanonicalType{Quality: q, Rows: vm.rows, Cols: vm.cols}
	for _, v := range vm.values {
		ct.Values = append(ct.Values, new(big.Int).Set(v))
	}
	if vm.cross != nil {
		ct.Cross = make([][]int, len(lab.Generators))
		for k, i := range lab.Generators {
			ct.Cross[k] = make([]int, len(lab.Forms))
			for l, j := range lab.Forms {
				ct.Cross[k][l] = vm.cross[i][j]
			}
		}
	}
	if vm.self != nil {
		ct.Self = make([][]int, len(lab.Generators))
		for k, i := range lab.Generators {
			ct.Self[k] = make([]int, len(lab.Generators))
			for l, j := range lab.Generators {
				ct.Self[k][l] = vm.self[i][j]
			}
		}
	}
	for _, i := range lab.Generators {
		ct.GeneratorColors = append(ct.GeneratorColors, genClass[i])
	}
	for _, j := range lab.Forms {
		ct.FormColors = append(ct.FormColors, formClass[j])
	}

	return ct
}

// Key is a complete textual encoding of the type.
func (c *CanonicalType) Key() string {
	var b strings.Builder
	b.WriteString(c.Quality.String())
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(c.Rows))
	b.WriteByte('x')
	b.WriteString(strconv.Itoa(c.Cols))
	b.WriteString("|v")
	for _, v := range c.Values {
		b.WriteByte(' ')
		b.WriteString(v.String())
	}
	writeMatrix := func(tag string, m [][]int) {
		b.WriteString("|" + tag)
		for _, row := range m {
			b.WriteByte(';')
			for j, x := range row {
				if j > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.Itoa(x))
			}
		}
	}
	writeMatrix("c", c.Cross)
	writeMatrix("s", c.Self)
	writeMatrix("k", [][]int{c.GeneratorColors, c.FormColors})

	return b.String()
}

// Fingerprint hashes Key with xxhash; use Equal to resolve collisions.
func (c *CanonicalType) Fingerprint() uint64 {
	return xxhash.Sum64String(c.Key())
}

// Equal reports whether c and o encode the same type.
func (c *CanonicalType) Equal(o *CanonicalType) bool {
	if c == nil || o == nil {
		return c == o
	}

	return c.Key() == o.Key()
}
