// SPDX-License-Identifier: MIT

package signeddec

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

func subfacetKey(forms []int) string {
	parts := make([]string, len(forms))
	for i, f := range forms {
		parts[i] = strconv.Itoa(f)
	}

	return strings.Join(parts, ",")
}

// blockCount returns the number of hash blocks for the given number of
// simplices of dimension d.
func blockCount(simplices, d, blockSize int) int {
	n := (simplices*d + blockSize - 1) / blockSize
	if n < 1 {
		n = 1
	}

	return n
}

type hollowEntry struct {
	forms []int
	count int
}

// hollowBlock returns the subfacets of block b (of nb) that lie in exactly
// one simplex, sorted lexicographically. Simplex keys must be ascending.
func hollowBlock(simplices [][]int, b, nb int) [][]int {
	seen := make(map[string]*hollowEntry)
	sub := make([]int, 0, 16)
	for _, key := range simplices {
		for drop := range key {
			sub = sub[:0]
			sub = append(sub, key[:drop]...)
			sub = append(sub, key[drop+1:]...)
			k := subfacetKey(sub)
			if xxhash.Sum64String(k)%uint64(nb) != uint64(b) {
				continue
			}
			if e, ok := seen[k]; ok {
				e.count++

				continue
			}
			seen[k] = &hollowEntry{forms: append([]int(nil), sub...), count: 1}
		}
	}
	var out [][]int
	for _, e := range seen {
		if e.count == 1 {
			out = append(out, e.forms)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, c := out[i], out[j]
		for k := range a {
			if a[k] != c[k] {
				return a[k] < c[k]
			}
		}

		return false
	})

	return out
}

// replacement returns (dropped, added) when next differs from cur in exactly
// one form; ok is false otherwise. cur may be unordered, next is ascending.
func replacement(cur, next []int) (dropped, added int, ok bool) {
	in := make(map[int]bool, len(cur))
	for _, f := range cur {
		in[f] = true
	}
	added = -1
	for _, f := range next {
		if in[f] {
			delete(in, f)

			continue
		}
		if added >= 0 {
			return 0, 0, false
		}
		added = f
	}
	if added < 0 || len(in) != 1 {
		return 0, 0, false
	}
	for f := range in {
		dropped = f
	}

	return dropped, added, true
}
