// SPDX-License-Identifier: MIT

package bitset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const wordBits = 64

// ErrCorrupt is returned by UnmarshalBinary/UnmarshalText on malformed input.
var ErrCorrupt = errors.New("bitset: corrupt encoding")

// Set is a dynamic bit vector of logical size Len().
type Set struct {
	words []uint64
	n     int
}

func wordsFor(n int) int { return (n + wordBits - 1) / wordBits }

// New returns an all-zero set of logical size n.
func New(n int) Set {
	if n < 0 {
		panic("bitset.New: negative size")
	}

	return Set{words: make([]uint64, wordsFor(n)), n: n}
}

// FromIndices returns a set of size n with the given bits set.
func FromIndices(n int, idx ...int) Set {
	s := New(n)
	for _, i := range idx {
		s.Set(i)
	}

	return s
}

// Full returns a set of size n with every bit set.
func Full(n int) Set {
	s := New(n)
	for i := range s.words {
		s.words[i] = ^uint64(0)
	}
	s.trim()

	return s
}

func (s *Set) trim() {
	if r := s.n % wordBits; r != 0 && len(s.words) > 0 {
		s.words[len(s.words)-1] &= (uint64(1) << uint(r)) - 1
	}
}

func (s Set) check(i int, op string) {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("bitset.%s: index %d out of range [0,%d)", op, i, s.n))
	}
}

// Len is the logical size.
func (s Set) Len() int { return s.n }

// Set sets bit i.
func (s *Set) Set(i int) {
	s.check(i, "Set")
	s.words[i/wordBits] |= uint64(1) << uint(i%wordBits)
}

// Clear clears bit i.
func (s *Set) Clear(i int) {
	s.check(i, "Clear")
	s.words[i/wordBits] &^= uint64(1) << uint(i%wordBits)
}

// Test reports whether bit i is set.
func (s Set) Test(i int) bool {
	s.check(i, "Test")

	return s.words[i/wordBits]&(uint64(1)<<uint(i%wordBits)) != 0
}

// Count returns the number of set bits.
func (s Set) Count() int {
	c := 0
	for _, w := range s.words {
		c += bits.OnesCount64(w)
	}

	return c
}

// Any reports whether at least one bit is set.
func (s Set) Any() bool {
	for _, w := range s.words {
		if w != 0 {
			return true
		}
	}

	return false
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	w := make([]uint64, len(s.words))
	copy(w, s.words)

	return Set{words: w, n: s.n}
}

// Resize changes the logical size; new bits are zero, dropped bits are lost.
func (s *Set) Resize(n int) {
	w := make([]uint64, wordsFor(n))
	copy(w, s.words)
	s.words, s.n = w, n
	s.trim()
}

func mustMatch(a, b Set, op string) {
	if a.n != b.n {
		panic(fmt.Sprintf("bitset.%s: size mismatch %d vs %d", op, a.n, b.n))
	}
}

// And returns a ∩ b.
func And(a, b Set) Set {
	mustMatch(a, b, "And")
	out := Set{words: make([]uint64, len(a.words)), n: a.n}
	for i := range a.words {
		out.words[i] = a.words[i] & b.words[i]
	}

	return out
}

// Or returns a ∪ b.
func Or(a, b Set) Set {
	mustMatch(a, b, "Or")
	out := Set{words: make([]uint64, len(a.words)), n: a.n}
	for i := range a.words {
		out.words[i] = a.words[i] | b.words[i]
	}

	return out
}

// AndNot returns a \ b.
func AndNot(a, b Set) Set {
	mustMatch(a, b, "AndNot")
	out := Set{words: make([]uint64, len(a.words)), n: a.n}
	for i := range a.words {
		out.words[i] = a.words[i] &^ b.words[i]
	}

	return out
}

// AndCount returns |a ∩ b| without allocating.
func AndCount(a, b Set) int {
	mustMatch(a, b, "AndCount")
	c := 0
	for i := range a.words {
		c += bits.OnesCount64(a.words[i] & b.words[i])
	}

	return c
}

// InPlaceAnd sets s = s ∩ b.
func (s *Set) InPlaceAnd(b Set) {
	mustMatch(*s, b, "InPlaceAnd")
	for i := range s.words {
		s.words[i] &= b.words[i]
	}
}

// InPlaceOr sets s = s ∪ b.
func (s *Set) InPlaceOr(b Set) {
	mustMatch(*s, b, "InPlaceOr")
	for i := range s.words {
		s.words[i] |= b.words[i]
	}
}

// IsSubsetOf reports whether every bit of s is set in b.
func (s Set) IsSubsetOf(b Set) bool {
	mustMatch(s, b, "IsSubsetOf")
	for i := range s.words {
		if s.words[i]&^b.words[i] != 0 {
			return false
		}
	}

	return true
}

// Equal reports whether both sets have the same size and bits.
func (s Set) Equal(b Set) bool {
	if s.n != b.n {
		return false
	}
	for i := range s.words {
		if s.words[i] != b.words[i] {
			return false
		}
	}

	return true
}

// Less orders sets by size first, then by limbs from the most significant
// down. It is a strict total order on sets.
func (s Set) Less(b Set) bool {
	if s.n != b.n {
		return s.n < b.n
	}
	for i := len(s.words) - 1; i >= 0; i-- {
		if s.words[i] != b.words[i] {
			return s.words[i] < b.words[i]
		}
	}

	return false
}

// NextSet returns the smallest set index ≥ from, or -1.
func (s Set) NextSet(from int) int {
	if from < 0 {
		from = 0
	}
	if from >= s.n {
		return -1
	}
	wi := from / wordBits
	w := s.words[wi] >> uint(from%wordBits)
	if w != 0 {
		return from + bits.TrailingZeros64(w)
	}
	for wi++; wi < len(s.words); wi++ {
		if s.words[wi] != 0 {
			return wi*wordBits + bits.TrailingZeros64(s.words[wi])
		}
	}

	return -1
}

// First returns the smallest set index, or -1.
func (s Set) First() int { return s.NextSet(0) }

// Indices lists the set bits in increasing order.
func (s Set) Indices() []int {
	out := make([]int, 0, s.Count())
	for i := s.First(); i >= 0; i = s.NextSet(i + 1) {
		out = append(out, i)
	}

	return out
}

// Key returns a compact string usable as a map key. Sets of different sizes
// never share a key.
func (s Set) Key() string {
	buf := make([]byte, 8+8*len(s.words))
	binary.LittleEndian.PutUint64(buf, uint64(s.n))
	for i, w := range s.words {
		binary.LittleEndian.PutUint64(buf[8+8*i:], w)
	}

	return string(buf)
}

// Hash64 returns the xxhash digest of Key.
func (s Set) Hash64() uint64 { return xxhash.Sum64String(s.Key()) }

// String renders the set as a 0/1 string, index 0 first.
func (s Set) String() string {
	var b strings.Builder
	b.Grow(s.n)
	for i := 0; i < s.n; i++ {
		if s.Test(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}

	return b.String()
}

// MarshalBinary encodes size, limb count and limbs in little-endian order.
func (s Set) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 16+8*len(s.words))
	binary.LittleEndian.PutUint64(buf[0:8], uint64(s.n))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(len(s.words)))
	for i, w := range s.words {
		binary.LittleEndian.PutUint64(buf[16+8*i:], w)
	}

	return buf, nil
}

// UnmarshalBinary decodes the MarshalBinary layout.
func (s *Set) UnmarshalBinary(data []byte) error {
	if len(data) < 16 {
		return io.ErrUnexpectedEOF
	}
	n := binary.LittleEndian.Uint64(data[0:8])
	nw := binary.LittleEndian.Uint64(data[8:16])
	if uint64(len(data)) < 16+nw*8 {
		return io.ErrUnexpectedEOF
	}
	if nw != uint64(wordsFor(int(n))) {
		return fmt.Errorf("%w: size %d needs %d limbs, got %d", ErrCorrupt, n, wordsFor(int(n)), nw)
	}
	s.n = int(n)
	s.words = make([]uint64, nw)
	for i := range s.words {
		s.words[i] = binary.LittleEndian.Uint64(data[16+8*i:])
	}
	s.trim()

	return nil
}

// MarshalText encodes the set as its 0/1 string.
func (s Set) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a 0/1 string.
func (s *Set) UnmarshalText(text []byte) error {
	*s = New(len(text))
	for i, c := range text {
		switch c {
		case '1':
			s.Set(i)
		case '0':
		default:
			return fmt.Errorf("%w: byte %q at %d", ErrCorrupt, c, i)
		}
	}

	return nil
}
