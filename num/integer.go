// SPDX-License-Identifier: MIT

package num

import (
	"math"
	"math/big"
	"strconv"
)

// Integer is the coefficient contract. All methods use value receivers so the
// zero value of T is a usable factory (var z T; z.FromInt64(1)).
type Integer[T any] interface {
	Add(T) (T, bool)
	Sub(T) (T, bool)
	Mul(T) (T, bool)
	// Quo is truncated division. ok is false on overflow or a zero divisor.
	Quo(T) (T, bool)
	// Rem is the truncated remainder; the divisor must be non-zero.
	Rem(T) T
	Neg() (T, bool)
	Abs() (T, bool)
	Cmp(T) int
	Sign() int
	IsZero() bool
	FromInt64(int64) (T, bool)
	FromBig(*big.Int) (T, bool)
	// Big returns a fresh *big.Int the caller may mutate.
	Big() *big.Int
	String() string
}

// Int64 is the 64-bit working width.
type Int64 int64

// Int32 is a 32-bit width; it exists so that overflow retry paths can be
// exercised with small inputs.
type Int32 int32

var (
	_ Integer[Int64]  = Int64(0)
	_ Integer[Int32]  = Int32(0)
	_ Integer[BigInt] = BigInt{}
)

func (a Int64) Add(b Int64) (Int64, bool) {
	c := a + b

	return c, (c > a) == (b > 0)
}

func (a Int64) Sub(b Int64) (Int64, bool) {
	c := a - b

	return c, (c < a) == (b > 0)
}

func (a Int64) Mul(b Int64) (Int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b

	return c, c/b == a
}

func (a Int64) Quo(b Int64) (Int64, bool) {
	if b == 0 || (a == math.MinInt64 && b == -1) {
		return 0, false
	}

	return a / b, true
}

func (a Int64) Rem(b Int64) Int64 {
	if b == -1 {
		return 0
	}

	return a % b
}

func (a Int64) Neg() (Int64, bool) { return -a, a != math.MinInt64 }

func (a Int64) Abs() (Int64, bool) {
	if a < 0 {
		return a.Neg()
	}

	return a, true
}

func (a Int64) Cmp(b Int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

func (a Int64) Sign() int { return a.Cmp(0) }
func (a Int64) IsZero() bool { return a == 0 }
func (Int64) FromInt64(x int64) (Int64, bool) { return Int64(x), true }
func (a Int64) Big() *big.Int { return big.NewInt(int64(a)) }
func (a Int64) String() string { return strconv.FormatInt(int64(a), 10) }
func (Int64) FromBig(x *big.Int) (Int64, bool) { return Int64(x.Int64()), x.IsInt64() }

// fits32 reports whether x is representable as int32.
func fits32(x int64) bool { return x >= math.MinInt32 && x <= math.MaxInt32 }

func (a Int32) Add(b Int32) (Int32, bool) {
	c := int64(a) + int64(b)

	return Int32(c), fits32(c)
}

func (a Int32) Sub(b Int32) (Int32, bool) {
	c := int64(a) - int64(b)

	return Int32(c), fits32(c)
}

func (a Int32) Mul(b Int32) (Int32, bool) {
	c := int64(a) * int64(b)

	return Int32(c), fits32(c)
}

func (a Int32) Quo(b Int32) (Int32, bool) {
	if b == 0 {
		return 0, false
	}
	c := int64(a) / int64(b)

	return Int32(c), fits32(c)
}

func (a Int32) Rem(b Int32) Int32 { return Int32(int64(a) % int64(b)) }

func (a Int32) Neg() (Int32, bool) { return -a, a != math.MinInt32 }

func (a Int32) Abs() (Int32, bool) {
	if a < 0 {
		return a.Neg()
	}

	return a, true
}

func (a Int32) Cmp(b Int32) int { return Int64(a).Cmp(Int64(b)) }
func (a Int32) Sign() int { return a.Cmp(0) }
func (a Int32) IsZero() bool { return a == 0 }
func (a Int32) Big() *big.Int { return big.NewInt(int64(a)) }
func (a Int32) String() string { return strconv.FormatInt(int64(a), 10) }

func (Int32) FromInt64(x int64) (Int32, bool) { return Int32(x), fits32(x) }

func (Int32) FromBig(x *big.Int) (Int32, bool) {
	if !x.IsInt64() {
		return 0, false
	}

	return Int32(x.Int64()), fits32(x.Int64())
}
