// SPDX-License-Identifier: MIT

package num

import "math/big"

// Zero returns the additive identity of T.
func Zero[T Integer[T]]() T {
	var z T
	r, _ := z.FromInt64(0)

	return r
}

// One returns the multiplicative identity of T.
func One[T Integer[T]]() T {
	var z T
	r, _ := z.FromInt64(1)

	return r
}

// FromInt64 converts x into T, reporting overflow.
func FromInt64[T Integer[T]](x int64) (T, bool) {
	var z T

	return z.FromInt64(x)
}

// FromBig converts x into T, reporting overflow.
func FromBig[T Integer[T]](x *big.Int) (T, bool) {
	var z T

	return z.FromBig(x)
}

// Gcd returns the non-negative gcd of a and b. ok is false only when |a| or
// |b| is not representable (the most negative fixed-width value).
func Gcd[T Integer[T]](a, b T) (T, bool) {
	if ab, isBig := any(a).(BigInt); isBig {
		r := gcdBig(ab, any(b).(BigInt))

		return any(r).(T), true
	}
	x, ok1 := a.Abs()
	y, ok2 := b.Abs()
	if !ok1 || !ok2 {
		return x, false
	}
	for !y.IsZero() {
		x, y = y, x.Rem(y)
	}

	return x, true
}

// Lcm returns the non-negative lcm of a and b; Lcm(0, x) == 0.
func Lcm[T Integer[T]](a, b T) (T, bool) {
	if a.IsZero() || b.IsZero() {
		return Zero[T](), true
	}
	g, ok := Gcd(a, b)
	if !ok {
		return g, false
	}
	q, ok := a.Quo(g)
	if !ok {
		return q, false
	}
	r, ok := q.Mul(b)
	if !ok {
		return r, false
	}

	return r.Abs()
}

// Content returns the gcd of all entries of v (0 for the zero vector).
func Content[T Integer[T]](v []T) (T, bool) {
	g := Zero[T]()
	for _, x := range v {
		if x.IsZero() {
			continue
		}
		var ok bool
		if g, ok = Gcd(g, x); !ok {
			return g, false
		}
		if g.Cmp(One[T]()) == 0 {
			break
		}
	}

	return g, true
}

// MakePrimitive divides v in place by its content and returns the content.
// The zero vector is left untouched.
func MakePrimitive[T Integer[T]](v []T) (T, bool) {
	g, ok := Content(v)
	if !ok || g.IsZero() || g.Cmp(One[T]()) == 0 {
		return g, ok
	}
	for i := range v {
		if v[i], ok = v[i].Quo(g); !ok {
			return g, false
		}
	}

	return g, true
}

// Dot returns the scalar product of a and b.
func Dot[T Integer[T]](a, b []T) (T, bool) {
	var c Checked[T]
	r := c.Dot(a, b)

	return r, !c.Overflowed()
}

// IsZeroVector reports whether all entries of v vanish.
func IsZeroVector[T Integer[T]](v []T) bool {
	for _, x := range v {
		if !x.IsZero() {
			return false
		}
	}

	return true
}

// CompareVectors orders vectors lexicographically (shorter first on ties).
func CompareVectors[T Integer[T]](a, b []T) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Cmp(b[i]); c != 0 {
			return c
		}
	}

	return len(a) - len(b)
}

// ConvertVector changes the width of v. ok is false if an entry does not fit.
func ConvertVector[S Integer[S], T Integer[T]](v []S) ([]T, bool) {
	out := make([]T, len(v))
	var z T
	for i, x := range v {
		var ok bool
		if out[i], ok = z.FromBig(x.Big()); !ok {
			return nil, false
		}
	}

	return out, true
}

// ConvertMatrix changes the width of every row of m.
func ConvertMatrix[S Integer[S], T Integer[T]](m [][]S) ([][]T, bool) {
	out := make([][]T, len(m))
	for i, row := range m {
		var ok bool
		if out[i], ok = ConvertVector[S, T](row); !ok {
			return nil, false
		}
	}

	return out, true
}

// Int64Vector converts plain int64 data into T.
func Int64Vector[T Integer[T]](v []int64) ([]T, bool) {
	out := make([]T, len(v))
	var z T
	for i, x := range v {
		var ok bool
		if out[i], ok = z.FromInt64(x); !ok {
			return nil, false
		}
	}

	return out, true
}

// Int64Matrix converts plain int64 rows into T.
func Int64Matrix[T Integer[T]](m [][]int64) ([][]T, bool) {
	out := make([][]T, len(m))
	for i, row := range m {
		var ok bool
		if out[i], ok = Int64Vector[T](row); !ok {
			return nil, false
		}
	}

	return out, true
}

// BigVector returns fresh *big.Int copies of v.
func BigVector[T Integer[T]](v []T) []*big.Int {
	out := make([]*big.Int, len(v))
	for i, x := range v {
		out[i] = x.Big()
	}

	return out
}

// BigMatrix returns fresh *big.Int copies of every row of m.
func BigMatrix[T Integer[T]](m [][]T) [][]*big.Int {
	out := make([][]*big.Int, len(m))
	for i, row := range m {
		out[i] = BigVector(row)
	}

	return out
}

// FromBigVector converts *big.Int data into T.
func FromBigVector[T Integer[T]](v []*big.Int) ([]T, bool) {
	out := make([]T, len(v))
	var z T
	for i, x := range v {
		var ok bool
		if out[i], ok = z.FromBig(x); !ok {
			return nil, false
		}
	}

	return out, true
}

// FromBigMatrix converts *big.Int rows into T.
func FromBigMatrix[T Integer[T]](m [][]*big.Int) ([][]T, bool) {
	out := make([][]T, len(m))
	for i, row := range m {
		var ok bool
		if out[i], ok = FromBigVector[T](row); !ok {
			return nil, false
		}
	}

	return out, true
}

// Rat returns the exact quotient n/d. d must be non-zero.
func Rat[T Integer[T]](n, d T) *big.Rat {
	return new(big.Rat).SetFrac(n.Big(), d.Big())
}
