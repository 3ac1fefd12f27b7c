// SPDX-License-Identifier: MIT

package num

// Checked performs arithmetic on T and remembers whether any operation
// overflowed. After a tripped overflow every further result is garbage; the
// caller checks Err() at the next loop boundary and abandons the work.
//
// A Checked value is not safe for concurrent use. Give each worker its own.
type Checked[T Integer[T]] struct {
	overflow bool
}

func (c *Checked[T]) note(ok bool) {
	if !ok {
		c.overflow = true
	}
}

func (c *Checked[T]) Add(a, b T) T {
	r, ok := a.Add(b)
	c.note(ok)

	return r
}

func (c *Checked[T]) Sub(a, b T) T {
	r, ok := a.Sub(b)
	c.note(ok)

	return r
}

func (c *Checked[T]) Mul(a, b T) T {
	r, ok := a.Mul(b)
	c.note(ok)

	return r
}

// Quo divides exactly-or-truncating; a zero divisor counts as overflow.
func (c *Checked[T]) Quo(a, b T) T {
	r, ok := a.Quo(b)
	c.note(ok)

	return r
}

func (c *Checked[T]) Neg(a T) T {
	r, ok := a.Neg()
	c.note(ok)

	return r
}

func (c *Checked[T]) Abs(a T) T {
	r, ok := a.Abs()
	c.note(ok)

	return r
}

// Int converts a small constant into T.
func (c *Checked[T]) Int(x int64) T {
	var z T
	r, ok := z.FromInt64(x)
	c.note(ok)

	return r
}

// MulSub returns a*b - c*d, the kernel of every elimination step.
func (c *Checked[T]) MulSub(a, b, x, y T) T {
	return c.Sub(c.Mul(a, b), c.Mul(x, y))
}

// Dot returns the scalar product of equally long vectors.
func (c *Checked[T]) Dot(a, b []T) T {
	acc := c.Int(0)
	for i := range a {
		acc = c.Add(acc, c.Mul(a[i], b[i]))
	}

	return acc
}

// Gcd returns the non-negative gcd of a and b.
func (c *Checked[T]) Gcd(a, b T) T {
	r, ok := Gcd(a, b)
	c.note(ok)

	return r
}

// MakePrimitive divides v in place by its content and returns the content.
func (c *Checked[T]) MakePrimitive(v []T) T {
	r, ok := MakePrimitive(v)
	c.note(ok)

	return r
}

// CmpAbs compares |a| and |b|.
func (c *Checked[T]) CmpAbs(a, b T) int {
	return c.Abs(a).Cmp(c.Abs(b))
}

// Fail marks the computation as overflowed; used by callers that detect an
// out-of-range condition outside the arithmetic methods.
func (c *Checked[T]) Fail() { c.overflow = true }

// Overflowed reports whether any operation overflowed since the last Reset.
func (c *Checked[T]) Overflowed() bool { return c.overflow }

// Reset clears the overflow flag.
func (c *Checked[T]) Reset() { c.overflow = false }

// Err returns ErrOverflow if an overflow was recorded, else nil.
func (c *Checked[T]) Err() error {
	if c.overflow {
		return ErrOverflow
	}

	return nil
}
