// SPDX-License-Identifier: MIT

package num

import "math/big"

// BigInt is an arbitrary-precision integer with value semantics: the wrapped
// *big.Int is never mutated after construction, so BigInt values may be
// copied and shared freely. The zero value is 0.
type BigInt struct {
	v *big.Int
}

var bigZero = new(big.Int)

// NewBigInt copies x into a BigInt.
func NewBigInt(x *big.Int) BigInt { return BigInt{v: new(big.Int).Set(x)} }

func (a BigInt) ref() *big.Int {
	if a.v == nil {
		return bigZero
	}

	return a.v
}

func (a BigInt) Add(b BigInt) (BigInt, bool) {
	return BigInt{v: new(big.Int).Add(a.ref(), b.ref())}, true
}

func (a BigInt) Sub(b BigInt) (BigInt, bool) {
	return BigInt{v: new(big.Int).Sub(a.ref(), b.ref())}, true
}

func (a BigInt) Mul(b BigInt) (BigInt, bool) {
	return BigInt{v: new(big.Int).Mul(a.ref(), b.ref())}, true
}

func (a BigInt) Quo(b BigInt) (BigInt, bool) {
	if b.IsZero() {
		return BigInt{}, false
	}

	return BigInt{v: new(big.Int).Quo(a.ref(), b.ref())}, true
}

func (a BigInt) Rem(b BigInt) BigInt { return BigInt{v: new(big.Int).Rem(a.ref(), b.ref())} }

func (a BigInt) Neg() (BigInt, bool) { return BigInt{v: new(big.Int).Neg(a.ref())}, true }

func (a BigInt) Abs() (BigInt, bool) { return BigInt{v: new(big.Int).Abs(a.ref())}, true }

func (a BigInt) Cmp(b BigInt) int { return a.ref().Cmp(b.ref()) }

func (a BigInt) Sign() int { return a.ref().Sign() }

func (a BigInt) IsZero() bool { return a.ref().Sign() == 0 }

func (BigInt) FromInt64(x int64) (BigInt, bool) { return BigInt{v: big.NewInt(x)}, true }

func (BigInt) FromBig(x *big.Int) (BigInt, bool) { return NewBigInt(x), true }

func (a BigInt) Big() *big.Int { return new(big.Int).Set(a.ref()) }

func (a BigInt) String() string { return a.ref().String() }

// gcdBig is the fast path used by Gcd for BigInt operands.
func gcdBig(a, b BigInt) BigInt {
	x := new(big.Int).Abs(a.ref())
	y := new(big.Int).Abs(b.ref())

	return BigInt{v: new(big.Int).GCD(nil, nil, x, y)}
}
