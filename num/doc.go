// SPDX-License-Identifier: MIT

// Package num defines the exact-number contract used by every engine in
// this module.
//
// What is num?
//
//	A tiny generic layer over three integer widths:
//		• Int32   – fixed 32-bit, mostly used to force overflow paths in tests
//		• Int64   – fixed 64-bit, the default working width
//		• BigInt  – arbitrary precision, wraps math/big.Int with value semantics
//
// Every arithmetic method returns (result, ok). ok == false signals that the
// fixed-width result left the representable range; the value is then
// meaningless and must not be used. Hot loops use Checked[T], which records
// the first overflow stickily so the loop body stays free of error branches
// and a single Err() check at the loop boundary surfaces ErrOverflow.
//
// Width selection happens once, at the façade boundary: computations are
// written against Integer[T] and instantiated for Int32, Int64 or BigInt.
// An explicit outer loop walks Width.Next() on ErrOverflow.
//
// Helpers:
//
//	Gcd, Lcm, Content, MakePrimitive – content reduction of integer vectors
//	Dot                              – checked scalar product
//	ConvertVector, ConvertMatrix     – overflow-detecting width changes
//	Rat                              – exact quotient as *big.Rat
package num
