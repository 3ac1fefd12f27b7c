// SPDX-License-Identifier: MIT
// Package num: sentinel errors.

package num

import "errors"

var (
	// ErrOverflow is returned when a fixed-width computation left the
	// representable range. Callers retry with a wider Width or give up.
	ErrOverflow = errors.New("num: arithmetic overflow")

	// ErrDivisionByZero marks an exact division with a zero divisor.
	ErrDivisionByZero = errors.New("num: division by zero")

	// ErrUnknownWidth is returned by ParseWidth for unrecognized names.
	ErrUnknownWidth = errors.New("num: unknown integer width")
)
