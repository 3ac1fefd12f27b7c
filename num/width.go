// SPDX-License-Identifier: MIT

package num

import (
	"fmt"
	"strings"
)

// Width names the integer type a computation is instantiated with.
type Width int

const (
	Width32 Width = iota
	Width64
	WidthBig
)

var widthNames = [...]string{"int32", "int64", "big"}

func (w Width) String() string {
	if w < Width32 || w > WidthBig {
		return fmt.Sprintf("Width(%d)", int(w))
	}

	return widthNames[w]
}

// Next returns the next wider width. ok is false for WidthBig.
func (w Width) Next() (Width, bool) {
	if w >= WidthBig {
		return WidthBig, false
	}

	return w + 1, true
}

// ParseWidth accepts "int32", "int64" and "big" (case-insensitive).
func ParseWidth(s string) (Width, error) {
	for i, name := range widthNames {
		if strings.EqualFold(s, name) {
			return Width(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownWidth, s)
}
