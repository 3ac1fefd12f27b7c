// SPDX-License-Identifier: MIT

package signeddec_test

import (
	"context"
	"fmt"

	"github.com/polymake/polymake-sub008/num"
	"github.com/polymake/polymake-sub008/signeddec"
)

// The square with side 2, given by its inequalities, has normalized area 8.
func ExampleMultiplicity() {
	hyps, _ := num.Int64Matrix[num.Int64]([][]int64{{0, 0, 1}, {0, 1, 0}, {2, -1, 0}, {2, 0, -1}})
	grading, _ := num.Int64Vector[num.Int64]([]int64{1, 0, 0})
	res, err := signeddec.Multiplicity(context.Background(), hyps, grading)
	if err != nil {
		fmt.Println(err)

		return
	}
	fmt.Println(res.Multiplicity.RatString(), res.Subfacets)
	// Output:
	// 8 4
}
