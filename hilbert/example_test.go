// SPDX-License-Identifier: MIT

package hilbert_test

import (
	"context"
	"fmt"

	"github.com/polymake/polymake-sub008/hilbert"
	"github.com/polymake/polymake-sub008/hull"
	"github.com/polymake/polymake-sub008/num"
)

func ExampleHilbertBasis() {
	ctx := context.Background()
	gens, _ := num.Int64Matrix[num.Int64]([][]int64{{2, 1}, {1, 2}})
	res, err := hull.Build(ctx, gens, hull.WithKeepTriangulation(true))
	if err != nil {
		fmt.Println(err)

		return
	}
	hb, err := hilbert.HilbertBasis(ctx, gens, res.Hyperplanes(), res.Triangulation)
	if err != nil {
		fmt.Println(err)

		return
	}
	fmt.Println(hb)
	// Output:
	// [[1 1] [1 2] [2 1]]
}
