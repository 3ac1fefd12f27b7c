// SPDX-License-Identifier: MIT

package cone_test

import (
	"context"
	"fmt"

	"github.com/polymake/polymake-sub008/cone"
)

func ExampleCone_Compute() {
	c, err := cone.New(cone.Int64Input(map[cone.InputKind][][]int64{
		cone.InputGenerators: {{2, 1}, {1, 2}},
	}))
	if err != nil {
		fmt.Println(err)

		return
	}
	if _, err := c.Compute(context.Background(), cone.HilbertBasis, cone.SupportHyperplanes); err != nil {
		fmt.Println(err)

		return
	}
	hb, _ := c.HilbertBasis()
	fmt.Println("hilbert basis:", hb)
	hyps, _ := c.SupportHyperplanes()
	fmt.Println("support hyperplanes:", hyps)
	// Output:
	// hilbert basis: [[1 1] [1 2] [2 1]]
	// support hyperplanes: [[-1 2] [2 -1]]
}

func ExampleCone_Multiplicity() {
	c, _ := cone.New(cone.Int64Input(map[cone.InputKind][][]int64{
		cone.InputPolytope: {{0, 0}, {2, 0}, {0, 2}},
	}))
	if _, err := c.Compute(context.Background(), cone.Multiplicity, cone.Deg1Elements); err != nil {
		fmt.Println(err)

		return
	}
	m, _ := c.Multiplicity()
	deg1, _ := c.Deg1Elements()
	fmt.Println(m, len(deg1))
	// Output:
	// 4/1 6
}
