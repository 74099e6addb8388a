package grid_test

import (
	"fmt"

	"github.com/greimel/hjbflow/grid"
)

// ExampleDifferentiate builds the one-sided difference bundle of a
// linear value function, for which the interior differences are exact.
// Scenario:
//
//   - Assets on [0, 1] with 5 points (step 0.25).
//   - Value v(a) = 2a, so every difference quotient equals 2.
//   - At the bounds the inadmissible one-sided slot is filled by the
//     boundary callback instead of a value lookup.
//
// Complexity: O(size) per dimension.
func ExampleDifferentiate() {
	g, _ := grid.New([]grid.Dimension{grid.Uniform("assets", 0, 1, 5)})

	v := make([]float64, g.Size())
	for flat := range v {
		v[flat] = 2 * g.Point(0, flat)
	}
	bc := func(dim int, side grid.Side, flat int) float64 { return 2 }

	b, _ := grid.Differentiate(v, g, bc)

	mid := 2 // interior point a = 0.5
	fmt.Printf("forward:  %.2f\n", b.Forward(0, mid))
	fmt.Printf("backward: %.2f\n", b.Backward(0, mid))
	fmt.Printf("second:   %.2f\n", b.Second(0, mid))
	fmt.Printf("at upper bound, forward falls back to bc: %.2f\n", b.Forward(0, g.Size()-1))

	// Output:
	// forward:  2.00
	// backward: 2.00
	// second:   0.00
	// at upper bound, forward falls back to bc: 2.00
}
