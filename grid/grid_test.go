package grid_test

import (
	"testing"

	"github.com/greimel/hjbflow/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew_Validation exercises the construction sentinels.
func TestNew_Validation(t *testing.T) {
	_, err := grid.New(nil)
	assert.ErrorIs(t, err, grid.ErrNoDimensions, "empty dimension list must error")

	_, err = grid.New([]grid.Dimension{{Name: "a", Points: []float64{1}}})
	assert.ErrorIs(t, err, grid.ErrEmptyDimension, "single-point dimension must error")

	_, err = grid.New([]grid.Dimension{{Name: "a", Points: []float64{0, 1, 1}}})
	assert.ErrorIs(t, err, grid.ErrNotAscending, "non-increasing points must error")

	_, err = grid.New([]grid.Dimension{{Name: "a", Points: []float64{0, 1}}}, grid.WithRegimes(0))
	assert.ErrorIs(t, err, grid.ErrBadRegimes, "zero regimes must error")
}

// TestGrid_FlatIndexRoundTrip checks Index/Coords are inverse bijections
// over the whole flattened space, with the regime varying fastest.
func TestGrid_FlatIndexRoundTrip(t *testing.T) {
	g, err := grid.New([]grid.Dimension{
		{Name: "b", Points: []float64{0, 1, 2}},
		{Name: "a", Points: []float64{0, 0.5, 1, 1.5}},
	}, grid.WithRegimes(2))
	require.NoError(t, err)
	require.Equal(t, 3*4*2, g.Size())

	seen := make(map[int]bool, g.Size())
	buf := make([]int, g.NumDims())
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			for r := 0; r < 2; r++ {
				flat, err := g.Index([]int{i, j}, r)
				require.NoError(t, err)
				assert.False(t, seen[flat], "flat index must be unique")
				seen[flat] = true

				coords, regime := g.Coords(flat, buf)
				assert.Equal(t, []int{i, j}, coords)
				assert.Equal(t, r, regime)
				assert.Equal(t, i, g.Coord(0, flat))
				assert.Equal(t, j, g.Coord(1, flat))
				assert.Equal(t, r, g.Regime(flat))
			}
		}
	}

	// Regime fastest: switching the regime is a flat step of 1.
	flat, err := g.Index([]int{1, 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, flat+1, g.WithRegime(flat, 1))
}

// TestGrid_IndexRange checks out-of-range coordinates are rejected.
func TestGrid_IndexRange(t *testing.T) {
	g, err := grid.New([]grid.Dimension{{Name: "a", Points: []float64{0, 1}}})
	require.NoError(t, err)

	_, err = g.Index([]int{2}, 0)
	assert.ErrorIs(t, err, grid.ErrIndexRange)
	_, err = g.Index([]int{0}, 1)
	assert.ErrorIs(t, err, grid.ErrIndexRange)
	_, err = g.Index([]int{0, 0}, 0)
	assert.ErrorIs(t, err, grid.ErrIndexRange, "coordinate count mismatch must error")
}

func TestGrid_CheckDim(t *testing.T) {
	g, err := grid.New([]grid.Dimension{{Name: "a", Points: []float64{0, 1}}})
	require.NoError(t, err)

	assert.NoError(t, g.CheckDim(0))
	assert.ErrorIs(t, g.CheckDim(1), grid.ErrDimRange)
	assert.ErrorIs(t, g.CheckDim(-1), grid.ErrDimRange)
}

// TestGrid_UniformAndMeasure verifies Uniform spacing, Step, and the
// cell measure of a two-dimensional grid.
func TestGrid_UniformAndMeasure(t *testing.T) {
	b := grid.Uniform("b", 0, 1, 5)   // step 0.25
	a := grid.Uniform("a", 0, 2, 11)  // step 0.2
	require.Len(t, b.Points, 5)
	assert.Equal(t, 1.0, b.Points[4], "top point must be exact")

	g, err := grid.New([]grid.Dimension{b, a}, grid.WithRegimes(3))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, g.Step(0), 1e-15)
	assert.InDelta(t, 0.2, g.Step(1), 1e-15)
	assert.InDelta(t, 0.05, g.Measure(), 1e-15, "measure excludes the regime dimension")
}

// TestGrid_Immutability verifies the constructor deep-copies its input.
func TestGrid_Immutability(t *testing.T) {
	pts := []float64{0, 1, 2}
	g, err := grid.New([]grid.Dimension{{Name: "a", Points: pts}})
	require.NoError(t, err)

	pts[1] = 99
	assert.Equal(t, 1.0, g.At(0, 1), "mutating the input must not affect the grid")
}
