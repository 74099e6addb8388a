package generator_test

import (
	"math"
	"testing"

	"github.com/greimel/hjbflow/generator"
	"github.com/greimel/hjbflow/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoRegimeGrid(t *testing.T, n int) *grid.Grid {
	t.Helper()
	g, err := grid.New([]grid.Dimension{grid.Uniform("a", 0, 1, n)}, grid.WithRegimes(2))
	require.NoError(t, err)
	return g
}

// checkGeneratorInvariants asserts the two mandatory structural
// invariants of any finalized generator.
func checkGeneratorInvariants(t *testing.T, m *generator.Matrix) {
	t.Helper()
	assert.Less(t, m.MaxAbsRowSum(), 1e-10, "row sums must vanish")
	for i := 0; i < m.N(); i++ {
		for j := 0; j < m.N(); j++ {
			if i != j {
				assert.GreaterOrEqual(t, m.At(i, j), 0.0, "off-diagonal (%d,%d)", i, j)
			}
		}
	}
}

// TestBuilder_Validation exercises the construction sentinels.
func TestBuilder_Validation(t *testing.T) {
	_, err := generator.NewBuilder(0)
	assert.ErrorIs(t, err, generator.ErrBadSize)

	b, err := generator.NewBuilder(3)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Add(0, 3, 1), generator.ErrIndexRange)
	assert.ErrorIs(t, b.Add(1, 1, 1), generator.ErrSelfLoop)
	assert.ErrorIs(t, b.Add(0, 1, -1), generator.ErrBadRate)
	assert.ErrorIs(t, b.Add(0, 1, math.NaN()), generator.ErrBadRate)

	_, err = b.Finalize()
	require.NoError(t, err)
	assert.ErrorIs(t, b.Add(0, 1, 1), generator.ErrFinalized)
	_, err = b.Finalize()
	assert.ErrorIs(t, err, generator.ErrFinalized)
}

// TestBuilder_DimRange checks a bad dimension index is rejected before
// any grid accessor can panic on it.
func TestBuilder_DimRange(t *testing.T) {
	g := twoRegimeGrid(t, 3)
	b, err := generator.NewBuilder(g.Size())
	require.NoError(t, err)

	assert.ErrorIs(t, b.AddFlowAt(g, 1, 0, 0.5), grid.ErrDimRange)
	assert.ErrorIs(t, b.AddFlowAt(g, -1, 0, 0.5), grid.ErrDimRange)
	assert.ErrorIs(t, b.AddDiffusion(g, 1, make([]float64, g.Size())), grid.ErrDimRange)
}

// TestFinalize_DiagonalAndRowSums checks diagonals are derived as minus
// the off-diagonal row sum and duplicates accumulate.
func TestFinalize_DiagonalAndRowSums(t *testing.T) {
	b, err := generator.NewBuilder(3)
	require.NoError(t, err)
	require.NoError(t, b.Add(0, 1, 2.0))
	require.NoError(t, b.Add(0, 1, 0.5)) // duplicate edge accumulates
	require.NoError(t, b.Add(0, 2, 1.5))
	require.NoError(t, b.Add(2, 0, 3.0))

	m, err := b.Finalize()
	require.NoError(t, err)

	assert.Equal(t, 2.5, m.At(0, 1))
	assert.Equal(t, 1.5, m.At(0, 2))
	assert.Equal(t, -4.0, m.At(0, 0))
	assert.Equal(t, 0.0, m.At(1, 1), "row with no outflow has a zero diagonal")
	assert.Equal(t, -3.0, m.At(2, 2))
	checkGeneratorInvariants(t, m)
}

// TestAddFlow_UpwindDirectionAndRate checks drift edges point one grid
// step in the drift direction with rate |drift|/spacing.
func TestAddFlow_UpwindDirectionAndRate(t *testing.T) {
	g, err := grid.New([]grid.Dimension{grid.Uniform("a", 0, 1, 5)}) // step 0.25
	require.NoError(t, err)

	b, err := generator.NewBuilder(g.Size())
	require.NoError(t, err)
	drift := []float64{0.5, 0, -0.25, 0.1, -1.0}
	require.NoError(t, b.AddFlow(g, 0, drift))
	m, err := b.Finalize()
	require.NoError(t, err)

	assert.InDelta(t, 2.0, m.At(0, 1), 1e-14, "positive drift: edge up, rate s/h")
	assert.Equal(t, 0.0, m.At(1, 0))
	assert.Equal(t, 0.0, m.At(1, 2), "zero drift adds no edge")
	assert.InDelta(t, 1.0, m.At(2, 1), 1e-14, "negative drift: edge down, rate |s|/h")
	assert.InDelta(t, 0.4, m.At(3, 4), 1e-14)
	assert.InDelta(t, 4.0, m.At(4, 3), 1e-14, "inward drift at the upper bound is fine")
	checkGeneratorInvariants(t, m)
}

// TestAddFlow_BoundaryDriftFatal checks outward drift at either bound
// aborts assembly.
func TestAddFlow_BoundaryDriftFatal(t *testing.T) {
	g, err := grid.New([]grid.Dimension{grid.Uniform("a", 0, 1, 3)})
	require.NoError(t, err)

	b, err := generator.NewBuilder(g.Size())
	require.NoError(t, err)
	assert.ErrorIs(t, b.AddFlowAt(g, 0, 2, 0.1), generator.ErrBoundaryDrift, "outward at upper bound")
	assert.ErrorIs(t, b.AddFlowAt(g, 0, 0, -0.1), generator.ErrBoundaryDrift, "outward at lower bound")
}

// TestAddIntensity checks exogenous switching edges hold continuous
// coordinates fixed and reproduce the intensity matrix blockwise.
func TestAddIntensity(t *testing.T) {
	g := twoRegimeGrid(t, 3)
	lambda := [][]float64{{-0.4, 0.4}, {0.7, -0.7}}

	b, err := generator.NewBuilder(g.Size())
	require.NoError(t, err)
	require.NoError(t, b.AddIntensity(g, lambda))
	m, err := b.Finalize()
	require.NoError(t, err)

	for flat := 0; flat < g.Size(); flat++ {
		r := g.Regime(flat)
		other := g.WithRegime(flat, 1-r)
		assert.InDelta(t, lambda[r][1-r], m.At(flat, other), 1e-14)
		assert.InDelta(t, lambda[r][r], m.At(flat, flat), 1e-14)
	}
	checkGeneratorInvariants(t, m)
}

// TestAddIntensity_Validation checks malformed intensity matrices are
// rejected before assembly.
func TestAddIntensity_Validation(t *testing.T) {
	g := twoRegimeGrid(t, 2)
	b, err := generator.NewBuilder(g.Size())
	require.NoError(t, err)

	assert.ErrorIs(t, b.AddIntensity(g, nil), generator.ErrBadIntensity, "nil with 2 regimes")
	assert.ErrorIs(t, b.AddIntensity(g, [][]float64{{-1, 1}}), generator.ErrBadIntensity, "wrong shape")
	assert.ErrorIs(t, b.AddIntensity(g, [][]float64{{1, -1}, {1, -1}}), generator.ErrBadIntensity,
		"negative off-diagonal")
	assert.ErrorIs(t, b.AddIntensity(g, [][]float64{{-1, 1.5}, {1, -1}}), generator.ErrBadIntensity,
		"row sum away from zero")
}

// TestAddDiffusion checks second-order edges on a uniform grid: rate
// v/(2h^2) to each interior neighbor, folded at the reflecting bounds.
func TestAddDiffusion(t *testing.T) {
	g, err := grid.New([]grid.Dimension{grid.Uniform("z", 0, 1, 5)}) // h = 0.25
	require.NoError(t, err)

	variance := []float64{0.1, 0.1, 0.1, 0.1, 0.1}
	b, err := generator.NewBuilder(g.Size())
	require.NoError(t, err)
	require.NoError(t, b.AddDiffusion(g, 0, variance))
	m, err := b.Finalize()
	require.NoError(t, err)

	rate := 0.1 / (2 * 0.25 * 0.25)
	assert.InDelta(t, rate, m.At(2, 1), 1e-12)
	assert.InDelta(t, rate, m.At(2, 3), 1e-12)
	assert.InDelta(t, 2*rate, m.At(0, 1), 1e-12, "lower bound folds both edges up")
	assert.InDelta(t, 2*rate, m.At(4, 3), 1e-12, "upper bound folds both edges down")
	checkGeneratorInvariants(t, m)
}

// TestMatrix_MulVecAndTranspose cross-checks the sparse products
// against the dense materializations.
func TestMatrix_MulVecAndTranspose(t *testing.T) {
	g := twoRegimeGrid(t, 4)
	b, err := generator.NewBuilder(g.Size())
	require.NoError(t, err)
	drift := make([]float64, g.Size())
	for flat := range drift {
		drift[flat] = 0.3 - 0.1*float64(g.Coord(0, flat))
	}
	require.NoError(t, b.AddFlow(g, 0, drift))
	require.NoError(t, b.AddIntensity(g, [][]float64{{-1.5, 1.5}, {1, -1}}))
	m, err := b.Finalize()
	require.NoError(t, err)

	n := m.N()
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(float64(i))
	}

	ax := make([]float64, n)
	atx := make([]float64, n)
	require.NoError(t, m.MulVec(ax, x))
	require.NoError(t, m.MulTransVec(atx, x))

	d := m.Dense()
	dt := m.TransposeDense()
	for i := 0; i < n; i++ {
		di, dti := 0.0, 0.0
		for j := 0; j < n; j++ {
			di += d.At(i, j) * x[j]
			dti += dt.At(i, j) * x[j]
		}
		assert.InDelta(t, di, ax[i], 1e-12)
		assert.InDelta(t, dti, atx[i], 1e-12)
	}

	// A generator kills constants: A * 1 = 0.
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	require.NoError(t, m.MulVec(ax, ones))
	for i := range ax {
		assert.InDelta(t, 0.0, ax[i], 1e-10)
	}
}
