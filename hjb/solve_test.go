package hjb_test

import (
	"testing"

	"github.com/greimel/hjbflow/grid"
	"github.com/greimel/hjbflow/hjb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decayModel is a control-free test model with linear flow utility
// u = a and deterministic drift -kappa*a toward the lower bound. Its
// HJB equation rho*V = a - kappa*a*V' has the exact linear solution
// V(a) = a/(rho+kappa), which the backward upwind scheme reproduces
// without discretization error.
type decayModel struct {
	g     *grid.Grid
	rho   float64
	kappa float64
}

func newDecayModel(t *testing.T, n int) *decayModel {
	t.Helper()
	g, err := grid.New([]grid.Dimension{grid.Uniform("a", 0, 2, n)})
	require.NoError(t, err)
	return &decayModel{g: g, rho: 0.05, kappa: 0.1}
}

func (m *decayModel) Grid() *grid.Grid          { return m.g }
func (m *decayModel) Discount() float64         { return m.rho }
func (m *decayModel) Intensity() [][]float64    { return nil }
func (m *decayModel) AuxNames() []string        { return nil }
func (m *decayModel) Boundary(dim int, side grid.Side, flat int) float64 {
	return 1 / (m.rho + m.kappa) // exact slope of the linear solution
}

func (m *decayModel) ResolvePolicy(flat int, d *grid.Bundle) (hjb.Controls, error) {
	a := m.g.Point(0, flat)
	return hjb.Controls{
		Flows:   []hjb.Flow{{Dim: 0, Drift: -m.kappa * a}},
		Utility: a,
	}, nil
}

func (m *decayModel) exact(flat int) float64 {
	return m.g.Point(0, flat) / (m.rho + m.kappa)
}

// TestSolve_Validation exercises the setup sentinels.
func TestSolve_Validation(t *testing.T) {
	m := newDecayModel(t, 5)

	_, err := hjb.Solve(nil, nil, hjb.DefaultOptions())
	assert.ErrorIs(t, err, hjb.ErrNilModel)

	_, err = hjb.Solve(m, make([]float64, 3), hjb.DefaultOptions())
	assert.ErrorIs(t, err, hjb.ErrShapeMismatch)

	opts := hjb.DefaultOptions()
	opts.Delta = 0
	_, err = hjb.Solve(m, make([]float64, m.Grid().Size()), opts)
	assert.ErrorIs(t, err, hjb.ErrBadOptions)
}

// TestSolve_ExactLinearFixedPoint checks convergence to the known exact
// solution, zero a-posteriori time derivative, and generator invariants.
func TestSolve_ExactLinearFixedPoint(t *testing.T) {
	m := newDecayModel(t, 41)
	opts := hjb.DefaultOptions()
	opts.Tol = 1e-10

	res, err := hjb.Solve(m, make([]float64, m.Grid().Size()), opts)
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.Len(t, res.Residuals, res.Iterations)

	for flat := range res.V {
		assert.InDelta(t, m.exact(flat), res.V[flat], 1e-7, "state %d", flat)
	}
	assert.Less(t, res.Generator.MaxAbsRowSum(), 1e-10)

	vt, err := hjb.TimeDerivative(m, res)
	require.NoError(t, err)
	for flat, v := range vt {
		assert.InDelta(t, 0.0, v, 1e-7, "vt at state %d", flat)
	}
}

// TestSolve_DeltaInvariance checks the step size shapes only the
// convergence path, never the fixed point.
func TestSolve_DeltaInvariance(t *testing.T) {
	m := newDecayModel(t, 31)
	v0 := make([]float64, m.Grid().Size())

	small := hjb.DefaultOptions()
	small.Delta, small.Tol, small.MaxIter = 2, 1e-10, 5000
	large := hjb.DefaultOptions()
	large.Delta, large.Tol = 1e7, 1e-10

	rs, err := hjb.Solve(m, v0, small)
	require.NoError(t, err)
	rl, err := hjb.Solve(m, v0, large)
	require.NoError(t, err)

	for flat := range rs.V {
		assert.InDelta(t, rl.V[flat], rs.V[flat], 1e-7, "state %d", flat)
	}
}

// TestSolve_Idempotence checks re-solving from the converged value
// function converges within one extra iteration.
func TestSolve_Idempotence(t *testing.T) {
	m := newDecayModel(t, 31)
	opts := hjb.DefaultOptions()

	first, err := hjb.Solve(m, make([]float64, m.Grid().Size()), opts)
	require.NoError(t, err)

	second, err := hjb.Solve(m, first.V, opts)
	require.NoError(t, err)
	assert.LessOrEqual(t, second.Iterations, 1, "fixed point must be stable")
}

// TestSolve_BudgetExhausted checks the Failed terminal state: the error
// wraps ErrNoConvergence and the partial result carries the residual
// history.
func TestSolve_BudgetExhausted(t *testing.T) {
	m := newDecayModel(t, 31)
	opts := hjb.DefaultOptions()
	opts.Delta = 0.01 // tiny steps: far from convergence after one pass
	opts.MaxIter = 1
	opts.Tol = 1e-12

	res, err := hjb.Solve(m, make([]float64, m.Grid().Size()), opts)
	assert.ErrorIs(t, err, hjb.ErrNoConvergence)
	require.NotNil(t, res, "partial result must accompany the failure")
	assert.False(t, res.Converged)
	assert.Len(t, res.Residuals, 1)
}

// badAuxModel returns aux values inconsistent with AuxNames.
type badAuxModel struct{ *decayModel }

func (m badAuxModel) AuxNames() []string { return []string{"consumption"} }

func TestSolve_AuxShapeMismatch(t *testing.T) {
	m := badAuxModel{newDecayModel(t, 5)}
	_, err := hjb.Solve(m, make([]float64, m.Grid().Size()), hjb.DefaultOptions())
	assert.ErrorIs(t, err, hjb.ErrShapeMismatch)
}

// badFlowModel emits a flow on a dimension the grid does not have.
type badFlowModel struct{ *decayModel }

func (m badFlowModel) ResolvePolicy(flat int, d *grid.Bundle) (hjb.Controls, error) {
	return hjb.Controls{Flows: []hjb.Flow{{Dim: 3, Drift: 1}}}, nil
}

func TestSolve_FlowDimOutOfRange(t *testing.T) {
	m := badFlowModel{newDecayModel(t, 5)}
	_, err := hjb.Solve(m, make([]float64, m.Grid().Size()), hjb.DefaultOptions())
	assert.ErrorIs(t, err, hjb.ErrFlowDim)
}

// TestSolvePath_BackwardPass checks the finite-horizon mechanics: node
// count, terminal condition, monotone accumulation of positive flow
// utility backward in time, and convergence toward the stationary value
// over a long horizon.
func TestSolvePath_BackwardPass(t *testing.T) {
	m := newDecayModel(t, 31)
	n := m.Grid().Size()
	vT := make([]float64, n)

	times := make([]float64, 121)
	for k := range times {
		times[k] = float64(k) * 2.5 // horizon 300 with step 2.5
	}
	path, err := hjb.SolvePath(m, vT, times)
	require.NoError(t, err)
	require.Len(t, path.Values, len(times))
	assert.Equal(t, vT, path.Values[len(times)-1], "the last node is the terminal condition")

	// Positive utility accumulates backward in time.
	for k := 0; k < len(times)-1; k++ {
		for flat := 1; flat < n; flat++ {
			assert.GreaterOrEqual(t, path.Values[k][flat]+1e-12, path.Values[k+1][flat],
				"node %d state %d", k, flat)
		}
	}

	// Over a long horizon the earliest node approaches the stationary
	// solution of the same model.
	for flat := 0; flat < n; flat++ {
		assert.InDelta(t, m.exact(flat), path.Values[0][flat], 1e-3, "state %d", flat)
	}
}

// TestSolvePath_Validation exercises the time-sequence sentinels.
func TestSolvePath_Validation(t *testing.T) {
	m := newDecayModel(t, 5)
	vT := make([]float64, m.Grid().Size())

	_, err := hjb.SolvePath(m, vT, []float64{0})
	assert.ErrorIs(t, err, hjb.ErrBadTimes)

	_, err = hjb.SolvePath(m, vT, []float64{0, 1, 1})
	assert.ErrorIs(t, err, hjb.ErrBadTimes)

	_, err = hjb.SolvePath(m, make([]float64, 2), []float64{0, 1})
	assert.ErrorIs(t, err, hjb.ErrShapeMismatch)
}
