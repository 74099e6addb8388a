package huggett_test

import (
	"testing"

	"github.com/greimel/hjbflow/hjb"
	"github.com/greimel/hjbflow/huggett"
	"github.com/greimel/hjbflow/kfe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*huggett.Params)
	}{
		{"non-positive gamma", func(p *huggett.Params) { p.Gamma = 0 }},
		{"non-positive rho", func(p *huggett.Params) { p.Rho = -0.01 }},
		{"inverted bounds", func(p *huggett.Params) { p.AMin, p.AMax = 4, -0.15 }},
		{"too few points", func(p *huggett.Params) { p.Points = 1 }},
		{"no incomes", func(p *huggett.Params) { p.Incomes = nil; p.Switch = nil }},
		{"switch shape", func(p *huggett.Params) { p.Switch = p.Switch[:1] }},
		{"starving constraint", func(p *huggett.Params) { p.AMin = -10 }},
		{"starving top bound", func(p *huggett.Params) { p.Rate = -0.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := huggett.DefaultParams()
			tc.mutate(&p)
			_, err := huggett.NewModel(p)
			assert.ErrorIs(t, err, huggett.ErrBadParams)
		})
	}
}

// initialGuess is the standard seed: the value of consuming current
// resources forever.
func initialGuess(m *huggett.Model) []float64 {
	p := m.Params()
	g := m.Grid()
	v0 := make([]float64, g.Size())
	for flat := range v0 {
		c := p.Incomes[g.Regime(flat)] + p.Rate*g.Point(0, flat)
		// u(c)/rho with the default gamma = 2.
		v0[flat] = -1 / (c * p.Rho)
	}
	return v0
}

// TestSolve_DefaultCalibration solves the benchmark two-state problem
// on the production grid size and checks the qualitative shape of the
// solution: monotone concave value functions, ranked by income state,
// positive consumption, and inward drift at both asset bounds.
func TestSolve_DefaultCalibration(t *testing.T) {
	m, err := huggett.NewModel(huggett.DefaultParams())
	require.NoError(t, err)
	g := m.Grid()

	res, err := hjb.Solve(m, initialGuess(m), hjb.DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.LessOrEqual(t, res.Iterations, 100)

	cons := res.Aux["consumption"]
	save := res.Aux["savings"]
	require.Len(t, cons, g.Size())
	require.Len(t, save, g.Size())

	n := g.Len(0)
	for r := 0; r < g.Regimes(); r++ {
		at := func(i int) int { return i*g.Stride(0) + r }
		for i := 0; i+1 < n; i++ {
			assert.Greater(t, res.V[at(i+1)], res.V[at(i)],
				"value must increase in assets (i=%d, regime %d)", i, r)
		}
		// Concavity: forward differences weakly decreasing.
		h := g.Step(0)
		for i := 0; i+2 < n; i++ {
			dLeft := (res.V[at(i+1)] - res.V[at(i)]) / h
			dRight := (res.V[at(i+2)] - res.V[at(i+1)]) / h
			assert.LessOrEqual(t, dRight, dLeft+1e-9,
				"value must be concave (i=%d, regime %d)", i, r)
		}
	}
	// Higher income dominates at every asset level.
	for i := 0; i < n; i++ {
		assert.Greater(t, res.V[i*g.Stride(0)+1], res.V[i*g.Stride(0)],
			"high income must dominate at asset index %d", i)
	}
	for flat := range cons {
		assert.Greater(t, cons[flat], 0.0, "consumption at state %d", flat)
	}
	// State constraints: drift points inward at both bounds.
	for r := 0; r < g.Regimes(); r++ {
		assert.GreaterOrEqual(t, save[r], 0.0, "drift at the borrowing constraint, regime %d", r)
		assert.LessOrEqual(t, save[(n-1)*g.Stride(0)+r], 0.0, "drift at the top bound, regime %d", r)
	}
	// With r < rho the rich dissave: drift is strictly negative at high
	// asset levels in every regime.
	assert.Less(t, save[(n-2)*g.Stride(0)], 0.0)
	assert.Less(t, save[(n-2)*g.Stride(0)+1], 0.0)
}

// TestSolve_Idempotence re-solves from the converged value function and
// expects at most one iteration.
func TestSolve_Idempotence(t *testing.T) {
	p := huggett.DefaultParams()
	p.Points = 120
	m, err := huggett.NewModel(p)
	require.NoError(t, err)

	first, err := hjb.Solve(m, initialGuess(m), hjb.DefaultOptions())
	require.NoError(t, err)
	second, err := hjb.Solve(m, first.V, hjb.DefaultOptions())
	require.NoError(t, err)
	assert.LessOrEqual(t, second.Iterations, 1)
}

// TestSolve_GridRefinement doubles the grid resolution and compares the
// consumption policy at coincident asset points: refinement must not
// move the policy by more than one percent anywhere.
func TestSolve_GridRefinement(t *testing.T) {
	coarse := huggett.DefaultParams()
	coarse.Points = 251
	fine := coarse
	fine.Points = 501

	mc, err := huggett.NewModel(coarse)
	require.NoError(t, err)
	mf, err := huggett.NewModel(fine)
	require.NoError(t, err)

	rc, err := hjb.Solve(mc, initialGuess(mc), hjb.DefaultOptions())
	require.NoError(t, err)
	rf, err := hjb.Solve(mf, initialGuess(mf), hjb.DefaultOptions())
	require.NoError(t, err)

	gc, gf := mc.Grid(), mf.Grid()
	cc := rc.Aux["consumption"]
	cf := rf.Aux["consumption"]
	for i := 0; i < gc.Len(0); i++ {
		for r := 0; r < gc.Regimes(); r++ {
			a, b := cc[i*gc.Stride(0)+r], cf[2*i*gf.Stride(0)+r]
			assert.InEpsilon(t, a, b, 0.01,
				"consumption at asset index %d, regime %d", i, r)
		}
	}
}

// TestSolve_StationaryDistribution closes the loop: the generator of
// the converged policy feeds the stationary distribution solver, and
// the direct and iterative strategies agree on the resulting wealth
// distribution, including positive mass at the borrowing constraint.
func TestSolve_StationaryDistribution(t *testing.T) {
	p := huggett.DefaultParams()
	p.Points = 60
	m, err := huggett.NewModel(p)
	require.NoError(t, err)
	g := m.Grid()

	res, err := hjb.Solve(m, initialGuess(m), hjb.DefaultOptions())
	require.NoError(t, err)
	require.True(t, res.Converged)

	meanAssets := func(d *kfe.Distribution) float64 {
		total := 0.0
		for flat, pr := range d.Probabilities() {
			total += pr * g.Point(0, flat)
		}
		return total
	}

	optsDirect := kfe.DefaultOptions()
	direct, err := kfe.Stationary(res.Generator, g, optsDirect)
	require.NoError(t, err)

	optsIter := kfe.DefaultOptions()
	optsIter.Strategy = kfe.Iterative
	iter, err := kfe.Stationary(res.Generator, g, optsIter)
	require.NoError(t, err)

	for flat, v := range direct.Density {
		assert.GreaterOrEqual(t, v, 0.0, "density at state %d", flat)
		assert.InDelta(t, v, iter.Density[flat], 1e-4, "density at state %d", flat)
	}
	assert.InDelta(t, meanAssets(direct), meanAssets(iter), 1e-4)

	// The impatient low-income state piles up at the constraint.
	assert.Greater(t, direct.Density[0], 0.0, "mass at the borrowing constraint")
}
