package main

import (
	"testing"

	"github.com/greimel/hjbflow/calibration"
	"github.com/greimel/hjbflow/hjb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSolve_FullSummary(t *testing.T) {
	cfg, err := calibration.Parse([]byte("huggett: {points: 40}"))
	require.NoError(t, err)

	out, err := runSolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, "huggett", out.Model)
	assert.Equal(t, 80, out.States)
	assert.Equal(t, "direct", out.Strategy)
	assert.InDelta(t, 1.0, out.Mass, 1e-9)
	require.Len(t, out.AuxAverages, 2)
	assert.Greater(t, out.AuxAverages[0].Mean, 0.0, "mean consumption")
}

// TestRunSolve_PartialSummaryOnExhaustedBudget checks the failure path:
// a deliberately starved iteration budget must still yield the partial
// value-function numbers alongside the convergence error, and must not
// attempt the stationary solve.
func TestRunSolve_PartialSummaryOnExhaustedBudget(t *testing.T) {
	cfg, err := calibration.Parse([]byte(`
solver: {delta: 0.01, tol: 1e-12, max_iter: 1}
huggett: {points: 40}
`))
	require.NoError(t, err)

	out, err := runSolve(cfg)
	require.ErrorIs(t, err, hjb.ErrNoConvergence)
	require.NotNil(t, out, "partial summary must accompany the failure")
	assert.Equal(t, 1, out.Iterations)
	assert.Greater(t, out.Residual, 0.0)
	assert.Empty(t, out.Strategy, "no stationary solve without a generator")
	assert.Zero(t, out.Mass)
	assert.Empty(t, out.AuxAverages)
}
