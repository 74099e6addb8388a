// Package hjb defines the model extension point, options, and result
// types of the implicit Hamilton-Jacobi-Bellman solver.
package hjb

import (
	"github.com/greimel/hjbflow/generator"
	"github.com/greimel/hjbflow/grid"
)

// Model is the single extension point every concrete economic model
// implements. It owns the grid, the discount rate, the exogenous
// switching intensities, the analytic state-constraint boundary
// conditions, and the per-point policy resolution.
//
// Implementations must be pure with respect to the value function: the
// solver passes derivative bundles and never shares its value array.
type Model interface {
	// Grid returns the state grid the model is defined on.
	Grid() *grid.Grid
	// Discount returns the discount rate rho of the HJB equation.
	Discount() float64
	// Intensity returns the exogenous regime-switching intensity
	// matrix, or nil for single-regime models.
	Intensity() [][]float64
	// Boundary supplies the one-sided derivative at a dimension's
	// bound, encoding the state constraint analytically.
	Boundary(dim int, side grid.Side, flat int) float64
	// ResolvePolicy resolves the optimal controls at one flat state
	// from the current derivative bundle: the drift flow(s) to feed the
	// generator, the flow utility at the resolved policy, and the
	// auxiliary outputs recorded for downstream analysis (one value per
	// AuxNames entry).
	ResolvePolicy(flat int, d *grid.Bundle) (Controls, error)
	// AuxNames names the auxiliary outputs of ResolvePolicy, in order.
	AuxNames() []string
}

// Flow is one resolved drift contribution along a continuous dimension.
// Models with several transfer margins (consumption savings and asset
// adjustment, say) may emit more than one flow per dimension; the
// generator receives each as its own upwind edge contribution.
type Flow struct {
	Dim   int
	Drift float64
}

// Controls is the resolved policy at one grid point.
type Controls struct {
	Flows   []Flow
	Utility float64
	Aux     []float64
}

// Options tunes the implicit fixed-point loop.
type Options struct {
	// Delta is the implicit step size. The scheme is unconditionally
	// stable, so Delta may be arbitrarily large; it shapes only the
	// convergence path, never the fixed point.
	Delta float64
	// Tol is the sup-norm convergence tolerance on successive value
	// functions.
	Tol float64
	// MaxIter bounds the fixed-point iterations.
	MaxIter int
}

// DefaultOptions returns the documented defaults: Delta 1000,
// Tol 1e-6, MaxIter 200.
func DefaultOptions() Options {
	return Options{Delta: 1000, Tol: 1e-6, MaxIter: 200}
}

// Result is a converged (or failed) stationary solve: the value
// function, per-dimension total drifts, flow utility, named auxiliary
// arrays, the frozen generator, and the full residual history.
type Result struct {
	V         []float64
	Drift     [][]float64 // [dim][flat], summed over flows
	Utility   []float64
	Aux       map[string][]float64
	Generator *generator.Matrix
	Residuals []float64
	Iterations int
	Converged  bool
}

// PathResult is a finite-horizon backward pass: one value function per
// time node (Values[k] at Times[k], the last being the supplied
// terminal condition), plus the policy outputs at the earliest node.
type PathResult struct {
	Times     []float64
	Values    [][]float64
	Drift     [][]float64
	Utility   []float64
	Aux       map[string][]float64
	Generator *generator.Matrix
}
