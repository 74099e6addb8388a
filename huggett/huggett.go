package huggett

import (
	"fmt"
	"math"

	"github.com/greimel/hjbflow/grid"
	"github.com/greimel/hjbflow/hjb"
	"github.com/greimel/hjbflow/policy"
)

// Params collects the primitives of the heterogeneous-agent
// consumption-savings model: CRRA preferences, a single liquid asset
// with a fixed interest rate, and a finite set of income states driven
// by exogenous Poisson switching.
type Params struct {
	// Gamma is the CRRA curvature; Gamma == 1 selects log utility.
	Gamma float64
	// Rho is the subjective discount rate.
	Rho float64
	// Rate is the interest rate on asset holdings.
	Rate float64
	// AMin and AMax bound asset holdings; AMin < 0 permits borrowing
	// up to the constraint.
	AMin, AMax float64
	// Points is the number of asset grid points.
	Points int
	// Incomes is one endowment per regime, strictly positive.
	Incomes []float64
	// Switch is the regime-switching intensity matrix, one row per
	// income state: non-negative off the diagonal with zero row sums.
	Switch [][]float64
}

// DefaultParams returns a two-state calibration whose stationary
// solution is well inside the admissible region: feasible consumption
// at the borrowing constraint and a binding constraint for the low
// income state only.
func DefaultParams() Params {
	return Params{
		Gamma:   2,
		Rho:     0.05,
		Rate:    0.03,
		AMin:    -0.15,
		AMax:    4,
		Points:  500,
		Incomes: []float64{0.1, 0.2},
		Switch: [][]float64{
			{-1.5, 1.5},
			{1.0, -1.0},
		},
	}
}

// Model implements hjb.Model for the consumption-savings problem.
type Model struct {
	p Params
	g *grid.Grid
}

// NewModel validates the calibration and builds the asset grid with one
// regime per income state.
func NewModel(p Params) (*Model, error) {
	switch {
	case p.Gamma <= 0:
		return nil, fmt.Errorf("%w: gamma %g", ErrBadParams, p.Gamma)
	case p.Rho <= 0:
		return nil, fmt.Errorf("%w: rho %g", ErrBadParams, p.Rho)
	case !(p.AMin < p.AMax):
		return nil, fmt.Errorf("%w: asset bounds [%g, %g]", ErrBadParams, p.AMin, p.AMax)
	case p.Points < 2:
		return nil, fmt.Errorf("%w: %d grid points", ErrBadParams, p.Points)
	case len(p.Incomes) == 0:
		return nil, fmt.Errorf("%w: no income states", ErrBadParams)
	case len(p.Switch) != len(p.Incomes):
		return nil, fmt.Errorf("%w: %d switch rows for %d income states",
			ErrBadParams, len(p.Switch), len(p.Incomes))
	}
	for r, z := range p.Incomes {
		// Consumption of current resources must stay positive at both
		// asset bounds (and hence, by linearity, everywhere), otherwise
		// the steady candidate has no admissible policy.
		for _, a := range [2]float64{p.AMin, p.AMax} {
			if z+p.Rate*a <= 0 {
				return nil, fmt.Errorf("%w: income state %d starves at assets %g (c = %g)",
					ErrBadParams, r, a, z+p.Rate*a)
			}
		}
	}
	g, err := grid.New(
		[]grid.Dimension{grid.Uniform("assets", p.AMin, p.AMax, p.Points)},
		grid.WithRegimes(len(p.Incomes)),
	)
	if err != nil {
		return nil, err
	}
	return &Model{p: p, g: g}, nil
}

// Grid returns the asset grid.
func (m *Model) Grid() *grid.Grid { return m.g }

// Discount returns the discount rate.
func (m *Model) Discount() float64 { return m.p.Rho }

// Intensity returns the income-switching intensity matrix.
func (m *Model) Intensity() [][]float64 { return m.p.Switch }

// AuxNames names the recorded policy outputs.
func (m *Model) AuxNames() []string { return []string{"consumption", "savings"} }

// Params returns the calibration the model was built with.
func (m *Model) Params() Params { return m.p }

// Boundary encodes the state constraint: at either asset bound the
// agent consumes exactly its resources, so the constrained derivative
// is the marginal utility of that consumption. This keeps drift from
// pointing out of the grid without any artificial value extrapolation.
func (m *Model) Boundary(dim int, side grid.Side, flat int) float64 {
	a := m.p.AMin
	if side == grid.Upper {
		a = m.p.AMax
	}
	z := m.p.Incomes[m.g.Regime(flat)]
	return m.marginal(z + m.p.Rate*a)
}

// ResolvePolicy inverts the first-order condition c = (V')^(-1/gamma)
// on each one-sided derivative and applies the upwind selection rule.
// The steady candidate consumes exactly current resources, so its drift
// is zero by construction.
func (m *Model) ResolvePolicy(flat int, d *grid.Bundle) (hjb.Controls, error) {
	a := m.g.Point(0, flat)
	z := m.p.Incomes[m.g.Regime(flat)]
	resources := z + m.p.Rate*a

	cf := m.consumption(d.Forward(0, flat))
	cb := m.consumption(d.Backward(0, flat))
	i := m.g.Coord(0, flat)

	res, err := policy.Resolve(policy.Candidates{
		Forward:  policy.Candidate{Control: cf, Drift: resources - cf, Deriv: d.Forward(0, flat)},
		Backward: policy.Candidate{Control: cb, Drift: resources - cb, Deriv: d.Backward(0, flat)},
		Steady:   policy.Candidate{Control: resources, Drift: 0, Deriv: m.marginal(resources)},
		AtLower:  i == 0,
		AtUpper:  i == m.g.Len(0)-1,
	})
	if err != nil {
		return hjb.Controls{}, fmt.Errorf("assets %g, regime %d: %w", a, m.g.Regime(flat), err)
	}

	return hjb.Controls{
		Flows:   []hjb.Flow{{Dim: 0, Drift: res.Drift}},
		Utility: m.utility(res.Control),
		Aux:     []float64{res.Control, res.Drift},
	}, nil
}

// utility is CRRA flow utility, log when Gamma == 1.
func (m *Model) utility(c float64) float64 {
	if m.p.Gamma == 1 {
		return math.Log(c)
	}
	return math.Pow(c, 1-m.p.Gamma) / (1 - m.p.Gamma)
}

// marginal is u'(c) = c^(-gamma).
func (m *Model) marginal(c float64) float64 {
	return math.Pow(c, -m.p.Gamma)
}

// consumption inverts the marginal utility. A non-positive derivative
// has no admissible consumption; NaN lets the upwind rule discard the
// candidate.
func (m *Model) consumption(dv float64) float64 {
	if dv <= 0 {
		return math.NaN()
	}
	return math.Pow(dv, -1/m.p.Gamma)
}
