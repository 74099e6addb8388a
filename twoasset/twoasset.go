package twoasset

import (
	"fmt"
	"math"

	"github.com/greimel/hjbflow/grid"
	"github.com/greimel/hjbflow/hjb"
	"github.com/greimel/hjbflow/policy"
)

// Params collects the primitives of the two-asset adjustment-cost
// model: CRRA preferences, a liquid account b earning RLiquid, an
// illiquid account a earning RIlliquid, labor income Wage*z with
// Poisson switching over z, and a kinked cost of moving funds between
// the accounts.
type Params struct {
	// Gamma is the CRRA curvature; Gamma == 1 selects log utility.
	Gamma float64
	// Rho is the subjective discount rate.
	Rho float64
	// RLiquid and RIlliquid are the returns on the two accounts;
	// the illiquid premium RIlliquid > RLiquid is what makes the
	// adjustment margin interesting.
	RLiquid, RIlliquid float64
	// Wage scales the income states.
	Wage float64
	// Incomes is one productivity level per regime.
	Incomes []float64
	// Switch is the regime-switching intensity matrix.
	Switch [][]float64
	// Chi0 is the linear (kink) component of the adjustment cost,
	// strictly below 1 so that withdrawals are never confiscatory.
	Chi0 float64
	// Chi1 is the quadratic cost coefficient.
	Chi1 float64
	// AFloor bounds the denominator of the quadratic cost away from
	// zero at small illiquid balances.
	AFloor float64
	// BMax and AMax cap the two accounts; both lower bounds are zero.
	BMax, AMax float64
	// BPoints and APoints size the two grid dimensions.
	BPoints, APoints int
}

// DefaultParams returns a two-state calibration with a standard
// illiquid premium and a visibly kinked adjustment region.
func DefaultParams() Params {
	return Params{
		Gamma:     2,
		Rho:       0.06,
		RLiquid:   0.03,
		RIlliquid: 0.05,
		Wage:      4,
		Incomes:   []float64{0.8, 1.3},
		Switch: [][]float64{
			{-1.0 / 3, 1.0 / 3},
			{1.0 / 3, -1.0 / 3},
		},
		Chi0:    0.08,
		Chi1:    3,
		AFloor:  0.01,
		BMax:    40,
		AMax:    70,
		BPoints: 45,
		APoints: 35,
	}
}

// Model implements hjb.Model for the two-asset problem. Dimension 0 is
// the liquid account, dimension 1 the illiquid account.
type Model struct {
	p Params
	g *grid.Grid
}

// NewModel validates the calibration and builds the two-dimensional
// grid with one regime per income state.
func NewModel(p Params) (*Model, error) {
	switch {
	case p.Gamma <= 0:
		return nil, fmt.Errorf("%w: gamma %g", ErrBadParams, p.Gamma)
	case p.Rho <= 0:
		return nil, fmt.Errorf("%w: rho %g", ErrBadParams, p.Rho)
	case p.Chi0 < 0 || p.Chi0 >= 1:
		return nil, fmt.Errorf("%w: chi0 %g outside [0, 1)", ErrBadParams, p.Chi0)
	case p.Chi1 <= 0:
		return nil, fmt.Errorf("%w: chi1 %g", ErrBadParams, p.Chi1)
	case p.AFloor <= 0:
		return nil, fmt.Errorf("%w: illiquid floor %g", ErrBadParams, p.AFloor)
	case p.BMax <= 0 || p.AMax <= 0:
		return nil, fmt.Errorf("%w: caps b=%g a=%g", ErrBadParams, p.BMax, p.AMax)
	case p.BPoints < 2 || p.APoints < 2:
		return nil, fmt.Errorf("%w: grid %dx%d", ErrBadParams, p.BPoints, p.APoints)
	case len(p.Incomes) == 0:
		return nil, fmt.Errorf("%w: no income states", ErrBadParams)
	case len(p.Switch) != len(p.Incomes):
		return nil, fmt.Errorf("%w: %d switch rows for %d income states",
			ErrBadParams, len(p.Switch), len(p.Incomes))
	}
	for r, z := range p.Incomes {
		if z <= 0 {
			return nil, fmt.Errorf("%w: income state %d is %g", ErrBadParams, r, z)
		}
	}
	g, err := grid.New(
		[]grid.Dimension{
			grid.Uniform("liquid", 0, p.BMax, p.BPoints),
			grid.Uniform("illiquid", 0, p.AMax, p.APoints),
		},
		grid.WithRegimes(len(p.Incomes)),
	)
	if err != nil {
		return nil, err
	}
	return &Model{p: p, g: g}, nil
}

// Grid returns the liquid-by-illiquid grid.
func (m *Model) Grid() *grid.Grid { return m.g }

// Discount returns the discount rate.
func (m *Model) Discount() float64 { return m.p.Rho }

// Intensity returns the income-switching intensity matrix.
func (m *Model) Intensity() [][]float64 { return m.p.Switch }

// AuxNames names the recorded policy outputs.
func (m *Model) AuxNames() []string {
	return []string{"consumption", "deposit", "liquid_drift", "illiquid_drift"}
}

// Params returns the calibration the model was built with.
func (m *Model) Params() Params { return m.p }

// cost is the kinked adjustment cost chi(d, a).
func (m *Model) cost(d, a float64) float64 {
	den := math.Max(a, m.p.AFloor)
	return m.p.Chi0*math.Abs(d) + m.p.Chi1*d*d/(2*den)
}

// liquidIncome is labor plus liquid interest, the part of the liquid
// drift that does not depend on any control.
func (m *Model) liquidIncome(flat int) float64 {
	z := m.p.Incomes[m.g.Regime(flat)]
	return m.p.Wage*z + m.p.RLiquid*m.g.Point(0, flat)
}

// Boundary supplies the state-constraint derivatives. On the liquid
// dimension the agent consumes its liquid resources at either cap. On
// the illiquid dimension the derivative is pinned so that the deposit
// first-order condition returns exactly the policy that keeps the
// account inside the grid: zero at the floor, the steady withdrawal
// d = -RIlliquid*a at the cap.
func (m *Model) Boundary(dim int, side grid.Side, flat int) float64 {
	vb := m.marginal(m.liquidIncome(flat))
	if dim == 0 {
		return vb
	}
	if side == grid.Lower {
		return vb * (1 + m.p.Chi0)
	}
	return vb * (1 - m.p.Chi0 - m.p.Chi1*m.p.RIlliquid)
}

// ResolvePolicy resolves the deposit by the four-way Hamiltonian-ranked
// selection, then consumption by the one-control upwind rule on the
// liquid derivative with the deposit leg folded into the drift. The
// liquid dimension carries one combined flow, so the steady consumption
// fallback can absorb deposit-driven inflows at the liquid cap.
func (m *Model) ResolvePolicy(flat int, d *grid.Bundle) (hjb.Controls, error) {
	adj, err := m.resolveDeposit(flat, d)
	if err != nil {
		return hjb.Controls{}, err
	}
	a := m.g.Point(1, flat)
	depositLeg := -adj.Deposit - m.cost(adj.Deposit, a)
	resources := m.liquidIncome(flat) + depositLeg

	vbf := d.Forward(0, flat)
	vbb := d.Backward(0, flat)
	cf := m.consumption(vbf)
	cb := m.consumption(vbb)
	i := m.g.Coord(0, flat)

	// A deposit leg larger than the liquid inflow leaves nothing to
	// consume; a NaN derivative makes the steady candidate inadmissible
	// instead of accepting negative consumption (whose CRRA utility
	// would be spuriously finite at even curvatures).
	steadyDeriv := math.NaN()
	if resources > 0 {
		steadyDeriv = m.marginal(resources)
	}

	cons, err := policy.Resolve(policy.Candidates{
		Forward:  policy.Candidate{Control: cf, Drift: resources - cf, Deriv: vbf},
		Backward: policy.Candidate{Control: cb, Drift: resources - cb, Deriv: vbb},
		Steady:   policy.Candidate{Control: resources, Drift: 0, Deriv: steadyDeriv},
		AtLower:  i == 0,
		AtUpper:  i == m.g.Len(0)-1,
	})
	if err != nil {
		return hjb.Controls{}, fmt.Errorf("liquid %g, illiquid %g, regime %d: %w",
			m.g.Point(0, flat), a, m.g.Regime(flat), err)
	}

	return hjb.Controls{
		Flows: []hjb.Flow{
			{Dim: 0, Drift: cons.Drift},
			{Dim: 1, Drift: adj.DriftA},
		},
		Utility: m.utility(cons.Control),
		Aux:     []float64{cons.Control, adj.Deposit, cons.Drift, adj.DriftA},
	}, nil
}

// resolveDeposit builds the admissible derivative combinations and runs
// the four-way selection. Combinations pointing out of the grid at a
// bound are never constructed, so the selection sees only candidates it
// may legally pick.
func (m *Model) resolveDeposit(flat int, d *grid.Bundle) (policy.AdjustResolution, error) {
	a := m.g.Point(1, flat)
	ib := m.g.Coord(0, flat)
	ia := m.g.Coord(1, flat)
	atBLower, atBUpper := ib == 0, ib == m.g.Len(0)-1
	atALower, atAUpper := ia == 0, ia == m.g.Len(1)-1

	vb := [2]float64{d.Forward(0, flat), d.Backward(0, flat)}
	va := [2]float64{d.Forward(1, flat), d.Backward(1, flat)}
	dirs := [2]policy.Direction{policy.Forward, policy.Backward}

	cands := make([]policy.AdjustCandidate, 0, 4)
	for bi, bDir := range dirs {
		if (bDir == policy.Forward && atBUpper) || (bDir == policy.Backward && atBLower) {
			continue
		}
		for ai, aDir := range dirs {
			if (aDir == policy.Forward && atAUpper) || (aDir == policy.Backward && atALower) {
				continue
			}
			dep, ok := m.deposit(va[ai], vb[bi], a)
			if !ok {
				continue
			}
			driftB := -dep - m.cost(dep, a)
			driftA := m.p.RIlliquid*a + dep
			cands = append(cands, policy.AdjustCandidate{
				BDir:        bDir,
				ADir:        aDir,
				Deposit:     dep,
				DriftB:      driftB,
				DriftA:      driftA,
				Hamiltonian: vb[bi]*driftB + va[ai]*driftA,
			})
		}
	}

	fallback := m.fallbackDeposit(a, atAUpper)
	res, err := policy.ResolveAdjustment(cands, fallback)
	if err != nil {
		return policy.AdjustResolution{}, fmt.Errorf("illiquid %g, regime %d: %w",
			a, m.g.Regime(flat), err)
	}
	return res, nil
}

// deposit inverts the first-order condition of the kinked cost: at most
// one of the deposit and withdrawal legs is active. A non-positive
// liquid derivative admits no deposit policy.
func (m *Model) deposit(va, vb, a float64) (float64, bool) {
	if !(vb > 0) || math.IsNaN(va) {
		return 0, false
	}
	den := math.Max(a, m.p.AFloor)
	ratio := va/vb - 1
	up := den / m.p.Chi1 * math.Max(ratio-m.p.Chi0, 0)
	down := den / m.p.Chi1 * math.Min(ratio+m.p.Chi0, 0)
	return up + down, true
}

// fallbackDeposit is the policy applied when no derivative combination
// is compatible: the steady withdrawal d = -RIlliquid*a at the illiquid
// cap, no adjustment everywhere else. At the zero floor no adjustment
// is already steady, since the floor earns nothing.
func (m *Model) fallbackDeposit(a float64, atAUpper bool) *policy.AdjustCandidate {
	dep := 0.0
	if atAUpper {
		dep = -m.p.RIlliquid * a
	}
	return &policy.AdjustCandidate{
		BDir:    policy.Steady,
		ADir:    policy.Steady,
		Deposit: dep,
		DriftB:  -dep - m.cost(dep, a),
		DriftA:  m.p.RIlliquid*a + dep,
	}
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

// consumption inverts the marginal utility; NaN discards the candidate.
func (m *Model) consumption(dv float64) float64 {
	if dv <= 0 {
		return math.NaN()
	}
	return math.Pow(dv, -1/m.p.Gamma)
}
