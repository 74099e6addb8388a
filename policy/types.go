// Package policy defines the candidate and resolution types for upwind
// control selection.
package policy

// Direction tags which one-sided derivative a resolved policy uses.
// The three-way split is the natural sum type of the upwind rule:
// exactly one of the forward, backward, or steady-state candidates
// applies at every grid point.
type Direction int

const (
	// Forward selects the forward one-sided difference (drift > 0).
	Forward Direction = iota
	// Backward selects the backward one-sided difference (drift < 0).
	Backward
	// Steady selects the no-drift candidate, with the derivative
	// defined analytically from the zero-drift condition.
	Steady
)

// String returns the direction tag for diagnostics.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "steady"
	}
}

// Candidate is one admissible policy implied by a particular derivative
// choice: the control value, the drift of the endogenous state it
// implies, and the derivative it was computed from.
type Candidate struct {
	Control float64
	Drift   float64
	Deriv   float64
}

// Candidates bundles the three upwind candidates at one grid point for
// a single continuous control dimension, plus bound flags. At the lower
// bound only the forward difference is admissible; at the upper bound
// only the backward difference. The Steady candidate must carry a zero
// drift by construction.
type Candidates struct {
	Forward  Candidate
	Backward Candidate
	Steady   Candidate
	AtLower  bool
	AtUpper  bool
}

// Resolution is the outcome of upwind selection at one grid point.
type Resolution struct {
	Dir     Direction
	Control float64
	Drift   float64
	Deriv   float64
}

// AdjustCandidate is one of the four derivative combinations of the
// two-asset, cost-constrained adjustment problem: a choice of one-sided
// direction in the liquid dimension (BDir) and the illiquid dimension
// (ADir), the deposit it implies, the deposit-induced drifts in both
// dimensions, and the instantaneous Hamiltonian used for ranking.
type AdjustCandidate struct {
	BDir        Direction
	ADir        Direction
	Deposit     float64
	DriftB      float64
	DriftA      float64
	Hamiltonian float64
}

// AdjustResolution is the outcome of the four-way selection. When no
// candidate is compatible the caller-supplied fallback (or, absent one,
// the zero-deposit inaction policy) is used and FromFallback is set.
type AdjustResolution struct {
	AdjustCandidate
	FromFallback bool
}
