// Package policy resolves optimal controls from one-sided derivative
// candidates by upwind sign rules, including the four-way
// Hamiltonian-ranked selection of kinked two-asset adjustment problems.
package policy

import (
	"fmt"
	"math"
)

// steadyDriftTol bounds the drift a Steady candidate may carry before
// it is rejected as malformed. The zero-drift condition is analytic, so
// anything beyond rounding noise means the caller built it wrong.
const steadyDriftTol = 1e-12

// Resolve applies the upwind rule to the three candidates at one point:
//
//  1. Use the forward candidate iff it is admissible (not at the upper
//     bound) and its implied drift is strictly positive.
//  2. Else use the backward candidate iff it is admissible (not at the
//     lower bound) and its implied drift is strictly negative.
//  3. Else use the steady-state candidate, whose drift must be zero.
//
// Concavity of the value function guarantees that the forward and
// backward guards cannot both fire: the backward derivative dominates
// the forward one, so a positive forward drift forces a positive
// backward drift and vice versa. A NaN drift (e.g. from inverting a
// non-positive marginal value) fails both strict comparisons and falls
// through, which is exactly the intended treatment of inadmissible
// derivative candidates.
//
// Returns ErrUnreachable when the steady fallback itself is malformed;
// selection never silently defaults.
//
// Complexity: O(1).
func Resolve(c Candidates) (Resolution, error) {
	if !c.AtUpper && c.Forward.Drift > 0 {
		return Resolution{Dir: Forward, Control: c.Forward.Control, Drift: c.Forward.Drift, Deriv: c.Forward.Deriv}, nil
	}
	if !c.AtLower && c.Backward.Drift < 0 {
		return Resolution{Dir: Backward, Control: c.Backward.Control, Drift: c.Backward.Drift, Deriv: c.Backward.Deriv}, nil
	}
	s := c.Steady
	if math.Abs(s.Drift) > steadyDriftTol || !isFinite(s.Control) || !isFinite(s.Deriv) {
		return Resolution{}, fmt.Errorf("%w: steady candidate {control=%g drift=%g deriv=%g}",
			ErrUnreachable, s.Control, s.Drift, s.Deriv)
	}
	return Resolution{Dir: Steady, Control: s.Control, Drift: 0, Deriv: s.Deriv}, nil
}

// ResolveAdjustment selects among the compatible four-way candidates of
// a two-asset adjustment problem.
//
// A candidate is compatible iff each chosen one-sided direction matches
// the strict sign of its drift in that dimension: Forward requires
// drift > 0, Backward requires drift < 0. Candidates at inadmissible
// bounds must be excluded by the caller (they simply do not appear in
// cands).
//
// Canonical total order: candidates are scanned in the caller's order,
// which by convention is (F,F), (F,B), (B,F), (B,B). Among compatible
// candidates the one with the strictly greatest Hamiltonian wins; on an
// exact tie the earliest candidate in scan order wins. This replaces
// the ambiguous self-comparison branch of earlier implementations with
// one documented order.
//
// When no candidate is compatible the fallback applies (no adjustment,
// or a steady policy at a bound); a nil fallback means pure inaction
// with zero deposit and zero induced drifts. The outcome is therefore
// total: every point resolves to exactly one of forward-compatible,
// backward-compatible, or fallback.
//
// Complexity: O(len(cands)).
func ResolveAdjustment(cands []AdjustCandidate, fallback *AdjustCandidate) (AdjustResolution, error) {
	best := -1
	for k, c := range cands {
		if c.BDir == Steady || c.ADir == Steady {
			return AdjustResolution{}, fmt.Errorf("%w: candidate %d has a steady direction", ErrBadCandidate, k)
		}
		if math.IsNaN(c.Hamiltonian) {
			return AdjustResolution{}, fmt.Errorf("%w: candidate %d has NaN Hamiltonian", ErrBadCandidate, k)
		}
		if !compatible(c.BDir, c.DriftB) || !compatible(c.ADir, c.DriftA) {
			continue
		}
		if best < 0 || c.Hamiltonian > cands[best].Hamiltonian {
			best = k
		}
	}
	if best >= 0 {
		return AdjustResolution{AdjustCandidate: cands[best]}, nil
	}
	if fallback != nil {
		return AdjustResolution{AdjustCandidate: *fallback, FromFallback: true}, nil
	}
	return AdjustResolution{
		AdjustCandidate: AdjustCandidate{BDir: Steady, ADir: Steady},
		FromFallback:    true,
	}, nil
}

// compatible reports whether a drift sign matches the chosen direction.
func compatible(dir Direction, drift float64) bool {
	if dir == Forward {
		return drift > 0
	}
	return drift < 0
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
