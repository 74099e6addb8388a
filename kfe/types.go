// Package kfe defines the strategy enumeration, options, and result
// types of the stationary Kolmogorov Forward solver.
package kfe

// Strategy selects the numerical method for the stationary distribution
// of a frozen generator. All strategies agree on a well-posed
// (irreducible) generator; that agreement is the core's primary
// cross-check.
type Strategy int

const (
	// Direct pins one coordinate of A'x = 0 and solves the resulting
	// square system once, retrying once with a small diagonal
	// regularization if the pinned system is numerically singular.
	Direct Strategy = iota
	// Death solves (delta*I - A')g = delta*g0 for a small death rate
	// delta > 0 and a uniform rebirth distribution g0. Always
	// nonsingular; converges to the true distribution as delta -> 0.
	Death
	// Eigen takes the eigenvector of A' whose eigenvalue is nearest
	// zero, warning (not failing) when that eigenvalue's magnitude is
	// not itself near zero.
	Eigen
	// Iterative integrates dg/dt = A'g with explicit Euler steps until
	// successive iterates stop moving in sup norm.
	Iterative
)

// String returns the strategy name for diagnostics and flag parsing.
func (s Strategy) String() string {
	switch s {
	case Direct:
		return "direct"
	case Death:
		return "death"
	case Eigen:
		return "eigen"
	case Iterative:
		return "iterative"
	default:
		return "unknown"
	}
}

// Options tunes the stationary solve. The zero value is not valid; use
// DefaultOptions and override fields as needed.
type Options struct {
	// Strategy selects the method (default Direct).
	Strategy Strategy
	// Pin is the coordinate fixed by the Direct method (default 0).
	Pin int
	// Regularization is the diagonal shift used by the Direct method's
	// single retry on a singular pinned system.
	Regularization float64
	// DeathRate is the delta of the Death method; must be > 0.
	DeathRate float64
	// ZeroTol bounds how far from zero the Eigen method's principal
	// eigenvalue may be before a warning is recorded.
	ZeroTol float64
	// Tol is the sup-norm convergence tolerance of the Iterative method.
	Tol float64
	// MaxIter bounds the Iterative method's Euler steps.
	MaxIter int
	// TimeStep is the Euler step; 0 derives a stable step from the
	// generator's fastest outflow rate.
	TimeStep float64
}

// DefaultOptions returns the documented defaults: Direct strategy,
// pin 0, regularization 1e-9, death rate 1e-6, zero tolerance 1e-8,
// iterative tolerance 1e-9 with at most 500000 steps and an automatic
// step size.
func DefaultOptions() Options {
	return Options{
		Strategy:       Direct,
		Pin:            0,
		Regularization: 1e-9,
		DeathRate:      1e-6,
		ZeroTol:        1e-8,
		Tol:            1e-9,
		MaxIter:        500000,
	}
}

// Distribution is a stationary density over the flattened state space:
// non-negative, with sum(Density) * cell measure == 1, and A'*Density
// approximately zero.
type Distribution struct {
	// Density holds the per-state density values.
	Density []float64
	// Strategy records the method that produced the distribution.
	Strategy Strategy
	// Iterations is the Euler step count of the Iterative method and
	// zero otherwise.
	Iterations int
	// Eigenvalue is the magnitude of the principal eigenvalue found by
	// the Eigen method and zero otherwise.
	Eigenvalue float64
	// Warnings records non-fatal diagnostics: an eigenvalue away from
	// zero (ill-conditioned or reducible chain) or clipped negative
	// mass beyond rounding noise.
	Warnings []string

	measure float64
}

// Probabilities returns the distribution as a probability vector
// (Density scaled by the cell measure, summing to one).
func (d *Distribution) Probabilities() []float64 {
	p := make([]float64, len(d.Density))
	for i, v := range d.Density {
		p[i] = v * d.measure
	}
	return p
}
