package kfe

import "errors"

var (
	// ErrNilGenerator indicates a nil generator or grid argument.
	ErrNilGenerator = errors.New("kfe: generator and grid must not be nil")
	// ErrShapeMismatch indicates a generator whose size differs from
	// the grid's flattened size.
	ErrShapeMismatch = errors.New("kfe: generator size does not match grid")
	// ErrBadStrategy indicates an unknown strategy value.
	ErrBadStrategy = errors.New("kfe: unknown strategy")
	// ErrBadOptions indicates non-positive tolerances, death rate,
	// iteration budget, or an out-of-range pin.
	ErrBadOptions = errors.New("kfe: invalid options")
	// ErrSingular indicates the Direct method's pinned system was
	// singular even after the single regularized retry.
	ErrSingular = errors.New("kfe: pinned stationary system is singular")
	// ErrEigenFailed indicates the eigendecomposition did not converge.
	ErrEigenFailed = errors.New("kfe: eigendecomposition failed")
	// ErrNonFinite indicates a NaN or Inf appeared mid-iteration in the
	// Iterative method. Fatal and explicit: naive fixed-point iteration
	// can otherwise diverge silently.
	ErrNonFinite = errors.New("kfe: non-finite value during iteration")
	// ErrNoConvergence indicates the Iterative method exhausted its
	// step budget before successive iterates stopped moving.
	ErrNoConvergence = errors.New("kfe: iteration budget exhausted")
	// ErrZeroMass indicates a candidate solution with non-positive
	// total mass, which cannot be normalized to a distribution.
	ErrZeroMass = errors.New("kfe: candidate distribution has non-positive mass")
)
