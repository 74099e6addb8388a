package hjb

import "errors"

var (
	// ErrNilModel indicates a nil model or a model with a nil grid.
	ErrNilModel = errors.New("hjb: model and its grid must not be nil")
	// ErrShapeMismatch indicates an initial or terminal value function
	// whose length differs from the grid size, or auxiliary outputs
	// inconsistent with AuxNames.
	ErrShapeMismatch = errors.New("hjb: array length does not match model")
	// ErrBadOptions indicates a non-positive step size, tolerance, or
	// iteration budget.
	ErrBadOptions = errors.New("hjb: invalid options")
	// ErrBadTimes indicates a finite-horizon time sequence that is not
	// strictly increasing or has fewer than two nodes.
	ErrBadTimes = errors.New("hjb: time nodes must be strictly increasing, length >= 2")
	// ErrNoConvergence indicates the iteration budget was exhausted
	// before the sup-norm tolerance was met. The partial result carries
	// the full residual history.
	ErrNoConvergence = errors.New("hjb: iteration budget exhausted without convergence")
	// ErrLinearSolve indicates the implicit linear system failed to
	// factorize. The system is strictly diagonally dominant by
	// construction, so this signals a corrupted generator that somehow
	// passed its invariant check, or non-finite utility values.
	ErrLinearSolve = errors.New("hjb: implicit linear solve failed")
	// ErrFlowDim indicates a resolved flow referencing a dimension the
	// grid does not have.
	ErrFlowDim = errors.New("hjb: flow dimension out of range")
)
