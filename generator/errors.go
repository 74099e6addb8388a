// Package generator: sentinel error set. Assembly errors are fatal by
// design: a corrupted generator silently produces an economically
// meaningless value function, so every invariant violation aborts
// before any linear solve is attempted.
package generator

import "errors"

var (
	// ErrBadSize indicates a non-positive state-space size.
	ErrBadSize = errors.New("generator: state-space size must be > 0")
	// ErrIndexRange indicates a state index outside [0, n).
	ErrIndexRange = errors.New("generator: state index out of range")
	// ErrSelfLoop indicates an off-diagonal edge from a state to itself.
	ErrSelfLoop = errors.New("generator: self-loop edge; diagonals are set during Finalize")
	// ErrBadRate indicates a negative, NaN, or infinite transition rate.
	ErrBadRate = errors.New("generator: rate must be finite and non-negative")
	// ErrBoundaryDrift indicates a resolved drift pointing out of the
	// grid at a boundary point, which would require a transition to a
	// state that does not exist. This usually means the model's
	// boundary-condition callback is wrong.
	ErrBoundaryDrift = errors.New("generator: drift points outside the grid at a boundary")
	// ErrBadIntensity indicates an exogenous intensity matrix that is
	// not square over the regimes, has negative off-diagonals, or has
	// row sums away from zero.
	ErrBadIntensity = errors.New("generator: invalid exogenous intensity matrix")
	// ErrShapeMismatch indicates a drift or variance array whose length
	// differs from the flattened state-space size.
	ErrShapeMismatch = errors.New("generator: array length does not match state-space size")
	// ErrRowSum indicates a finalized generator whose maximum absolute
	// row sum exceeds tolerance. Mandatory invariant; fatal.
	ErrRowSum = errors.New("generator: row sums depart from zero beyond tolerance")
	// ErrFinalized indicates use of a Builder after Finalize.
	ErrFinalized = errors.New("generator: builder already finalized")
)
