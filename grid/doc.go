// Package grid discretizes continuous state spaces and computes upwind
// finite differences of value functions defined on them.
//
// What:
//
//   - Grid: the Cartesian product of 1-3 continuous dimensions (each a
//     strictly increasing sequence of points) and R discrete exogenous
//     Markov regimes, flattened into one linear index.
//   - Differentiate: forward/backward one-sided differences, a
//     second-derivative estimate, and cross second derivatives per
//     dimension pair, with state constraints supplied analytically via
//     a BoundaryFunc callback.
//
// Why:
//
//   - Upwind finite-difference solvers for Hamilton-Jacobi-Bellman
//     equations need both one-sided derivatives at every point so the
//     policy step can select the side consistent with the local drift.
//   - A single flat index over the full product space is what the
//     generator-matrix assembly and the linear solves index by.
//
// Layout:
//
//	Continuous dimensions vary slowest (in declaration order), the
//	regime varies fastest, so a regime switch is a flat step of 1 and a
//	step along the last continuous dimension is a flat step of R.
//
// Complexity:
//
//   - New:           O(total points).
//   - Differentiate: O(size x dims) time and memory.
//   - Index/Coords:  O(dims); Point/Coord/Regime: O(1).
//
// Errors:
//
//   - ErrNoDimensions, ErrEmptyDimension, ErrNotAscending,
//     ErrNonFinitePoint, ErrBadRegimes: invalid construction input.
//   - ErrShapeMismatch: value array does not match Size().
//   - ErrNilBoundary: Differentiate called without a boundary callback.
//   - ErrDimRange, ErrIndexRange: out-of-range lookups.
package grid
