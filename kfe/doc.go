// Package kfe solves the stationary Kolmogorov Forward equation: given
// a frozen, invariant-satisfying generator A, it computes the density
// pi with pi'A = 0, pi >= 0, and sum(pi) * cell measure = 1.
//
// What:
//
//	One parameterized solver with four explicit strategies instead of
//	copy-pasted near-duplicates:
//
//	  - Direct:    pin one coordinate of A'x = 0, LU solve, one
//	               regularized retry on singularity.
//	  - Death:     (delta*I - A')g = delta*g0, always nonsingular.
//	  - Eigen:     eigenvector of A' at the eigenvalue nearest zero,
//	               with a warning when that eigenvalue is not near zero.
//	  - Iterative: explicit Euler on dg/dt = A'g with mandatory
//	               finiteness checks.
//
// Why:
//
//	A is rank-deficient by exactly one on an irreducible chain, so the
//	stationary system is underdetermined and numerically delicate.
//	Cross-checking independent strategies against each other is the
//	primary correctness property of the whole numerical core.
//
// Errors:
//
//   - ErrSingular: pinned system singular even after the single retry.
//   - ErrNonFinite: NaN/Inf mid-iteration (fatal, never silent).
//   - ErrNoConvergence: Euler step budget exhausted.
//   - ErrEigenFailed, ErrZeroMass, ErrBadStrategy, ErrBadOptions,
//     ErrShapeMismatch, ErrNilGenerator: setup and method failures.
//
// Complexity: Direct/Death are one dense LU solve, O(n^3); Eigen is a
// dense eigendecomposition; Iterative is O(nnz) per Euler step.
package kfe
