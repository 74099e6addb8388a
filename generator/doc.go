// Package generator turns resolved endogenous drifts and exogenous
// Markov intensities into one sparse continuous-time generator matrix
// over the flattened state space.
//
// What:
//
//   - Builder: accumulates (from, to, rate) triples - upwind drift
//     edges (rate = |drift| / spacing, one grid step in the drift
//     direction), second-order diffusion edges, and regime-switching
//     edges from an intensity matrix - then assembles them in one bulk
//     step.
//   - Matrix: the finalized CSR generator with sparse matrix-vector
//     products (A*x and A'*x) and dense materialization for direct
//     solves.
//
// Why:
//
//	The generator is rebuilt from the current policy on every HJB
//	iteration and then frozen for the Kolmogorov Forward solve, so
//	construction must be cheap, deterministic, and verifiable. Bulk
//	triple assembly over the explicit flat index is simpler and safer
//	than incremental sparse mutation.
//
// Invariants (checked in Finalize, mandatory):
//
//   - every row sums to zero within DefaultRowSumTol;
//   - every off-diagonal entry is non-negative and finite;
//   - drifts at grid bounds never point outside the grid.
//
// A violation aborts before any linear solve runs: a corrupted
// generator would silently produce a meaningless value function.
//
// Complexity:
//
//   - Add/AddFlowAt: O(1) amortized; AddFlow/AddDiffusion/AddIntensity:
//     O(size) / O(size x regimes).
//   - Finalize: O(nnz log nnz).
//   - MulVec/MulTransVec: O(nnz); Dense: O(n^2).
//
// Errors:
//
//   - ErrBadSize, ErrIndexRange, ErrSelfLoop, ErrBadRate,
//     ErrShapeMismatch, ErrFinalized: construction misuse.
//   - ErrBoundaryDrift: outward drift at a bound (bad boundary callback).
//   - ErrBadIntensity: malformed exogenous intensity matrix.
//   - ErrRowSum: zero-row-sum invariant violated.
package generator
