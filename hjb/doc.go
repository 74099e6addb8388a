// Package hjb solves continuous-time Hamilton-Jacobi-Bellman control
// problems by the implicit upwind finite-difference scheme.
//
// What:
//
//   - Solve: the stationary fixed-point loop. Per iteration it
//     differentiates the value function (grid), resolves the policy at
//     every point (the Model), assembles and checks the generator
//     (generator), and solves the implicit linear system
//     ((rho + 1/Delta) I - A) V_new = u + V_old/Delta
//     by dense LU, iterating until successive value functions agree in
//     sup norm.
//   - SolvePath: the finite-horizon variant. One backward pass over
//     strictly increasing time nodes from a terminal value function,
//     Delta equal to the node spacing, no convergence check.
//   - TimeDerivative: the a-posteriori residual u + A*V - rho*V.
//
// Why implicit:
//
//	The implicit scheme is unconditionally stable, so Delta may be
//	arbitrarily large; it shapes the convergence path but not the fixed
//	point. The system matrix is strictly diagonally dominant because the
//	generator has zero row sums, which keeps the LU solve robust.
//
// States: Iterating (initial) -> Converged (success) or Failed
// (budget exhausted: ErrNoConvergence together with the partial result
// and the full residual history; or any invariant violation from the
// assembly stage, which aborts immediately).
//
// Concurrency: fully synchronous and single-threaded. The value array
// has exactly one writer (the loop); differencing, policy resolution,
// and assembly only read it.
//
// Errors: ErrNilModel, ErrShapeMismatch, ErrBadOptions, ErrBadTimes,
// ErrNoConvergence, ErrLinearSolve, ErrFlowDim, plus everything the
// grid and generator stages raise.
package hjb
