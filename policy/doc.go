// Package policy resolves optimal controls and drifts from one-sided
// derivative candidates.
//
// What:
//
//   - Resolve: the single-control upwind rule. Forward iff forward
//     drift > 0, else backward iff backward drift < 0, else the
//     analytic steady-state (zero drift) candidate. Bound flags forbid
//     the inadmissible one-sided difference at the grid edges.
//   - ResolveAdjustment: the four-way selection of kinked two-asset
//     adjustment problems. Candidates pair a liquid- and an
//     illiquid-dimension derivative direction; incompatible sign
//     combinations are discarded and the compatible candidate with the
//     greatest Hamiltonian wins under one canonical total order.
//
// Why:
//
//	The upwind rule is what makes the implicit finite-difference scheme
//	for Hamilton-Jacobi-Bellman equations monotone: each point's policy
//	must be computed from the derivative on the side the state actually
//	moves toward. The three- and four-way candidate sets are modeled as
//	explicit tagged values rather than boolean index arrays, so that
//	exactly-one-candidate selection is enforced by construction.
//
// Determinism:
//
//	Hamiltonian ties break toward the earliest candidate in the caller's
//	enumeration order, conventionally (F,F), (F,B), (B,F), (B,B). There
//	is no other hidden ordering.
//
// Errors:
//
//   - ErrUnreachable: no candidate satisfied any guard (caller bug;
//     never silently defaulted).
//   - ErrBadCandidate: malformed four-way candidate.
//
// All functions are pure and O(1) or O(candidates) per grid point.
package policy
