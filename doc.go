// Package hjbflow solves continuous-time heterogeneous-agent control
// problems by implicit finite differences: the value function of a
// Hamilton-Jacobi-Bellman equation, the sparse Markov generator its
// optimal policy implies, and the stationary distribution of that
// generator.
//
// 🚀 What is hjbflow?
//
//	A numerical core for "Huggett/Aiyagari in continuous time" models:
//		• State grids: rectangular, regime-augmented, flat-indexed
//		• Differencing: one-sided, second, and cross differences with
//		  analytic state-constraint boundary conditions
//		• Policy resolution: upwind sign rules, incl. the four-way
//		  Hamiltonian-ranked selection of kinked adjustment problems
//		• Generator assembly: sparse CSR with enforced invariants
//		  (zero row sums, non-negative off-diagonals)
//		• HJB solve: unconditionally stable implicit fixed point,
//		  stationary and finite-horizon
//		• Stationary distributions: four cross-checkable strategies
//		  for the singular Kolmogorov Forward system
//
// ✨ Why choose hjbflow?
//
//   - Invariants first – every generator is checked before it is used
//   - Explicit failures – sentinel errors name the violated invariant
//     and the iteration it broke at; nothing is silently defaulted
//   - Cross-checked – independent distribution strategies agree on
//     well-posed problems, so disagreement is a diagnosis
//   - Extensible – one Model interface turns any drift-and-utility
//     specification into a solvable problem
//
// Under the hood, everything is organized under focused subpackages:
//
//	grid/        — state grids, flat indexing, difference bundles
//	policy/      — upwind candidate selection
//	generator/   — sparse CTMC generator builder and CSR matrix
//	hjb/         — the implicit solver and the Model extension point
//	kfe/         — stationary distribution strategies
//	huggett/     — the one-asset benchmark model
//	twoasset/    — the kinked adjustment-cost model
//	calibration/ — YAML configuration
//	cmd/hjbsolve — command-line frontend
//
// Dive into the examples/ directory for runnable walkthroughs of the
// wealth distribution and the two-asset deposit policy.
//
//	go get github.com/greimel/hjbflow
package hjbflow
