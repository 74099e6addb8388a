// Package huggett implements the single-asset heterogeneous-agent
// consumption-savings model: CRRA agents save in one liquid asset at a
// fixed interest rate, face Poisson switching between income states,
// and may borrow up to an exogenous constraint.
//
// What:
//   - Params / DefaultParams - the calibration and a two-state default.
//   - NewModel - validated construction of an hjb.Model.
//
// Why:
// The model is the canonical smoke test of the solver stack: one
// continuous dimension, an analytically known boundary treatment
// (consume your resources at the constraint), and a stationary wealth
// distribution with a mass point at the borrowing limit for the low
// income state.
//
// The state-constraint boundary condition is imposed through the
// derivative, never the value: at a bound the agent consumes exactly
// z + r*a, so the constrained one-sided derivative is u'(z + r*a) and
// the resolved drift cannot point outside the grid.
//
// Errors: ErrBadParams from NewModel; solver errors pass through from
// the hjb, policy, and generator packages.
package huggett
