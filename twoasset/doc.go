// Package twoasset implements the two-asset adjustment-cost model:
// agents consume out of a liquid account, earn a premium on an illiquid
// account, and move funds between the two against a kinked cost
//
//	chi(d, a) = chi0*|d| + chi1*d^2 / (2*max(a, floor)).
//
// The kink makes the value function non-smooth in the deposit control,
// so the policy cannot be resolved from a single derivative: every grid
// point evaluates the four combinations of one-sided derivatives across
// the two asset dimensions, discards combinations whose implied drift
// signs contradict the chosen differencing directions, and keeps the
// compatible combination with the greatest Hamiltonian. Consumption is
// then resolved by the ordinary one-sided rule on the liquid
// derivative, with the chosen deposit leg folded into the liquid drift.
//
// What:
//   - Params / DefaultParams - the calibration and a two-state default.
//   - NewModel - validated construction of an hjb.Model on a
//     liquid-by-illiquid grid (dimension 0 liquid, dimension 1
//     illiquid, both floored at zero).
//
// The resolution is total: every grid point ends in exactly one of a
// compatible derivative combination or the explicit fallback (steady
// withdrawal at the illiquid cap, no adjustment elsewhere). The
// fallback is reported through policy.AdjustResolution.FromFallback.
//
// Errors: ErrBadParams from NewModel; solver errors pass through from
// the hjb, policy, and generator packages.
package twoasset
