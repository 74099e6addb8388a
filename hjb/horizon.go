package hjb

import (
	"fmt"
)

// SolvePath runs the finite-horizon variant: a single backward pass
// over a strictly increasing sequence of time nodes, starting from the
// supplied terminal value function at the last node and producing one
// value function per node.
//
// Each backward step is one implicit update with Delta equal to the
// local node spacing; there is no convergence check, and the pass
// always completes in exactly len(times)-1 steps. The returned
// PathResult records the policy outputs resolved at the earliest node,
// which is where finite-horizon analyses read the time-zero policy.
//
// Complexity: O(len(times) x n^3).
func SolvePath(m Model, vTerminal []float64, times []float64) (*PathResult, error) {
	g, err := validate(m, vTerminal, Options{Delta: 1, Tol: 1, MaxIter: 1})
	if err != nil {
		return nil, err
	}
	if len(times) < 2 {
		return nil, fmt.Errorf("%w: got %d node(s)", ErrBadTimes, len(times))
	}
	for k := 1; k < len(times); k++ {
		if times[k] <= times[k-1] {
			return nil, fmt.Errorf("%w: node %d", ErrBadTimes, k)
		}
	}

	values := make([][]float64, len(times))
	last := make([]float64, len(vTerminal))
	copy(last, vTerminal)
	values[len(times)-1] = last

	var first *step
	for k := len(times) - 2; k >= 0; k-- {
		st, err := resolveStep(m, g, values[k+1])
		if err != nil {
			return nil, fmt.Errorf("time node %d: %w", k, err)
		}
		delta := times[k+1] - times[k]
		vk, err := implicitUpdate(st.gen, st.utility, values[k+1], m.Discount(), delta)
		if err != nil {
			return nil, fmt.Errorf("time node %d: %w", k, err)
		}
		values[k] = vk
		if k == 0 {
			first = st
		}
	}

	out := &PathResult{
		Times:     append([]float64(nil), times...),
		Values:    values,
		Drift:     first.drift,
		Utility:   first.utility,
		Aux:       first.auxMap(m),
		Generator: first.gen,
	}
	return out, nil
}
