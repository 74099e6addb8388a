// Package hjb iterates the implicit upwind finite-difference scheme for
// stationary and finite-horizon Hamilton-Jacobi-Bellman problems.
package hjb

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/greimel/hjbflow/generator"
	"github.com/greimel/hjbflow/grid"
)

// Solve runs the implicit fixed-point loop to convergence:
//
//	differencing -> policy resolution -> generator assembly (with its
//	mandatory invariant check) -> implicit linear solve -> sup-norm test.
//
// Each iteration solves
//
//	((rho + 1/Delta) I - A) V_new = u + V_old / Delta
//
// by dense LU factorization; the system is strictly diagonally dominant
// because A has zero row sums, so the solve is robust for any Delta.
//
// The loop owns its value array exclusively: v0 is copied on entry and
// the differencing, policy, and assembly stages only ever read it.
// On a converged run the returned Result freezes the last assembled
// generator for the stationary-distribution solve. On an exhausted
// iteration budget Solve returns the partial Result together with
// ErrNoConvergence and the full residual history.
//
// Complexity: O(MaxIter x n^3) worst case, dominated by the LU solve.
func Solve(m Model, v0 []float64, opts Options) (*Result, error) {
	g, err := validate(m, v0, opts)
	if err != nil {
		return nil, err
	}

	v := make([]float64, len(v0))
	copy(v, v0)
	residuals := make([]float64, 0, opts.MaxIter)

	for it := 1; it <= opts.MaxIter; it++ {
		st, err := resolveStep(m, g, v)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", it, err)
		}
		vnew, err := implicitUpdate(st.gen, st.utility, v, m.Discount(), opts.Delta)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", it, err)
		}

		res := 0.0
		for i := range v {
			if d := math.Abs(vnew[i] - v[i]); d > res {
				res = d
			}
		}
		residuals = append(residuals, res)
		v = vnew

		if res < opts.Tol {
			return &Result{
				V:          v,
				Drift:      st.drift,
				Utility:    st.utility,
				Aux:        st.auxMap(m),
				Generator:  st.gen,
				Residuals:  residuals,
				Iterations: it,
				Converged:  true,
			}, nil
		}
	}

	partial := &Result{V: v, Residuals: residuals, Iterations: opts.MaxIter}
	return partial, fmt.Errorf("%w: %d iterations, last residual %g",
		ErrNoConvergence, opts.MaxIter, residuals[len(residuals)-1])
}

// step is the outcome of one differencing/policy/assembly pass.
type step struct {
	gen     *generator.Matrix
	utility []float64
	drift   [][]float64
	aux     [][]float64
}

func (s *step) auxMap(m Model) map[string][]float64 {
	names := m.AuxNames()
	out := make(map[string][]float64, len(names))
	for k, name := range names {
		out[name] = s.aux[k]
	}
	return out
}

// resolveStep differentiates the current value function, resolves the
// policy at every point, and assembles the generator.
func resolveStep(m Model, g *grid.Grid, v []float64) (*step, error) {
	bundle, err := grid.Differentiate(v, g, m.Boundary)
	if err != nil {
		return nil, err
	}

	n := g.Size()
	nd := g.NumDims()
	st := &step{
		utility: make([]float64, n),
		drift:   make([][]float64, nd),
		aux:     make([][]float64, len(m.AuxNames())),
	}
	for d := range st.drift {
		st.drift[d] = make([]float64, n)
	}
	for k := range st.aux {
		st.aux[k] = make([]float64, n)
	}

	builder, err := generator.NewBuilder(n)
	if err != nil {
		return nil, err
	}
	for flat := 0; flat < n; flat++ {
		c, err := m.ResolvePolicy(flat, bundle)
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", flat, err)
		}
		if len(c.Aux) != len(st.aux) {
			return nil, fmt.Errorf("%w: %d aux values for %d names", ErrShapeMismatch, len(c.Aux), len(st.aux))
		}
		st.utility[flat] = c.Utility
		for k, a := range c.Aux {
			st.aux[k][flat] = a
		}
		for _, f := range c.Flows {
			if f.Dim < 0 || f.Dim >= nd {
				return nil, fmt.Errorf("%w: dim %d at state %d", ErrFlowDim, f.Dim, flat)
			}
			st.drift[f.Dim][flat] += f.Drift
			if err := builder.AddFlowAt(g, f.Dim, flat, f.Drift); err != nil {
				return nil, err
			}
		}
	}
	if err := builder.AddIntensity(g, m.Intensity()); err != nil {
		return nil, err
	}
	st.gen, err = builder.Finalize()
	if err != nil {
		return nil, err
	}
	return st, nil
}

// implicitUpdate solves ((rho + 1/delta) I - A) v_new = u + v_old/delta.
func implicitUpdate(gen *generator.Matrix, u, vold []float64, rho, delta float64) ([]float64, error) {
	n := gen.N()
	b := gen.Dense()
	b.Scale(-1, b)
	shift := rho + 1/delta
	for i := 0; i < n; i++ {
		b.Set(i, i, b.At(i, i)+shift)
	}
	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, u[i]+vold[i]/delta)
	}

	var lu mat.LU
	lu.Factorize(b)
	x := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(x, false, rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLinearSolve, err)
	}
	out := make([]float64, n)
	copy(out, x.RawVector().Data)
	return out, nil
}

// TimeDerivative evaluates vt = u + A*V - rho*V for a solved result:
// the value-function time derivative implied by the frozen policy. At a
// true fixed point it vanishes, so it doubles as an a-posteriori
// residual diagnostic.
func TimeDerivative(m Model, res *Result) ([]float64, error) {
	if m == nil || res == nil || res.Generator == nil {
		return nil, ErrNilModel
	}
	n := res.Generator.N()
	if len(res.V) != n || len(res.Utility) != n {
		return nil, fmt.Errorf("%w: V=%d u=%d n=%d", ErrShapeMismatch, len(res.V), len(res.Utility), n)
	}
	vt := make([]float64, n)
	if err := res.Generator.MulVec(vt, res.V); err != nil {
		return nil, err
	}
	rho := m.Discount()
	for i := range vt {
		vt[i] += res.Utility[i] - rho*res.V[i]
	}
	return vt, nil
}

func validate(m Model, v0 []float64, opts Options) (*grid.Grid, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	g := m.Grid()
	if g == nil {
		return nil, ErrNilModel
	}
	if len(v0) != g.Size() {
		return nil, fmt.Errorf("%w: len(v0)=%d, size=%d", ErrShapeMismatch, len(v0), g.Size())
	}
	if opts.Delta <= 0 || opts.Tol <= 0 || opts.MaxIter <= 0 {
		return nil, fmt.Errorf("%w: delta=%g tol=%g maxIter=%d", ErrBadOptions, opts.Delta, opts.Tol, opts.MaxIter)
	}
	return g, nil
}
