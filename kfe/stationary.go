// Package kfe computes stationary distributions of frozen generator
// matrices: the stationary solution of the Kolmogorov Forward equation.
package kfe

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/greimel/hjbflow/generator"
	"github.com/greimel/hjbflow/grid"
)

// negMassTol is the relative negative mass below which clipping is
// silent; anything larger is recorded as a warning.
const negMassTol = 1e-8

// Stationary computes the stationary density of a frozen,
// invariant-satisfying generator A over g, using the strategy selected
// in opts. The returned density is non-negative with
// sum(Density) * g.Measure() == 1.
//
// A is singular by construction (rank-deficient by one on an
// irreducible chain), so each strategy resolves the missing equation
// in its own way; on a well-posed generator all four agree pairwise
// within a small tolerance.
func Stationary(a *generator.Matrix, g *grid.Grid, opts Options) (*Distribution, error) {
	if a == nil || g == nil {
		return nil, ErrNilGenerator
	}
	if a.N() != g.Size() {
		return nil, fmt.Errorf("%w: generator %d, grid %d", ErrShapeMismatch, a.N(), g.Size())
	}
	if err := validateOptions(opts, a.N()); err != nil {
		return nil, err
	}

	switch opts.Strategy {
	case Direct:
		return direct(a, g, opts)
	case Death:
		return death(a, g, opts)
	case Eigen:
		return eigen(a, g, opts)
	case Iterative:
		return iterative(a, g, opts)
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadStrategy, int(opts.Strategy))
	}
}

func validateOptions(opts Options, n int) error {
	if opts.Pin < 0 || opts.Pin >= n {
		return fmt.Errorf("%w: pin %d with n=%d", ErrBadOptions, opts.Pin, n)
	}
	if opts.Strategy == Direct && opts.Regularization <= 0 {
		return fmt.Errorf("%w: regularization must be > 0", ErrBadOptions)
	}
	if opts.Strategy == Death && opts.DeathRate <= 0 {
		return fmt.Errorf("%w: death rate must be > 0", ErrBadOptions)
	}
	if opts.Strategy == Eigen && opts.ZeroTol <= 0 {
		return fmt.Errorf("%w: zero tolerance must be > 0", ErrBadOptions)
	}
	if opts.Strategy == Iterative {
		if opts.Tol <= 0 || opts.MaxIter <= 0 {
			return fmt.Errorf("%w: iterative needs tol > 0 and max iterations > 0", ErrBadOptions)
		}
		if opts.TimeStep < 0 {
			return fmt.Errorf("%w: time step must be >= 0", ErrBadOptions)
		}
	}
	return nil
}

// direct solves the pinned system: one equation of A'x = 0 is replaced
// by the normalization pin x[pin] = 1. If the pinned system is
// numerically singular, it retries exactly once with a small diagonal
// regularization A + eps*I and re-raises if that also fails.
func direct(a *generator.Matrix, g *grid.Grid, opts Options) (*Distribution, error) {
	x, err := solvePinned(a, opts.Pin, 0)
	if err != nil {
		x, err = solvePinned(a, opts.Pin, opts.Regularization)
		if err != nil {
			return nil, fmt.Errorf("%w: retry with eps=%g also failed: %v", ErrSingular, opts.Regularization, err)
		}
	}
	return normalize(x, g, Direct)
}

// solvePinned builds A' + eps*I, replaces row pin with the pin
// equation, and solves by LU factorization.
func solvePinned(a *generator.Matrix, pin int, eps float64) ([]float64, error) {
	n := a.N()
	at := a.TransposeDense()
	if eps > 0 {
		for i := 0; i < n; i++ {
			at.Set(i, i, at.At(i, i)+eps)
		}
	}
	for j := 0; j < n; j++ {
		at.Set(pin, j, 0)
	}
	at.Set(pin, pin, 1)

	rhs := mat.NewVecDense(n, nil)
	rhs.SetVec(pin, 1)

	var lu mat.LU
	lu.Factorize(at)
	x := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(x, false, rhs); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	copy(out, x.RawVector().Data)
	return out, nil
}

// death solves (delta*I - A')g = delta*g0 with a uniform initial
// distribution g0. The system is strictly diagonally dominant for any
// delta > 0, hence always nonsingular.
func death(a *generator.Matrix, g *grid.Grid, opts Options) (*Distribution, error) {
	n := a.N()
	delta := opts.DeathRate

	b := a.TransposeDense()
	b.Scale(-1, b)
	for i := 0; i < n; i++ {
		b.Set(i, i, b.At(i, i)+delta)
	}
	g0 := delta / (float64(n) * g.Measure())
	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, g0)
	}

	var lu mat.LU
	lu.Factorize(b)
	x := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(x, false, rhs); err != nil {
		return nil, fmt.Errorf("kfe: death-rate solve failed: %w", err)
	}
	out := make([]float64, n)
	copy(out, x.RawVector().Data)
	return normalize(out, g, Death)
}

// eigen extracts the right eigenvector of A' whose eigenvalue is
// nearest zero. A principal eigenvalue away from zero signals an
// ill-conditioned or reducible chain and is recorded as a warning, not
// an error.
func eigen(a *generator.Matrix, g *grid.Grid, opts Options) (*Distribution, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(a.TransposeDense(), mat.EigenRight); !ok {
		return nil, ErrEigenFailed
	}
	vals := eig.Values(nil)
	best := 0
	for k, v := range vals {
		if cmplx.Abs(v) < cmplx.Abs(vals[best]) {
			best = k
		}
	}

	var vecs mat.CDense
	eig.VectorsTo(&vecs)
	n := a.N()
	x := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		x[i] = real(vecs.At(i, best))
		sum += x[i]
	}
	if sum < 0 {
		for i := range x {
			x[i] = -x[i]
		}
	}

	d, err := normalize(x, g, Eigen)
	if err != nil {
		return nil, err
	}
	d.Eigenvalue = cmplx.Abs(vals[best])
	if d.Eigenvalue > opts.ZeroTol {
		d.Warnings = append(d.Warnings, fmt.Sprintf(
			"principal eigenvalue magnitude %g exceeds %g: chain may be ill-conditioned or reducible",
			d.Eigenvalue, opts.ZeroTol))
	}
	return d, nil
}

// iterative integrates dg/dt = A'g by explicit Euler from a uniform
// start, checking finiteness at every step and stopping when successive
// iterates agree in sup norm.
func iterative(a *generator.Matrix, g *grid.Grid, opts Options) (*Distribution, error) {
	n := a.N()
	dt := opts.TimeStep
	if dt == 0 {
		if worst := a.MaxDiag(); worst > 0 {
			dt = 0.9 / worst
		} else {
			dt = 1.0
		}
	}

	cur := make([]float64, n)
	for i := range cur {
		cur[i] = 1.0 / (float64(n) * g.Measure())
	}
	flow := make([]float64, n)
	for it := 1; it <= opts.MaxIter; it++ {
		if err := a.MulTransVec(flow, cur); err != nil {
			return nil, err
		}
		worst := 0.0
		for i := range cur {
			step := dt * flow[i]
			cur[i] += step
			if math.IsNaN(cur[i]) || math.IsInf(cur[i], 0) {
				return nil, fmt.Errorf("%w: state %d at step %d", ErrNonFinite, i, it)
			}
			if s := math.Abs(step); s > worst {
				worst = s
			}
		}
		if worst < opts.Tol {
			d, err := normalize(cur, g, Iterative)
			if err != nil {
				return nil, err
			}
			d.Iterations = it
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %d explicit Euler steps with dt=%g", ErrNoConvergence, opts.MaxIter, dt)
}

// normalize clips negative rounding noise and scales a candidate
// solution into a density with sum * measure == 1. Negative mass beyond
// rounding noise is clipped but recorded as a warning.
func normalize(x []float64, g *grid.Grid, s Strategy) (*Distribution, error) {
	peak := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	var warnings []string
	worstNeg := 0.0
	for i, v := range x {
		if v < 0 {
			if -v > worstNeg {
				worstNeg = -v
			}
			x[i] = 0
		}
	}
	if peak > 0 && worstNeg > negMassTol*peak {
		warnings = append(warnings, fmt.Sprintf("clipped negative mass %g (peak %g)", worstNeg, peak))
	}

	total := 0.0
	for _, v := range x {
		total += v
	}
	measure := g.Measure()
	scale := total * measure
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: total mass %g", ErrZeroMass, scale)
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v / scale
	}
	return &Distribution{Density: out, Strategy: s, Warnings: warnings, measure: measure}, nil
}
