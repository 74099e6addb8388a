// Package generator assembles the sparse continuous-time Markov
// generator implied by resolved policies and exogenous switching.
package generator

import (
	"fmt"
	"math"
	"sort"

	"github.com/greimel/hjbflow/grid"
)

const (
	// DefaultRowSumTol is the tolerance for the zero-row-sum invariant
	// of a finalized generator.
	DefaultRowSumTol = 1e-10

	// driftTol treats drifts at or below this magnitude as zero: no
	// edge is emitted and boundary admissibility is not violated.
	driftTol = 1e-14
)

// Builder accumulates (from, to, rate) triples and assembles them into
// one sparse Matrix in a single bulk step. The triple arena over the
// explicit flat index is the canonical construction strategy: edges are
// appended freely (duplicates sum), diagonals are derived, and the
// invariant check runs once on the finished matrix.
type Builder struct {
	n         int
	from, to  []int
	rate      []float64
	finalized bool
}

// NewBuilder returns a Builder over an n-state flattened space.
func NewBuilder(n int) (*Builder, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadSize, n)
	}
	return &Builder{n: n}, nil
}

// Add records one directed off-diagonal edge with a non-negative rate.
// Zero rates are dropped. Duplicate (from, to) pairs accumulate.
//
// Complexity: amortized O(1).
func (b *Builder) Add(from, to int, rate float64) error {
	if b.finalized {
		return ErrFinalized
	}
	if from < 0 || from >= b.n || to < 0 || to >= b.n {
		return fmt.Errorf("%w: edge %d->%d with n=%d", ErrIndexRange, from, to, b.n)
	}
	if from == to {
		return fmt.Errorf("%w: state %d", ErrSelfLoop, from)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return fmt.Errorf("%w: edge %d->%d rate %g", ErrBadRate, from, to, rate)
	}
	if rate == 0 {
		return nil
	}
	b.from = append(b.from, from)
	b.to = append(b.to, to)
	b.rate = append(b.rate, rate)
	return nil
}

// AddFlowAt records the upwind edge for a single resolved drift s along
// continuous dimension dim at flat state flat: one step toward the
// neighbor in the drift direction, with rate |s| divided by the local
// grid spacing. A drift pointing out of the grid at a bound is fatal
// (ErrBoundaryDrift): the policy resolver must never produce one.
//
// Complexity: O(1).
func (b *Builder) AddFlowAt(g *grid.Grid, dim, flat int, s float64) error {
	if b.finalized {
		return ErrFinalized
	}
	if err := g.CheckDim(dim); err != nil {
		return err
	}
	if math.Abs(s) <= driftTol {
		return nil
	}
	i := g.Coord(dim, flat)
	stride := g.Stride(dim)
	if s > 0 {
		if i == g.Len(dim)-1 {
			return fmt.Errorf("%w: dimension %q upper bound, drift %g at state %d",
				ErrBoundaryDrift, g.Name(dim), s, flat)
		}
		return b.Add(flat, flat+stride, s/g.StepAt(dim, i))
	}
	if i == 0 {
		return fmt.Errorf("%w: dimension %q lower bound, drift %g at state %d",
			ErrBoundaryDrift, g.Name(dim), s, flat)
	}
	return b.Add(flat, flat-stride, -s/g.StepAt(dim, i-1))
}

// AddFlow records upwind edges for a whole per-point drift array along
// one continuous dimension.
//
// Complexity: O(size).
func (b *Builder) AddFlow(g *grid.Grid, dim int, drift []float64) error {
	if len(drift) != g.Size() {
		return fmt.Errorf("%w: len(drift)=%d, size=%d", ErrShapeMismatch, len(drift), g.Size())
	}
	for flat, s := range drift {
		if err := b.AddFlowAt(g, dim, flat, s); err != nil {
			return err
		}
	}
	return nil
}

// AddDiffusion records the central second-order edges for a per-point
// variance array along one continuous dimension: rate v/(2 h^2) to each
// neighbor, folded onto the single available neighbor at the bounds
// (reflecting barrier). Used by models with a continuous diffusive
// income state.
//
// Complexity: O(size).
func (b *Builder) AddDiffusion(g *grid.Grid, dim int, variance []float64) error {
	if err := g.CheckDim(dim); err != nil {
		return err
	}
	if len(variance) != g.Size() {
		return fmt.Errorf("%w: len(variance)=%d, size=%d", ErrShapeMismatch, len(variance), g.Size())
	}
	stride := g.Stride(dim)
	last := g.Len(dim) - 1
	for flat, v := range variance {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: variance %g at state %d", ErrBadRate, v, flat)
		}
		if v == 0 {
			continue
		}
		i := g.Coord(dim, flat)
		switch {
		case i == 0:
			h := g.StepAt(dim, 0)
			if err := b.Add(flat, flat+stride, v/(h*h)); err != nil {
				return err
			}
		case i == last:
			h := g.StepAt(dim, last-1)
			if err := b.Add(flat, flat-stride, v/(h*h)); err != nil {
				return err
			}
		default:
			hb, hf := g.StepAt(dim, i-1), g.StepAt(dim, i)
			if err := b.Add(flat, flat-stride, v/(hb*(hb+hf))); err != nil {
				return err
			}
			if err := b.Add(flat, flat+stride, v/(hf*(hb+hf))); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddIntensity records the exogenous regime-switching edges from an
// intensity matrix lambda (regimes x regimes, zero row sums,
// non-negative off-diagonals), holding every continuous coordinate
// fixed. A nil lambda is a no-op for single-regime grids.
//
// Complexity: O(size x regimes).
func (b *Builder) AddIntensity(g *grid.Grid, lambda [][]float64) error {
	r := g.Regimes()
	if lambda == nil {
		if r == 1 {
			return nil
		}
		return fmt.Errorf("%w: nil for %d regimes", ErrBadIntensity, r)
	}
	if err := validateIntensity(lambda, r); err != nil {
		return err
	}
	for flat := 0; flat < g.Size(); flat++ {
		from := g.Regime(flat)
		for to := 0; to < r; to++ {
			if to == from || lambda[from][to] == 0 {
				continue
			}
			if err := b.Add(flat, g.WithRegime(flat, to), lambda[from][to]); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateIntensity checks shape, off-diagonal signs, and zero row sums.
func validateIntensity(lambda [][]float64, r int) error {
	if len(lambda) != r {
		return fmt.Errorf("%w: %d rows for %d regimes", ErrBadIntensity, len(lambda), r)
	}
	for i, row := range lambda {
		if len(row) != r {
			return fmt.Errorf("%w: row %d has %d entries", ErrBadIntensity, i, len(row))
		}
		sum := 0.0
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: non-finite entry (%d,%d)", ErrBadIntensity, i, j)
			}
			if i != j && v < 0 {
				return fmt.Errorf("%w: negative off-diagonal (%d,%d)=%g", ErrBadIntensity, i, j, v)
			}
			sum += v
		}
		if math.Abs(sum) > DefaultRowSumTol {
			return fmt.Errorf("%w: row %d sums to %g", ErrBadIntensity, i, sum)
		}
	}
	return nil
}

// Finalize derives the diagonal of every row as minus the sum of its
// off-diagonals, assembles the CSR matrix in one bulk step, and runs
// the mandatory invariant check: maximum absolute row sum within
// DefaultRowSumTol of zero and all off-diagonals non-negative. A
// finalized Builder cannot be reused.
//
// Complexity: O(nnz log nnz).
func (b *Builder) Finalize() (*Matrix, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	b.finalized = true

	// Row off-diagonal sums define the diagonal.
	diag := make([]float64, b.n)
	counts := make([]int, b.n)
	for k, f := range b.from {
		diag[f] -= b.rate[k]
		counts[f]++
	}

	// Bucket triples by row, then sort and merge duplicate columns,
	// inserting the diagonal entry in place.
	rowPtr := make([]int, b.n+1)
	for i := 0; i < b.n; i++ {
		rowPtr[i+1] = rowPtr[i] + counts[i] + 1 // +1 for the diagonal
	}
	col := make([]int, rowPtr[b.n])
	val := make([]float64, rowPtr[b.n])
	next := make([]int, b.n)
	copy(next, rowPtr[:b.n])
	for i := 0; i < b.n; i++ {
		col[next[i]] = i
		val[next[i]] = diag[i]
		next[i]++
	}
	for k, f := range b.from {
		col[next[f]] = b.to[k]
		val[next[f]] = b.rate[k]
		next[f]++
	}
	outPtr := make([]int, b.n+1)
	outCol := col[:0]
	outVal := val[:0]
	for i := 0; i < b.n; i++ {
		lo, hi := rowPtr[i], rowPtr[i+1]
		row := rowSlice{col: col[lo:hi], val: val[lo:hi]}
		sort.Sort(row)
		for k := 0; k < row.Len(); {
			c, v := row.col[k], row.val[k]
			for k++; k < row.Len() && row.col[k] == c; k++ {
				v += row.val[k]
			}
			outCol = append(outCol, c)
			outVal = append(outVal, v)
		}
		outPtr[i+1] = len(outCol)
	}

	m := &Matrix{n: b.n, rowPtr: outPtr, col: outCol, val: outVal}
	if err := m.check(); err != nil {
		return nil, err
	}
	return m, nil
}

// rowSlice sorts one CSR row's columns and values together.
type rowSlice struct {
	col []int
	val []float64
}

func (r rowSlice) Len() int           { return len(r.col) }
func (r rowSlice) Less(i, j int) bool { return r.col[i] < r.col[j] }
func (r rowSlice) Swap(i, j int) {
	r.col[i], r.col[j] = r.col[j], r.col[i]
	r.val[i], r.val[j] = r.val[j], r.val[i]
}
