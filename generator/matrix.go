package generator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a finalized generator in compressed sparse row form:
// square over the flattened state space, zero row sums, non-negative
// off-diagonals, non-positive diagonal. It is immutable once built and
// safe to share between the HJB loop and the stationary-distribution
// solver.
type Matrix struct {
	n      int
	rowPtr []int
	col    []int
	val    []float64
}

// N returns the state-space size.
func (m *Matrix) N() int { return m.n }

// NNZ returns the number of stored entries (including diagonals).
func (m *Matrix) NNZ() int { return len(m.val) }

// At returns entry (i, j). O(row length) via linear scan of the sorted row.
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return math.NaN()
	}
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		if m.col[k] == j {
			return m.val[k]
		}
		if m.col[k] > j {
			break
		}
	}
	return 0
}

// MulVec computes dst = A*x. dst and x must have length N and must not
// alias.
//
// Complexity: O(nnz).
func (m *Matrix) MulVec(dst, x []float64) error {
	if len(dst) != m.n || len(x) != m.n {
		return fmt.Errorf("%w: dst=%d x=%d n=%d", ErrShapeMismatch, len(dst), len(x), m.n)
	}
	for i := 0; i < m.n; i++ {
		s := 0.0
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			s += m.val[k] * x[m.col[k]]
		}
		dst[i] = s
	}
	return nil
}

// MulTransVec computes dst = A'*x, the Kolmogorov Forward operator
// applied to a distribution. dst and x must have length N and must not
// alias.
//
// Complexity: O(nnz).
func (m *Matrix) MulTransVec(dst, x []float64) error {
	if len(dst) != m.n || len(x) != m.n {
		return fmt.Errorf("%w: dst=%d x=%d n=%d", ErrShapeMismatch, len(dst), len(x), m.n)
	}
	for i := range dst {
		dst[i] = 0
	}
	for i := 0; i < m.n; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			dst[m.col[k]] += m.val[k] * xi
		}
	}
	return nil
}

// MaxAbsRowSum returns max_i |sum_j A[i,j]|, the quantity bounded by
// the zero-row-sum invariant.
func (m *Matrix) MaxAbsRowSum() float64 {
	worst := 0.0
	for i := 0; i < m.n; i++ {
		s := 0.0
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			s += m.val[k]
		}
		if a := math.Abs(s); a > worst {
			worst = a
		}
	}
	return worst
}

// MaxDiag returns max_i |A[i,i]|, the fastest total outflow rate. The
// explicit-Euler stationary iteration derives its stable step from it.
func (m *Matrix) MaxDiag() float64 {
	worst := 0.0
	for i := 0; i < m.n; i++ {
		if a := math.Abs(m.At(i, i)); a > worst {
			worst = a
		}
	}
	return worst
}

// Dense materializes A as a gonum dense matrix for direct (LU / eigen)
// solves. The copy is fresh on every call.
//
// Complexity: O(n^2) memory, O(n^2 + nnz) time.
func (m *Matrix) Dense() *mat.Dense {
	d := mat.NewDense(m.n, m.n, nil)
	for i := 0; i < m.n; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			d.Set(i, m.col[k], m.val[k])
		}
	}
	return d
}

// TransposeDense materializes A' as a gonum dense matrix.
func (m *Matrix) TransposeDense() *mat.Dense {
	d := mat.NewDense(m.n, m.n, nil)
	for i := 0; i < m.n; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			d.Set(m.col[k], i, m.val[k])
		}
	}
	return d
}

// check enforces the mandatory invariants on the finalized matrix.
func (m *Matrix) check() error {
	for i := 0; i < m.n; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			v := m.val[k]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: non-finite entry (%d,%d)", ErrBadRate, i, m.col[k])
			}
			if m.col[k] != i && v < 0 {
				return fmt.Errorf("%w: negative off-diagonal (%d,%d)=%g", ErrBadRate, i, m.col[k], v)
			}
		}
	}
	if worst := m.MaxAbsRowSum(); worst > DefaultRowSumTol {
		return fmt.Errorf("%w: max |row sum| = %g", ErrRowSum, worst)
	}
	return nil
}
