// Package grid discretizes the continuous state space of a
// continuous-time control problem. A Grid is the Cartesian product of
// 1-3 continuous dimensions (assets, possibly a continuous income
// state) and a fixed set of discrete exogenous Markov regimes, flattened
// into a single linear index.
package grid

import (
	"fmt"
	"math"
)

// New constructs a Grid from the given continuous dimensions.
// Each dimension must have at least two finite, strictly increasing
// points. The input slices are deep-copied to guarantee immutability.
//
// Complexity: O(total points) time and memory.
func New(dims []Dimension, opts ...Option) (*Grid, error) {
	if len(dims) == 0 {
		return nil, ErrNoDimensions
	}
	cfg := config{regimes: 1}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.regimes < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadRegimes, cfg.regimes)
	}

	copied := make([]Dimension, len(dims))
	for d, dim := range dims {
		if len(dim.Points) < 2 {
			return nil, fmt.Errorf("%w: dimension %q has %d point(s)", ErrEmptyDimension, dim.Name, len(dim.Points))
		}
		pts := make([]float64, len(dim.Points))
		copy(pts, dim.Points)
		for i, p := range pts {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("%w: dimension %q point %d", ErrNonFinitePoint, dim.Name, i)
			}
			if i > 0 && p <= pts[i-1] {
				return nil, fmt.Errorf("%w: dimension %q at point %d", ErrNotAscending, dim.Name, i)
			}
		}
		copied[d] = Dimension{Name: dim.Name, Points: pts}
	}

	// Strides: regime varies fastest, first dimension slowest.
	strides := make([]int, len(copied))
	stride := cfg.regimes
	for d := len(copied) - 1; d >= 0; d-- {
		strides[d] = stride
		stride *= len(copied[d].Points)
	}

	return &Grid{
		dims:    copied,
		regimes: cfg.regimes,
		strides: strides,
		size:    stride,
	}, nil
}

// Uniform builds an evenly spaced dimension with n points on [min, max].
// It is a convenience for the common calibration case; New accepts any
// strictly increasing sequence.
func Uniform(name string, min, max float64, n int) Dimension {
	pts := make([]float64, n)
	if n == 1 {
		pts[0] = min
	} else {
		step := (max - min) / float64(n-1)
		for i := range pts {
			pts[i] = min + float64(i)*step
		}
		pts[n-1] = max // avoid accumulation drift at the top point
	}
	return Dimension{Name: name, Points: pts}
}

// Size returns the number of flattened states: the product of all
// dimension sizes times the regime count.
func (g *Grid) Size() int { return g.size }

// NumDims returns the number of continuous dimensions.
func (g *Grid) NumDims() int { return len(g.dims) }

// Regimes returns the number of discrete exogenous states.
func (g *Grid) Regimes() int { return g.regimes }

// Name returns the name of continuous dimension d.
func (g *Grid) Name(d int) string { return g.dims[d].Name }

// Len returns the number of points of continuous dimension d.
func (g *Grid) Len(d int) int { return len(g.dims[d].Points) }

// At returns point i of continuous dimension d.
func (g *Grid) At(d, i int) float64 { return g.dims[d].Points[i] }

// Stride returns the flat-index step corresponding to one grid step
// along continuous dimension d.
func (g *Grid) Stride(d int) int { return g.strides[d] }

// CheckDim validates a dimension index before it reaches the panicking
// accessors. Returns ErrDimRange for anything outside [0, NumDims).
func (g *Grid) CheckDim(d int) error {
	if d < 0 || d >= len(g.dims) {
		return fmt.Errorf("%w: dimension %d of %d", ErrDimRange, d, len(g.dims))
	}
	return nil
}

// Step returns the first grid interval of dimension d. For the uniform
// grids used throughout, this is the spacing of the whole dimension.
func (g *Grid) Step(d int) float64 {
	return g.dims[d].Points[1] - g.dims[d].Points[0]
}

// StepAt returns the interval between points i and i+1 of dimension d,
// supporting non-uniform grids in the differencing and assembly code.
func (g *Grid) StepAt(d, i int) float64 {
	return g.dims[d].Points[i+1] - g.dims[d].Points[i]
}

// Measure returns the cell measure: the product of the (first) grid
// intervals of every continuous dimension. Stationary densities are
// normalized so that sum(density) * Measure() == 1.
func (g *Grid) Measure() float64 {
	m := 1.0
	for d := range g.dims {
		m *= g.Step(d)
	}
	return m
}

// Index maps per-dimension coordinates and a regime to the flat index.
// Returns ErrIndexRange when any coordinate is out of bounds.
func (g *Grid) Index(coords []int, regime int) (int, error) {
	if len(coords) != len(g.dims) {
		return 0, fmt.Errorf("%w: got %d coordinates for %d dimensions", ErrIndexRange, len(coords), len(g.dims))
	}
	if regime < 0 || regime >= g.regimes {
		return 0, fmt.Errorf("%w: regime %d", ErrIndexRange, regime)
	}
	flat := 0
	for d, i := range coords {
		if i < 0 || i >= len(g.dims[d].Points) {
			return 0, fmt.Errorf("%w: dimension %q index %d", ErrIndexRange, g.dims[d].Name, i)
		}
		flat += i * g.strides[d]
	}
	return flat + regime, nil
}

// Coords recovers per-dimension coordinates and the regime from a flat
// index, writing the coordinates into buf when it has the right length
// (avoiding an allocation in hot loops). A nil or mis-sized buf is
// replaced by a fresh slice.
func (g *Grid) Coords(flat int, buf []int) (coords []int, regime int) {
	if len(buf) != len(g.dims) {
		buf = make([]int, len(g.dims))
	}
	regime = flat % g.regimes
	rest := flat / g.regimes
	for d := len(g.dims) - 1; d >= 0; d-- {
		n := len(g.dims[d].Points)
		buf[d] = rest % n
		rest /= n
	}
	return buf, regime
}

// Point returns the coordinate value of continuous dimension d at flat
// index flat.
func (g *Grid) Point(d, flat int) float64 {
	i := (flat / g.strides[d]) % len(g.dims[d].Points)
	return g.dims[d].Points[i]
}

// Coord returns the per-dimension index of continuous dimension d at
// flat index flat.
func (g *Grid) Coord(d, flat int) int {
	return (flat / g.strides[d]) % len(g.dims[d].Points)
}

// Regime returns the regime index at flat index flat.
func (g *Grid) Regime(flat int) int { return flat % g.regimes }

// WithRegime returns the flat index of the same continuous point under
// a different regime.
func (g *Grid) WithRegime(flat, regime int) int {
	return flat - flat%g.regimes + regime
}
