// Package grid defines core types, options, and sentinel errors for the
// state-grid subpackage of github.com/greimel/hjbflow.
package grid

// Side selects one boundary of a continuous dimension.
type Side int

const (
	// Lower is the boundary at the smallest grid point of a dimension.
	Lower Side = iota
	// Upper is the boundary at the largest grid point of a dimension.
	Upper
)

// String returns "lower" or "upper" for diagnostics.
func (s Side) String() string {
	if s == Upper {
		return "upper"
	}
	return "lower"
}

// Dimension describes one continuous state dimension: a name and a
// strictly increasing, finite sequence of grid points.
type Dimension struct {
	// Name identifies the dimension ("asset", "liquid", ...).
	Name string
	// Points holds the ascending grid points.
	Points []float64
}

// Grid is the Cartesian product of one or more continuous dimensions
// and a fixed number of discrete exogenous regimes. It is immutable
// once built.
//
// Flat layout: continuous dimensions vary slowest, in declaration
// order; the regime index varies fastest. With dimensions of sizes
// n0,n1,... and R regimes,
//
//	flat = ((i0*n1 + i1)*... )*R + r
//
// so regime switches are steps of 1 and steps along the last
// continuous dimension are steps of R in the flat index.
type Grid struct {
	dims    []Dimension
	regimes int
	strides []int // flat stride per continuous dimension
	size    int
}

// Option configures grid construction.
type Option func(*config)

type config struct {
	regimes int
}

// WithRegimes sets the number of discrete exogenous Markov states
// (default 1, meaning no exogenous dimension).
func WithRegimes(r int) Option {
	return func(c *config) { c.regimes = r }
}
