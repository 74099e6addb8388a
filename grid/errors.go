package grid

import "errors"

// Sentinel errors for grid construction and differencing. All are
// configuration errors: they are detected at setup, before any
// iteration runs, and are matched with errors.Is.
var (
	// ErrNoDimensions indicates a grid was requested with no continuous dimensions.
	ErrNoDimensions = errors.New("grid: at least one continuous dimension is required")
	// ErrEmptyDimension indicates a dimension with fewer than two points.
	ErrEmptyDimension = errors.New("grid: every dimension needs at least two points")
	// ErrNotAscending indicates grid points that are not strictly increasing.
	ErrNotAscending = errors.New("grid: points must be strictly increasing")
	// ErrNonFinitePoint indicates a NaN or infinite grid point.
	ErrNonFinitePoint = errors.New("grid: points must be finite")
	// ErrBadRegimes indicates a non-positive regime count.
	ErrBadRegimes = errors.New("grid: regime count must be >= 1")
	// ErrShapeMismatch indicates a value array whose length differs from Size().
	ErrShapeMismatch = errors.New("grid: value array length does not match grid size")
	// ErrNilBoundary indicates a missing boundary-condition callback.
	ErrNilBoundary = errors.New("grid: boundary callback must not be nil")
	// ErrDimRange indicates a dimension index outside [0, NumDims).
	ErrDimRange = errors.New("grid: dimension index out of range")
	// ErrIndexRange indicates a flat or per-dimension index out of range.
	ErrIndexRange = errors.New("grid: index out of range")
)
