package grid

import (
	"fmt"
	"sort"
)

// BoundaryFunc supplies the one-sided derivative to use where the
// neighbor in a one-sided difference is missing: the forward derivative
// at a dimension's upper bound and the backward derivative at its lower
// bound. Concrete models encode the state constraint here analytically
// (e.g. the marginal utility implied by zero drift at the binding
// constraint).
type BoundaryFunc func(dim int, side Side, flat int) float64

// Bundle holds, for every grid point and continuous dimension, the
// forward and backward one-sided first derivatives, a second-derivative
// estimate from the local spacing, and (for two or more continuous
// dimensions) the cross second derivatives for each dimension pair.
// A Bundle is ephemeral: it is recomputed from the current value
// function on every solver iteration and never mutated afterwards.
type Bundle struct {
	g        *Grid
	forward  [][]float64 // [dim][flat]
	backward [][]float64 // [dim][flat]
	second   [][]float64 // [dim][flat]
	cross    map[[2]int][]float64
}

// Forward returns the forward difference along dimension d at flat.
func (b *Bundle) Forward(d, flat int) float64 { return b.forward[d][flat] }

// Backward returns the backward difference along dimension d at flat.
func (b *Bundle) Backward(d, flat int) float64 { return b.backward[d][flat] }

// Second returns the second-derivative estimate along dimension d at flat.
func (b *Bundle) Second(d, flat int) float64 { return b.second[d][flat] }

// Cross returns the cross second derivative for the dimension pair
// (d1, d2) at flat. Order of d1 and d2 is irrelevant.
func (b *Bundle) Cross(d1, d2, flat int) float64 {
	if d1 > d2 {
		d1, d2 = d2, d1
	}
	return b.cross[[2]int{d1, d2}][flat]
}

// Differentiate computes the full derivative bundle of v on g.
//
// For interior points the one-sided differences use the local grid
// spacing; at a dimension's bounds the missing one-sided difference is
// taken from bc. The second derivative combines both one-sided
// differences, so it is defined at boundary points too. Cross
// derivatives apply a central difference in one dimension to the
// averaged one-sided derivatives of the other, degrading to one-sided
// at that dimension's bounds.
//
// Pure function: v is only read and the result owns all its storage.
// An incorrect bc is a caller error that surfaces downstream, in
// generator assembly, as an inadmissible boundary drift.
//
// Complexity: O(size x dims) time and memory.
func Differentiate(v []float64, g *Grid, bc BoundaryFunc) (*Bundle, error) {
	if len(v) != g.Size() {
		return nil, fmt.Errorf("%w: len(v)=%d, size=%d", ErrShapeMismatch, len(v), g.Size())
	}
	if bc == nil {
		return nil, ErrNilBoundary
	}

	nd := g.NumDims()
	b := &Bundle{
		g:        g,
		forward:  make([][]float64, nd),
		backward: make([][]float64, nd),
		second:   make([][]float64, nd),
	}
	for d := 0; d < nd; d++ {
		b.forward[d] = make([]float64, g.Size())
		b.backward[d] = make([]float64, g.Size())
		b.second[d] = make([]float64, g.Size())
		firstDifferences(v, g, bc, d, b.forward[d], b.backward[d])
		secondDifferences(g, d, b.forward[d], b.backward[d], b.second[d])
	}
	if nd > 1 {
		b.cross = make(map[[2]int][]float64, nd*(nd-1)/2)
		for d1 := 0; d1 < nd; d1++ {
			for d2 := d1 + 1; d2 < nd; d2++ {
				b.cross[[2]int{d1, d2}] = crossDifferences(g, d1, d2, b.forward[d2], b.backward[d2])
			}
		}
	}
	return b, nil
}

// firstDifferences fills fwd and bwd along dimension d.
func firstDifferences(v []float64, g *Grid, bc BoundaryFunc, d int, fwd, bwd []float64) {
	stride := g.Stride(d)
	last := g.Len(d) - 1
	for flat := 0; flat < g.Size(); flat++ {
		i := g.Coord(d, flat)
		if i < last {
			fwd[flat] = (v[flat+stride] - v[flat]) / g.StepAt(d, i)
		} else {
			fwd[flat] = bc(d, Upper, flat)
		}
		if i > 0 {
			bwd[flat] = (v[flat] - v[flat-stride]) / g.StepAt(d, i-1)
		} else {
			bwd[flat] = bc(d, Lower, flat)
		}
	}
}

// secondDifferences estimates the second derivative from the spread of
// the two one-sided first differences over the local spacing. On a
// uniform grid the interior stencil reduces to the familiar
// (v[i+1] - 2v[i] + v[i-1]) / h^2.
func secondDifferences(g *Grid, d int, fwd, bwd, out []float64) {
	last := g.Len(d) - 1
	for flat := range out {
		i := g.Coord(d, flat)
		var h float64
		switch {
		case i == 0:
			h = g.StepAt(d, 0)
		case i == last:
			h = g.StepAt(d, last-1)
		default:
			h = 0.5 * (g.StepAt(d, i-1) + g.StepAt(d, i))
		}
		out[flat] = (fwd[flat] - bwd[flat]) / h
	}
}

// crossDifferences differentiates the centered d2-derivative along d1:
// central in d1 at interior points, one-sided at the d1 bounds.
func crossDifferences(g *Grid, d1, d2 int, fwd2, bwd2 []float64) []float64 {
	out := make([]float64, g.Size())
	stride := g.Stride(d1)
	last := g.Len(d1) - 1
	central := func(flat int) float64 { return 0.5 * (fwd2[flat] + bwd2[flat]) }
	for flat := range out {
		i := g.Coord(d1, flat)
		switch {
		case i == 0:
			out[flat] = (central(flat+stride) - central(flat)) / g.StepAt(d1, 0)
		case i == last:
			out[flat] = (central(flat) - central(flat-stride)) / g.StepAt(d1, last-1)
		default:
			span := g.StepAt(d1, i-1) + g.StepAt(d1, i)
			out[flat] = (central(flat+stride) - central(flat-stride)) / span
		}
	}
	return out
}

// Pairs lists the dimension pairs for which cross derivatives exist,
// in deterministic (lexicographic) order.
func (b *Bundle) Pairs() [][2]int {
	pairs := make([][2]int, 0, len(b.cross))
	for p := range b.cross {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}
