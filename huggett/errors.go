package huggett

import "errors"

// ErrBadParams reports an inconsistent calibration: non-positive
// curvature or discounting, inverted asset bounds, a mismatched
// switching matrix, or an income state with no feasible consumption at
// the borrowing constraint. Matched via errors.Is.
var ErrBadParams = errors.New("huggett: invalid parameters")
