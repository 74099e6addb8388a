package twoasset

import "errors"

// ErrBadParams reports an inconsistent calibration: non-positive
// curvature, discounting, incomes, cost coefficients, or caps, a kink
// coefficient of one or more, or a mismatched switching matrix.
// Matched via errors.Is.
var ErrBadParams = errors.New("twoasset: invalid parameters")
