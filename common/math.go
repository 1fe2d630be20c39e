package common

import "math"

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// EaseInOutCubic maps linear progress t in [0,1] onto a curve that
// accelerates out of 0 and decelerates into 1. EaseInOutCubic(1) == 1 exactly.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}
