package windowing

import "math"

// Rect is the unit box: 1 where |x| <= 0.5, 0 elsewhere.
func Rect(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if math.Abs(v) <= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// Scaled divides every element of axis by s, used to map a frequency axis
// onto the unit box.
func Scaled(axis []float64, s float64) []float64 {
	out := make([]float64, len(axis))
	for i, v := range axis {
		out[i] = v / s
	}
	return out
}

// Offset subtracts f0 from every element of axis, recentring a window.
func Offset(axis []float64, f0 float64) []float64 {
	out := make([]float64, len(axis))
	for i, v := range axis {
		out[i] = v - f0
	}
	return out
}
