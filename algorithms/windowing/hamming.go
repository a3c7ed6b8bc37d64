package windowing

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
)

// FrequencyAxis returns n frequencies spanning [-fs/2, fs/2) with step fs/n.
func FrequencyAxis(n int, samplingRate float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: frequency axis length %d", common.ErrInvalidArgument, n)
	}
	if samplingRate <= 0 {
		return nil, fmt.Errorf("%w: sampling rate %g", common.ErrInvalidArgument, samplingRate)
	}

	step := samplingRate / float64(n)
	start := -samplingRate / 2
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = start + float64(i)*step
	}
	return axis, nil
}

// Hamming weights a frequency axis with a generalized Hamming window of the
// given bandwidth:
//
//	w(f) = alpha + (1-alpha)*cos(pi*f/bandwidth)   for |f/bandwidth| <= 0.5
//	w(f) = 0                                       otherwise
//
// alpha = 1 gives exactly Rect(f/bandwidth).
func Hamming(freqAxis []float64, bandwidth, samplingRate, alpha float64) ([]float64, error) {
	if bandwidth <= 0 {
		return nil, fmt.Errorf("%w: bandwidth %g", common.ErrInvalidArgument, bandwidth)
	}
	if bandwidth-samplingRate > 1e-9 {
		return nil, fmt.Errorf("%w: bandwidth %g exceeds sampling rate %g", common.ErrInvalidArgument, bandwidth, samplingRate)
	}
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: hamming alpha %g outside [0,1]", common.ErrInvalidArgument, alpha)
	}

	weights := make([]float64, len(freqAxis))
	for i, f := range freqAxis {
		x := f / bandwidth
		if math.Abs(x) <= 0.5 {
			weights[i] = alpha + (1-alpha)*math.Cos(math.Pi*x)
		}
	}
	return weights, nil
}

// Invert returns 1/w element-wise. Zero weights stay zero, so the product
// of a window and its inverse is 1 on the support and 0 elsewhere.
func Invert(weights []float64) []float64 {
	inverse := make([]float64, len(weights))
	for i, w := range weights {
		if w != 0 {
			inverse[i] = 1 / w
		}
	}
	return inverse
}

// Multiply returns a .* b. The slices must have the same length.
func Multiply(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: window lengths %d and %d", common.ErrInvalidDimension, len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out, nil
}
