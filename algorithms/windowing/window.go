package windowing

import (
	"fmt"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
)

// FrequencyWindow holds spectral weights ready to be applied to a row or
// column spectrum.
type FrequencyWindow struct {
	kind         string
	coefficients []float64
}

// NewFrequencyWindow wraps weights computed elsewhere. kind is reported by
// GetType and only used for logging.
func NewFrequencyWindow(kind string, coefficients []float64) *FrequencyWindow {
	c := make([]float64, len(coefficients))
	copy(c, coefficients)
	return &FrequencyWindow{kind: kind, coefficients: c}
}

// NewHammingWindow builds a Hamming weighting over freqAxis. alpha = 1 is
// reported as rectangular.
func NewHammingWindow(freqAxis []float64, bandwidth, samplingRate, alpha float64) (*FrequencyWindow, error) {
	weights, err := Hamming(freqAxis, bandwidth, samplingRate, alpha)
	if err != nil {
		return nil, err
	}
	kind := "hamming"
	if alpha == 1 {
		kind = "rectangular"
	}
	return &FrequencyWindow{kind: kind, coefficients: weights}, nil
}

// Apply applies the window to a spectrum (creates new array)
func (w *FrequencyWindow) Apply(spectrum []complex128) []complex128 {
	if len(spectrum) != len(w.coefficients) {
		return nil
	}

	out := make([]complex128, len(spectrum))
	for i, v := range spectrum {
		out[i] = v * complex(w.coefficients[i], 0)
	}
	return out
}

// ApplyInPlace applies the window to a spectrum in-place
func (w *FrequencyWindow) ApplyInPlace(spectrum []complex128) error {
	if len(spectrum) != len(w.coefficients) {
		return fmt.Errorf("%w: spectrum length (%d) doesn't match window size (%d)", common.ErrDimensionMismatch, len(spectrum), len(w.coefficients))
	}

	for i := range spectrum {
		spectrum[i] *= complex(w.coefficients[i], 0)
	}
	return nil
}

// Reversed returns the left-right mirror of the window
func (w *FrequencyWindow) Reversed() *FrequencyWindow {
	n := len(w.coefficients)
	c := make([]float64, n)
	for i, v := range w.coefficients {
		c[n-1-i] = v
	}
	return &FrequencyWindow{kind: w.kind, coefficients: c}
}

// GetCoefficients returns a copy of the window coefficients
func (w *FrequencyWindow) GetCoefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// GetSize returns the window size
func (w *FrequencyWindow) GetSize() int {
	return len(w.coefficients)
}

// GetType returns the window type
func (w *FrequencyWindow) GetType() string {
	return w.kind
}
