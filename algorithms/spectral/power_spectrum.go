package spectral

import (
	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"gonum.org/v1/gonum/mat"
)

// PowerSpectrum provides power spectral density computation
type PowerSpectrum struct {
	// No state needed - stateless calculation
}

// NewPowerSpectrum creates a new power spectrum calculator
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{}
}

// Compute returns |X|^2 for a complex spectrum
func (ps *PowerSpectrum) Compute(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return []float64{}
	}

	power := make([]float64, len(spectrum))
	for i, v := range spectrum {
		power[i] = real(v)*real(v) + imag(v)*imag(v)
	}

	return power
}

// ComputeMatrix processes every row of a spectrum matrix
func (ps *PowerSpectrum) ComputeMatrix(spectrum *mat.CDense) *mat.Dense {
	rows, cols := spectrum.Dims()
	power := mat.NewDense(rows, cols, nil)

	for i := 0; i < rows; i++ {
		power.SetRow(i, ps.Compute(common.Row(spectrum, i)))
	}

	return power
}
