package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"
)

// OversampleRange interpolates every row of m by factor through spectral
// zero padding. The Nyquist bin is split over both halves of the padded
// spectrum and the result is rescaled so amplitudes are preserved.
func OversampleRange(m *mat.CDense, factor int) (*mat.CDense, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%w: empty matrix", common.ErrInvalidDimension)
	}
	if !common.IsPowerOfTwo(factor) {
		return nil, fmt.Errorf("%w: oversampling factor %d is not a power of two", common.ErrInvalidArgument, factor)
	}
	if factor == 1 {
		return common.Clone(m), nil
	}

	rows, cols := m.Dims()
	if cols%2 != 0 {
		return nil, fmt.Errorf("%w: oversampling needs an even row length, got %d", common.ErrInvalidDimension, cols)
	}

	half := cols / 2
	length := cols * factor
	scale := complex(float64(factor), 0)
	out := mat.NewCDense(rows, length, nil)

	for i := 0; i < rows; i++ {
		spectrum := fft.FFT(common.Row(m, i))

		padded := dsputils.ZeroPad(spectrum[:half], length)
		nyquist := spectrum[half] / 2
		padded[half] = nyquist
		padded[length-half] = nyquist
		copy(padded[length-half+1:], spectrum[half+1:])

		dst := common.Row(out, i)
		for j, v := range fft.IFFT(padded) {
			dst[j] = v * scale
		}
	}

	return out, nil
}
