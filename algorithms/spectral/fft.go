package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"
)

// Axis selects the direction a transform runs along.
type Axis int

const (
	// AxisAzimuth transforms each column (down the lines).
	AxisAzimuth Axis = 1
	// AxisRange transforms each row (across the pixels).
	AxisRange Axis = 2
)

func (a Axis) String() string {
	switch a {
	case AxisAzimuth:
		return "azimuth"
	case AxisRange:
		return "range"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// FFT transforms m in place along axis using mjibson/go-dsp.
// go-dsp handles every length, power of two or not.
func FFT(m *mat.CDense, axis Axis) error {
	return transform(m, axis, fft.FFT)
}

// IFFT inverts FFT in place. go-dsp scales the inverse by 1/n so that
// IFFT(FFT(x)) == x.
func IFFT(m *mat.CDense, axis Axis) error {
	return transform(m, axis, fft.IFFT)
}

func transform(m *mat.CDense, axis Axis, f func([]complex128) []complex128) error {
	if m == nil || m.IsEmpty() {
		return fmt.Errorf("%w: empty matrix", common.ErrInvalidDimension)
	}

	rows, cols := m.Dims()
	switch axis {
	case AxisRange:
		for i := 0; i < rows; i++ {
			row := common.Row(m, i)
			copy(row, f(row))
		}
	case AxisAzimuth:
		for j := 0; j < cols; j++ {
			common.SetColumn(m, j, f(common.Column(m, j)))
		}
	default:
		return fmt.Errorf("%w: unknown %s", common.ErrInvalidDimension, axis)
	}
	return nil
}

// FFT2 returns the 2-D transform of m; m is left untouched.
func FFT2(m *mat.CDense) (*mat.CDense, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%w: empty matrix", common.ErrInvalidDimension)
	}
	return common.FromSlices(fft.FFT2(common.ToSlices(m)))
}

// IFFT2 returns the inverse 2-D transform of m; m is left untouched.
func IFFT2(m *mat.CDense) (*mat.CDense, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%w: empty matrix", common.ErrInvalidDimension)
	}
	return common.FromSlices(fft.IFFT2(common.ToSlices(m)))
}

// FFTReal2 transforms a real matrix, used for amplitude smoothing.
func FFTReal2(m *mat.Dense) (*mat.CDense, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%w: empty matrix", common.ErrInvalidDimension)
	}
	rows, _ := m.Dims()
	in := make([][]float64, rows)
	for i := range in {
		in[i] = mat.Row(nil, i, m)
	}
	return common.FromSlices(fft.FFT2Real(in))
}
