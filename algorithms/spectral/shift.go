package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"gonum.org/v1/gonum/mat"
)

// CircularShift rotates v in place by n positions. Positive n moves
// elements to the right, negative n to the left, both with wrap-around.
func CircularShift[T any](v []T, n int) {
	size := len(v)
	if size == 0 {
		return
	}
	n %= size
	if n < 0 {
		n += size
	}
	if n == 0 {
		return
	}
	reverse(v)
	reverse(v[:n])
	reverse(v[n:])
}

func reverse[T any](v []T) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

// FFTShiftVector moves the zero frequency to the centre of v.
func FFTShiftVector[T any](v []T) {
	CircularShift(v, len(v)/2)
}

// IFFTShiftVector undoes FFTShiftVector, also for odd lengths.
func IFFTShiftVector[T any](v []T) {
	CircularShift(v, -(len(v) / 2))
}

// FFTShift centres the zero frequency of every row (AxisRange) or
// column (AxisAzimuth) of m.
func FFTShift(m *mat.CDense, axis Axis) error {
	return shiftAxis(m, axis, FFTShiftVector[complex128])
}

// IFFTShift undoes FFTShift.
func IFFTShift(m *mat.CDense, axis Axis) error {
	return shiftAxis(m, axis, IFFTShiftVector[complex128])
}

func shiftAxis(m *mat.CDense, axis Axis, shift func([]complex128)) error {
	if m == nil || m.IsEmpty() {
		return fmt.Errorf("%w: empty matrix", common.ErrInvalidDimension)
	}

	rows, cols := m.Dims()
	switch axis {
	case AxisRange:
		for i := 0; i < rows; i++ {
			shift(common.Row(m, i))
		}
	case AxisAzimuth:
		for j := 0; j < cols; j++ {
			col := common.Column(m, j)
			shift(col)
			common.SetColumn(m, j, col)
		}
	default:
		return fmt.Errorf("%w: unknown %s", common.ErrInvalidDimension, axis)
	}
	return nil
}
