package common

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ComplexMatrix helpers. Matrices are *mat.CDense with rows as azimuth
// lines and columns as range pixels. Functions named *InPlace mutate their
// first argument, everything else returns freshly allocated storage.

// NewComplexMatrix allocates a zeroed rows x cols matrix.
func NewComplexMatrix(rows, cols int) (*mat.CDense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d matrix", ErrInvalidDimension, rows, cols)
	}
	return mat.NewCDense(rows, cols, nil), nil
}

// Row returns a view of row i backed by the matrix storage.
func Row(m *mat.CDense, i int) []complex128 {
	raw := m.RawCMatrix()
	return raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
}

// Column copies column j into a new slice.
func Column(m *mat.CDense, j int) []complex128 {
	raw := m.RawCMatrix()
	col := make([]complex128, raw.Rows)
	for i := range col {
		col[i] = raw.Data[i*raw.Stride+j]
	}
	return col
}

// SetColumn writes v into column j.
func SetColumn(m *mat.CDense, j int, v []complex128) {
	raw := m.RawCMatrix()
	for i := 0; i < raw.Rows; i++ {
		raw.Data[i*raw.Stride+j] = v[i]
	}
}

// ToSlices copies the matrix into row slices, the layout go-dsp expects.
func ToSlices(m *mat.CDense) [][]complex128 {
	rows, _ := m.Dims()
	out := make([][]complex128, rows)
	for i := range out {
		row := Row(m, i)
		out[i] = make([]complex128, len(row))
		copy(out[i], row)
	}
	return out
}

// FromSlices builds a matrix from equal-length row slices.
func FromSlices(rows [][]complex128) (*mat.CDense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty rows", ErrInvalidDimension)
	}
	cols := len(rows[0])
	data := make([]complex128, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidDimension, i, len(r), cols)
		}
		data = append(data, r...)
	}
	return mat.NewCDense(len(rows), cols, data), nil
}

// Clone returns a deep copy of m.
func Clone(m *mat.CDense) *mat.CDense {
	rows, cols := m.Dims()
	data := make([]complex128, 0, rows*cols)
	for i := 0; i < rows; i++ {
		data = append(data, Row(m, i)...)
	}
	return mat.NewCDense(rows, cols, data)
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b mat.CMatrix) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	return ar == br && ac == bc
}

// MulConj returns a .* conj(b), the complex interferogram of two images.
func MulConj(a, b *mat.CDense) (*mat.CDense, error) {
	if !SameShape(a, b) {
		return nil, fmt.Errorf("%w: interferogram operands differ in shape", ErrInvalidDimension)
	}
	rows, cols := a.Dims()
	out := mat.NewCDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		ra, rb, ro := Row(a, i), Row(b, i), Row(out, i)
		for j := range ro {
			ro[j] = ra[j] * cmplx.Conj(rb[j])
		}
	}
	return out, nil
}

// ScaleRowInPlace multiplies row i element-wise by weights.
func ScaleRowInPlace(m *mat.CDense, i int, weights []float64) {
	row := Row(m, i)
	for j, w := range weights {
		row[j] *= complex(w, 0)
	}
}

// MulRealInPlace multiplies m element-wise by the real matrix w.
func MulRealInPlace(m *mat.CDense, w *mat.Dense) error {
	if !sameShapeReal(m, w) {
		return fmt.Errorf("%w: weight matrix differs in shape", ErrInvalidDimension)
	}
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		row := Row(m, i)
		for j := 0; j < cols; j++ {
			row[j] *= complex(w.At(i, j), 0)
		}
	}
	return nil
}

// MulInPlace multiplies m element-wise by the complex matrix k.
func MulInPlace(m, k *mat.CDense) error {
	if !SameShape(m, k) {
		return fmt.Errorf("%w: multiplier differs in shape", ErrInvalidDimension)
	}
	rows, _ := m.Dims()
	for i := 0; i < rows; i++ {
		rm, rk := Row(m, i), Row(k, i)
		for j := range rm {
			rm[j] *= rk[j]
		}
	}
	return nil
}

// Magnitude returns |m| element-wise.
func Magnitude(m *mat.CDense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j, v := range Row(m, i) {
			out.Set(i, j, cmplx.Abs(v))
		}
	}
	return out
}

// MaxAbs returns the largest modulus in m.
func MaxAbs(m *mat.CDense) float64 {
	rows, _ := m.Dims()
	best := 0.0
	for i := 0; i < rows; i++ {
		for _, v := range Row(m, i) {
			if a := cmplx.Abs(v); a > best {
				best = a
			}
		}
	}
	return best
}

func sameShapeReal(m *mat.CDense, w *mat.Dense) bool {
	mr, mc := m.Dims()
	wr, wc := w.Dims()
	return mr == wr && mc == wc
}

// CopyInto copies src into dst; both must have the same shape.
func CopyInto(dst, src *mat.CDense) error {
	if !SameShape(dst, src) {
		return fmt.Errorf("%w: copy between different shapes", ErrDimensionMismatch)
	}
	rows, _ := dst.Dims()
	for i := 0; i < rows; i++ {
		copy(Row(dst, i), Row(src, i))
	}
	return nil
}
