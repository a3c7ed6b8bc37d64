// Package testutil holds matrix fixtures and tolerance assertions shared by
// the filter tests.
package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// RandomMatrix fills a rows x cols matrix with complex Gaussian samples.
func RandomMatrix(rng *rand.Rand, rows, cols int) *mat.CDense {
	data := make([]complex128, rows*cols)
	for i := range data {
		data[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	return mat.NewCDense(rows, cols, data)
}

// RandomPhaseMatrix fills a rows x cols matrix with unit-amplitude samples
// of uniformly random phase.
func RandomPhaseMatrix(rng *rand.Rand, rows, cols int) *mat.CDense {
	data := make([]complex128, rows*cols)
	for i := range data {
		data[i] = cmplx.Rect(1, 2*math.Pi*rng.Float64())
	}
	return mat.NewCDense(rows, cols, data)
}

// Flatten lists real and imaginary parts of m row by row.
func Flatten(m *mat.CDense) []float64 {
	rows, cols := m.Dims()
	out := make([]float64, 0, 2*rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			out = append(out, real(v), imag(v))
		}
	}
	return out
}

// RequireSliceNearlyEqual fails t when got and want differ in length or any
// pair of elements differs by more than tol.
func RequireSliceNearlyEqual(t testing.TB, want, got []float64, tol float64) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, tol)); diff != "" {
		t.Fatalf("slices differ (-want +got):\n%s", diff)
	}
}

// RequireMatrixNearlyEqual fails t when the matrices differ in shape or any
// element differs by more than tol in its real or imaginary part.
func RequireMatrixNearlyEqual(t testing.TB, want, got *mat.CDense, tol float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, []int{wr, wc}, []int{gr, gc}, "matrix shape")
	RequireSliceNearlyEqual(t, Flatten(want), Flatten(got), tol)
}
