package filters_test

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/RyanBlaney/sonido-insar/algorithms/filters"
	"github.com/RyanBlaney/sonido-insar/config"
	"github.com/RyanBlaney/sonido-insar/internal/testutil"
	"github.com/RyanBlaney/sonido-insar/logging"
)

func goldsteinConfig(alpha float64, size, overlap, halfWidth int) config.GoldsteinConfig {
	return config.GoldsteinConfig{
		Alpha:           alpha,
		BlockSize:       size,
		Overlap:         overlap,
		SmoothHalfWidth: halfWidth,
	}
}

// fringe is a noise-free interferogram with a linear phase ramp of
// (lineBin, pixelBin) cycles per 32 samples.
func fringe(rows, cols, lineBin, pixelBin int) *mat.CDense {
	m := mat.NewCDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			phase := 2 * math.Pi * float64(lineBin*i+pixelBin*j) / 32
			m.Set(i, j, cmplx.Rect(1, phase))
		}
	}
	return m
}

// meanPhaseError is the mean absolute phase difference between got and ref.
func meanPhaseError(got, ref *mat.CDense) float64 {
	rows, cols := ref.Dims()
	total := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			total += math.Abs(cmplx.Phase(got.At(i, j) * cmplx.Conj(ref.At(i, j))))
		}
	}
	return total / float64(rows*cols)
}

func TestGoldsteinZeroBlockIsLeftAlone(t *testing.T) {
	rec := logging.NewRecordingLogger()
	gf, err := filters.NewGoldsteinFilter(goldsteinConfig(0.5, 8, 1, 1), rec)
	require.NoError(t, err)

	block := mat.NewCDense(8, 8, nil)
	out, err := gf.Goldstein(block)
	require.NoError(t, err)
	require.Equal(t, 0.0, common.MaxAbs(out))
	require.Equal(t, 1, rec.Count(logging.WarnLevel))
}

func TestGoldsteinAlphaZeroIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	block := testutil.RandomMatrix(rng, 8, 8)
	want := common.Clone(block)

	for _, halfWidth := range []int{0, 1} {
		gf, err := filters.NewGoldsteinFilter(goldsteinConfig(0, 8, 1, halfWidth), logging.NewRecordingLogger())
		require.NoError(t, err)

		out, err := gf.Goldstein(block)
		require.NoError(t, err)
		testutil.RequireMatrixNearlyEqual(t, want, out, 1e-9)
	}
	testutil.RequireMatrixNearlyEqual(t, want, block, 0)
}

func TestGoldsteinReducesPhaseNoise(t *testing.T) {
	const size, pixels = 32, 96

	rng := rand.New(rand.NewSource(32))
	clean := fringe(size, pixels, 3, 5)
	noisy := common.Clone(clean)
	for i := 0; i < size; i++ {
		row := common.Row(noisy, i)
		for j := range row {
			row[j] += complex(0.5*rng.NormFloat64(), 0.5*rng.NormFloat64())
		}
	}

	gf, err := filters.NewGoldsteinFilter(goldsteinConfig(0.8, size, 4, 2), logging.NewRecordingLogger())
	require.NoError(t, err)

	out, err := gf.FilterBuffer(noisy)
	require.NoError(t, err)

	before := meanPhaseError(noisy, clean)
	after := meanPhaseError(out, clean)
	require.Less(t, after, 0.6*before, "phase error before %.3f after %.3f", before, after)
}

func TestGoldsteinBufferCoversEveryPixel(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	cint := testutil.RandomMatrix(rng, 8, 37)
	want := common.Clone(cint)

	gf, err := filters.NewGoldsteinFilter(goldsteinConfig(0, 8, 2, 1), logging.NewRecordingLogger())
	require.NoError(t, err)

	out, err := gf.FilterBuffer(cint)
	require.NoError(t, err)
	testutil.RequireMatrixNearlyEqual(t, want, out, 1e-9)
}

func TestGoldsteinErrors(t *testing.T) {
	gf, err := filters.NewGoldsteinFilter(goldsteinConfig(0.5, 8, 1, 1), logging.NewRecordingLogger())
	require.NoError(t, err)

	_, err = gf.Goldstein(mat.NewCDense(4, 8, nil))
	require.ErrorIs(t, err, common.ErrDimensionMismatch)

	_, err = gf.Goldstein(nil)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = gf.FilterBuffer(mat.NewCDense(16, 16, nil))
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = gf.FilterBuffer(mat.NewCDense(8, 4, nil))
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = filters.NewGoldsteinFilter(goldsteinConfig(1.5, 8, 1, 1), nil)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestKernel2D(t *testing.T) {
	k, err := filters.Kernel2D([]float64{0.25, 0.5, 0.25}, 8)
	require.NoError(t, err)

	rows, cols := k.Dims()
	require.Equal(t, 8, rows)
	require.Equal(t, 8, cols)
	require.InDelta(t, 1, real(k.At(0, 0)), 1e-12)

	// a symmetric kernel centred on index 0 has a real spectrum
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			require.InDelta(t, 0, imag(k.At(i, j)), 1e-12)
		}
	}

	for _, bad := range [][]float64{nil, {1, 1}, make([]float64, 9)} {
		_, err := filters.Kernel2D(bad, 8)
		require.ErrorIs(t, err, common.ErrInvalidArgument, "kernel length %d", len(bad))
	}
}

func TestKernel2DLeavesInputUntouched(t *testing.T) {
	kernel := []float64{1, 2, 3}
	_, err := filters.Kernel2D(kernel, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, kernel)
}

func TestSmooth(t *testing.T) {
	k, err := filters.Kernel2D([]float64{0.2, 0.2, 0.2, 0.2, 0.2}, 8)
	require.NoError(t, err)

	constant := mat.NewDense(8, 8, nil)
	constant.Apply(func(_, _ int, _ float64) float64 { return 3 }, constant)

	smoothed, err := filters.Smooth(constant, k)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		testutil.RequireSliceNearlyEqual(t, mat.Row(nil, i, constant), mat.Row(nil, i, smoothed), 1e-12)
	}

	// a delta spreads into a 5x5 box of 1/25 around the origin, wrapping
	delta := mat.NewDense(8, 8, nil)
	delta.Set(0, 0, 1)
	smoothed, err = filters.Smooth(delta, k)
	require.NoError(t, err)
	require.InDelta(t, 1.0/25, smoothed.At(0, 0), 1e-12)
	require.InDelta(t, 1.0/25, smoothed.At(7, 6), 1e-12)
	require.InDelta(t, 0, smoothed.At(4, 4), 1e-12)

	_, err = filters.Smooth(mat.NewDense(4, 4, nil), k)
	require.ErrorIs(t, err, common.ErrInvalidDimension)
}

func TestConvolveBufferWithDeltaKernel(t *testing.T) {
	delta, err := filters.Kernel2D([]float64{1}, 8)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(34))
	cint := testutil.RandomMatrix(rng, 8, 20)

	out, err := filters.ConvolveBuffer(cint, delta, 2)
	require.NoError(t, err)
	testutil.RequireMatrixNearlyEqual(t, cint, out, 1e-9)

	_, err = filters.ConvolveBuffer(cint, mat.NewCDense(8, 4, nil), 2)
	require.ErrorIs(t, err, common.ErrInvalidDimension)

	_, err = filters.ConvolveBuffer(testutil.RandomMatrix(rng, 4, 20), delta, 2)
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestSpectralFilterBuffer(t *testing.T) {
	rng := rand.New(rand.NewSource(35))
	cint := testutil.RandomMatrix(rng, 8, 20)

	ones := mat.NewDense(8, 8, nil)
	ones.Apply(func(_, _ int, _ float64) float64 { return 1 }, ones)

	out, err := filters.SpectralFilterBuffer(cint, ones, 2)
	require.NoError(t, err)
	testutil.RequireMatrixNearlyEqual(t, cint, out, 1e-9)

	// keeping only DC averages every block to a constant
	dcOnly := mat.NewDense(8, 8, nil)
	dcOnly.Set(0, 0, 1)
	out, err = filters.SpectralFilterBuffer(cint, dcOnly, 0)
	require.NoError(t, err)
	require.InDelta(t, real(out.At(0, 0)), real(out.At(7, 7)), 1e-12)
	require.InDelta(t, imag(out.At(0, 0)), imag(out.At(7, 7)), 1e-12)

	_, err = filters.SpectralFilterBuffer(cint, mat.NewDense(8, 4, nil), 2)
	require.ErrorIs(t, err, common.ErrInvalidDimension)
}
