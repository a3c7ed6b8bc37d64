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
	"github.com/RyanBlaney/sonido-insar/algorithms/spectral"
	"github.com/RyanBlaney/sonido-insar/config"
	"github.com/RyanBlaney/sonido-insar/internal/testutil"
	"github.com/RyanBlaney/sonido-insar/logging"
)

const (
	testPRF = 1680.0
	testABW = 1500.0
)

func azimuthGeometry(pixels int, fdc float64) config.SensorGeometry {
	return config.SensorGeometry{
		PRF:               testPRF,
		AzimuthBandwidth:  testABW,
		RangeBandwidth:    15e6,
		RangeSamplingRate: 18e6,
		Doppler:           config.DopplerPolynomial{A0: fdc},
		PixLo:             0,
		PixHi:             pixels - 1,
	}
}

func newAzimuthFilter(t *testing.T, alpha float64) *filters.AzimuthFilter {
	t.Helper()
	af, err := filters.NewAzimuthFilter(config.AzimuthFilterConfig{
		AlphaHamming: alpha,
		BlockLines:   8,
		Overlap:      2,
	}, logging.NewRecordingLogger())
	require.NoError(t, err)
	return af
}

func TestAzimuthFilterMatrixSameCentroid(t *testing.T) {
	af := newAzimuthFilter(t, 0.75)
	fdc := []float64{120, 121, 122, 123}

	filter, err := af.FilterMatrix(8, testPRF, testABW, fdc, fdc)
	require.NoError(t, err)

	rows, cols := filter.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			require.Equal(t, 1.0, filter.At(i, j))
		}
	}
}

func TestAzimuthFilterMatrixCommonBand(t *testing.T) {
	// centroids +-200 Hz: mean 0, common bandwidth 2*(750-200) = 1100 Hz.
	// The 8-point axis has steps of 210 Hz, so |f| <= 550 keeps 0, +-210
	// and +-420, listed here in FFT order.
	wantSupport := []bool{true, true, true, false, false, false, true, true}

	for _, alpha := range []float64{1, 0.75} {
		af := newAzimuthFilter(t, alpha)
		filter, err := af.FilterMatrix(8, testPRF, testABW, []float64{200}, []float64{-200})
		require.NoError(t, err)

		for i, inside := range wantSupport {
			v := filter.At(i, 0)
			if inside {
				require.Greater(t, v, 0.0, "alpha %g bin %d", alpha, i)
			} else {
				require.Zero(t, v, "alpha %g bin %d", alpha, i)
			}
		}
		if alpha == 1 {
			require.Equal(t, 1.0, filter.At(0, 0))
		}
	}
}

func TestAzimuthFilterMatrixErrors(t *testing.T) {
	af := newAzimuthFilter(t, 1)

	_, err := af.FilterMatrix(8, testPRF, testABW, []float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, common.ErrDimensionMismatch)

	_, err = af.FilterMatrix(8, testPRF, testPRF+1, []float64{1}, []float64{1})
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = af.FilterMatrix(0, testPRF, testABW, []float64{1}, []float64{1})
	require.ErrorIs(t, err, common.ErrInvalidDimension)
}

func TestAzimuthFilterBlockZeroDopplerIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	slc := testutil.RandomMatrix(rng, 8, 16)
	want := common.Clone(slc)

	af := newAzimuthFilter(t, 0.75)
	g := azimuthGeometry(16, 0)
	require.NoError(t, af.FilterBlock(slc, g, g))
	testutil.RequireMatrixNearlyEqual(t, want, slc, 1e-9)
}

func TestAzimuthFilterPairRemovesDisjointBand(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	master := testutil.RandomMatrix(rng, 8, 4)
	slave := testutil.RandomMatrix(rng, 8, 4)

	af := newAzimuthFilter(t, 1)
	require.NoError(t, af.FilterPair(master, slave, azimuthGeometry(4, 200), azimuthGeometry(4, -200)))

	for _, m := range []*mat.CDense{master, slave} {
		spectrum := common.Clone(m)
		require.NoError(t, spectral.FFT(spectrum, spectral.AxisAzimuth))
		for j := 0; j < 4; j++ {
			for _, bin := range []int{3, 4, 5} {
				require.Less(t, cmplx.Abs(spectrum.At(bin, j)), 1e-9, "bin %d column %d", bin, j)
			}
			require.Greater(t, cmplx.Abs(spectrum.At(0, j)), 0.0)
		}
	}
}

func TestAzimuthFilterPairErrors(t *testing.T) {
	af := newAzimuthFilter(t, 1)
	g := azimuthGeometry(4, 0)

	err := af.FilterPair(mat.NewCDense(8, 4, nil), mat.NewCDense(8, 5, nil), g, g)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	err = af.FilterPair(mat.NewCDense(8, 4, nil), mat.NewCDense(8, 4, nil), azimuthGeometry(5, 0), g)
	require.ErrorIs(t, err, common.ErrDimensionMismatch)
}

func TestAzimuthFilterBuffer(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	slc := testutil.RandomMatrix(rng, 40, 4)
	want := common.Clone(slc)

	af := newAzimuthFilter(t, 0.75)
	g := azimuthGeometry(4, 300)
	require.NoError(t, af.FilterBuffer(slc, g, g))
	testutil.RequireMatrixNearlyEqual(t, want, slc, 1e-9)
}

func TestAzimuthFilterBufferRemovesDisjointBand(t *testing.T) {
	// a tone at +630 Hz (bin 3 of 8) lies outside the common band of
	// centroids +-200 Hz and must vanish from every block
	const lines, pixels = 40, 2
	slc := mat.NewCDense(lines, pixels, nil)
	for i := 0; i < lines; i++ {
		for j := 0; j < pixels; j++ {
			slc.Set(i, j, cmplx.Rect(1, 2*math.Pi*3*float64(i)/8))
		}
	}

	af := newAzimuthFilter(t, 1)
	require.NoError(t, af.FilterBuffer(slc, azimuthGeometry(pixels, 200), azimuthGeometry(pixels, -200)))
	require.Less(t, common.MaxAbs(slc), 1e-9)
}

func TestNewAzimuthFilterInvalidConfig(t *testing.T) {
	_, err := filters.NewAzimuthFilter(config.AzimuthFilterConfig{AlphaHamming: 2, BlockLines: 8}, nil)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
