package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/RyanBlaney/sonido-insar/algorithms/spectral"
	"github.com/RyanBlaney/sonido-insar/config"
	"github.com/RyanBlaney/sonido-insar/logging"
	"github.com/mjibson/go-dsp/dsputils"
	"gonum.org/v1/gonum/mat"
)

// minAmplitude is the largest spectral amplitude under which a block is
// treated as empty and left unfiltered.
const minAmplitude = 1e-20

// GoldsteinFilter is the adaptive interferometric phase filter: every
// block's spectrum is weighted by its smoothed, normalized amplitude raised
// to alpha. The kernel spectrum is computed once and only read afterwards,
// so a GoldsteinFilter can be shared between goroutines.
type GoldsteinFilter struct {
	cfg    config.GoldsteinConfig
	kernel *mat.CDense // FFT of the 2-D smoothing kernel, nil without smoothing
	logger logging.Logger
}

// NewGoldsteinFilter creates a Goldstein filter. A nil logger falls back to
// the global one.
func NewGoldsteinFilter(cfg config.GoldsteinConfig, logger logging.Logger) (*GoldsteinFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gf := &GoldsteinFilter{
		cfg:    cfg,
		logger: logging.OrDefault(logger, "goldstein_filter"),
	}

	if k := cfg.Kernel(); k != nil {
		kernel, err := Kernel2D(k, cfg.BlockSize)
		if err != nil {
			return nil, err
		}
		gf.kernel = kernel
	}
	return gf, nil
}

// Kernel2D spreads an odd 1-D kernel over size samples with its centre at
// index 0 (circular wrap-around), takes the outer product with itself and
// returns its 2-D FFT.
func Kernel2D(kernel []float64, size int) (*mat.CDense, error) {
	if len(kernel) == 0 || len(kernel)%2 == 0 {
		return nil, fmt.Errorf("%w: kernel length %d must be odd", common.ErrInvalidArgument, len(kernel))
	}
	if len(kernel) > size {
		return nil, fmt.Errorf("%w: kernel length %d exceeds block size %d", common.ErrInvalidArgument, len(kernel), size)
	}

	// ZeroPadF hands back its input when no padding is needed
	weights := dsputils.ZeroPadF(append([]float64(nil), kernel...), size)
	spectral.CircularShift(weights, -(len(kernel) / 2))
	v := mat.NewVecDense(size, weights)

	var outer mat.Dense
	outer.Outer(1, v, v)
	return spectral.FFTReal2(&outer)
}

// Smooth convolves a real amplitude matrix with a kernel given by its 2-D
// spectrum (as returned by Kernel2D).
func Smooth(amplitude *mat.Dense, kernelFFT *mat.CDense) (*mat.Dense, error) {
	ar, ac := amplitude.Dims()
	kr, kc := kernelFFT.Dims()
	if ar != kr || ac != kc {
		return nil, fmt.Errorf("%w: amplitude %dx%d, kernel %dx%d", common.ErrInvalidDimension, ar, ac, kr, kc)
	}

	spectrum, err := spectral.FFTReal2(amplitude)
	if err != nil {
		return nil, err
	}
	if err := common.MulInPlace(spectrum, kernelFFT); err != nil {
		return nil, err
	}
	smoothed, err := spectral.IFFT2(spectrum)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(ar, ac, nil)
	for i := 0; i < ar; i++ {
		for j, v := range common.Row(smoothed, i) {
			out.Set(i, j, real(v))
		}
	}
	return out, nil
}

// Goldstein filters one block and returns the result; block is not
// modified. With smoothing enabled the block must be BlockSize square.
// A block whose spectrum is (nearly) all zero is returned as a copy and a
// warning is logged.
func (gf *GoldsteinFilter) Goldstein(block *mat.CDense) (*mat.CDense, error) {
	if block == nil || block.IsEmpty() {
		return nil, fmt.Errorf("%w: empty block", common.ErrInvalidArgument)
	}
	if gf.kernel != nil && !common.SameShape(block, gf.kernel) {
		r, c := block.Dims()
		return nil, fmt.Errorf("%w: block %dx%d, block size %d", common.ErrDimensionMismatch, r, c, gf.cfg.BlockSize)
	}

	spectrum, err := spectral.FFT2(block)
	if err != nil {
		return nil, err
	}

	amplitude := common.Magnitude(spectrum)
	if gf.kernel != nil {
		if amplitude, err = Smooth(amplitude, gf.kernel); err != nil {
			return nil, err
		}
	}

	maxAmplitude := mat.Max(amplitude)
	if maxAmplitude < minAmplitude {
		gf.logger.Warn("No filtering, maximum amplitude below threshold, zeros in this block?", logging.Fields{
			"max_amplitude": maxAmplitude,
		})
		return common.Clone(block), nil
	}

	alpha := gf.cfg.Alpha
	amplitude.Apply(func(_, _ int, v float64) float64 {
		// smoothing through the FFT can leave tiny negative values
		v = math.Max(v/maxAmplitude, 0)
		if alpha == 0.5 {
			return math.Sqrt(v)
		}
		return math.Pow(v, alpha)
	}, amplitude)

	if err := common.MulRealInPlace(spectrum, amplitude); err != nil {
		return nil, err
	}
	return spectral.IFFT2(spectrum)
}

// FilterBuffer filters an interferogram of BlockSize lines and at least
// BlockSize pixels, walking the pixels in square blocks overlapping by
// cfg.Overlap. The input is left untouched.
func (gf *GoldsteinFilter) FilterBuffer(cint *mat.CDense) (*mat.CDense, error) {
	if cint == nil || cint.IsEmpty() {
		return nil, fmt.Errorf("%w: empty interferogram", common.ErrInvalidArgument)
	}
	lines, pixels := cint.Dims()
	if lines != gf.cfg.BlockSize {
		return nil, fmt.Errorf("%w: buffer has %d lines, block size is %d", common.ErrInvalidArgument, lines, gf.cfg.BlockSize)
	}

	out, err := processBuffer(cint, gf.cfg.BlockSize, gf.cfg.Overlap, gf.Goldstein)
	if err != nil {
		return nil, err
	}

	gf.logger.Debug("Goldstein buffer filtered", logging.Fields{
		"lines":  lines,
		"pixels": pixels,
		"alpha":  gf.cfg.Alpha,
	})
	return out, nil
}
