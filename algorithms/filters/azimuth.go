package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-insar/algorithms/blocks"
	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/RyanBlaney/sonido-insar/algorithms/doppler"
	"github.com/RyanBlaney/sonido-insar/algorithms/spectral"
	"github.com/RyanBlaney/sonido-insar/algorithms/windowing"
	"github.com/RyanBlaney/sonido-insar/config"
	"github.com/RyanBlaney/sonido-insar/logging"
	"gonum.org/v1/gonum/mat"
)

// sameCentroidHz is the Doppler difference below which two images already
// share their azimuth band and the column filter is left at unity.
const sameCentroidHz = 1e-6

// AzimuthFilter restricts two SLC images to the azimuth band they have in
// common, column by column, from their Doppler centroid polynomials.
type AzimuthFilter struct {
	cfg    config.AzimuthFilterConfig
	logger logging.Logger
}

// NewAzimuthFilter creates an azimuth filter. A nil logger falls back to
// the global one.
func NewAzimuthFilter(cfg config.AzimuthFilterConfig, logger logging.Logger) (*AzimuthFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &AzimuthFilter{
		cfg:    cfg,
		logger: logging.OrDefault(logger, "azimuth_filter"),
	}, nil
}

// FilterMatrix builds the size x len(fdcOwn) spectral filter for an image
// with centroids fdcOwn, against a partner image with centroids fdcOther.
// Every column is centred on the mean centroid, narrowed to the common
// bandwidth and returned in FFT order (ifftshifted).
func (af *AzimuthFilter) FilterMatrix(size int, prf, abw float64, fdcOwn, fdcOther []float64) (*mat.Dense, error) {
	if size <= 0 || len(fdcOwn) == 0 {
		return nil, fmt.Errorf("%w: filter of %d lines and %d columns", common.ErrInvalidDimension, size, len(fdcOwn))
	}
	if len(fdcOwn) != len(fdcOther) {
		return nil, fmt.Errorf("%w: %d own centroids, %d partner centroids", common.ErrDimensionMismatch, len(fdcOwn), len(fdcOther))
	}
	if prf <= 0 || abw <= 0 || abw > prf {
		return nil, fmt.Errorf("%w: azimuth bandwidth %g for PRF %g", common.ErrInvalidArgument, abw, prf)
	}

	alpha := af.cfg.AlphaHamming
	doHamming := alpha < hammingOff

	freqAxis, err := windowing.FrequencyAxis(size, prf)
	if err != nil {
		return nil, err
	}

	var inverseHamming []float64
	if doHamming {
		h, err := windowing.Hamming(freqAxis, abw, prf, alpha)
		if err != nil {
			return nil, err
		}
		inverseHamming = windowing.Invert(h)
	}

	ones := make([]float64, size)
	for i := range ones {
		ones[i] = 1
	}

	filter := mat.NewDense(size, len(fdcOwn), nil)
	for col := range fdcOwn {
		fdcM, fdcS := fdcOwn[col], fdcOther[col]
		if math.Abs(fdcM-fdcS) < sameCentroidHz {
			filter.SetCol(col, ones)
			continue
		}

		fdcMean := 0.5 * (fdcM + fdcS)
		abwNew := math.Max(1.0, 2.0*(0.5*abw-math.Abs(fdcM-fdcMean)))
		meanShift := int(math.Round(float64(size) * fdcMean / prf))

		var column []float64
		if doHamming {
			column, err = windowing.Hamming(freqAxis, abwNew, prf, alpha)
			if err != nil {
				return nil, err
			}
			spectral.CircularShift(column, meanShift)

			deweight := make([]float64, size)
			copy(deweight, inverseHamming)
			spectral.CircularShift(deweight, int(math.Round(float64(size)*fdcM/prf)))

			if column, err = windowing.Multiply(column, deweight); err != nil {
				return nil, err
			}
		} else {
			column = windowing.Rect(windowing.Scaled(freqAxis, abwNew))
			spectral.CircularShift(column, meanShift)
		}

		spectral.IFFTShiftVector(column)
		filter.SetCol(col, column)
	}

	return filter, nil
}

// FilterBlock filters slc in place along azimuth. own describes slc, other
// the partner image; both pixel windows must match the block width. The
// whole block height is one azimuth FFT.
func (af *AzimuthFilter) FilterBlock(slc *mat.CDense, own, other config.SensorGeometry) error {
	if slc == nil || slc.IsEmpty() {
		return fmt.Errorf("%w: empty block", common.ErrInvalidArgument)
	}
	lines, pixels := slc.Dims()
	if own.Pixels() != pixels || other.Pixels() != pixels {
		return fmt.Errorf("%w: block has %d pixels, geometry windows %d and %d",
			common.ErrDimensionMismatch, pixels, own.Pixels(), other.Pixels())
	}

	fdcOwn, err := doppler.Centroids(own)
	if err != nil {
		return err
	}
	fdcOther, err := doppler.Centroids(other)
	if err != nil {
		return err
	}

	filter, err := af.FilterMatrix(lines, own.PRF, own.AzimuthBandwidth, fdcOwn, fdcOther)
	if err != nil {
		return err
	}

	if err := spectral.FFT(slc, spectral.AxisAzimuth); err != nil {
		return err
	}
	if err := common.MulRealInPlace(slc, filter); err != nil {
		return err
	}
	if err := spectral.IFFT(slc, spectral.AxisAzimuth); err != nil {
		return err
	}

	af.logger.Debug("Azimuth block filtered", logging.Fields{
		"lines":         lines,
		"pixels":        pixels,
		"fdc_own_mid":   fdcOwn[pixels/2],
		"fdc_other_mid": fdcOther[pixels/2],
	})
	return nil
}

// FilterPair filters master and slave in place with mirrored filters:
// both end up centred on the mean centroid with the same bandwidth.
func (af *AzimuthFilter) FilterPair(master, slave *mat.CDense, masterGeom, slaveGeom config.SensorGeometry) error {
	if master == nil || slave == nil || !common.SameShape(master, slave) {
		return fmt.Errorf("%w: master and slave must share a shape", common.ErrInvalidArgument)
	}
	if err := af.FilterBlock(master, masterGeom, slaveGeom); err != nil {
		return fmt.Errorf("master: %w", err)
	}
	if err := af.FilterBlock(slave, slaveGeom, masterGeom); err != nil {
		return fmt.Errorf("slave: %w", err)
	}
	return nil
}

// FilterBuffer filters an SLC taller than one azimuth FFT. Lines are
// processed in blocks of cfg.BlockLines overlapping by cfg.Overlap; slc is
// overwritten with the result.
func (af *AzimuthFilter) FilterBuffer(slc *mat.CDense, own, other config.SensorGeometry) error {
	if slc == nil || slc.IsEmpty() {
		return fmt.Errorf("%w: empty buffer", common.ErrInvalidArgument)
	}
	lines, pixels := slc.Dims()
	if lines <= af.cfg.BlockLines {
		return af.FilterBlock(slc, own, other)
	}

	it, err := blocks.NewIterator(lines, af.cfg.BlockLines, af.cfg.Overlap)
	if err != nil {
		return err
	}

	out := mat.NewCDense(lines, pixels, nil)
	for it.Next() {
		read, block, output := it.Step().LineWindows(pixels)

		b, err := blocks.Extract(slc, read)
		if err != nil {
			return err
		}
		if err := af.FilterBlock(b, own, other); err != nil {
			return err
		}
		if err := blocks.Insert(out, output, b, block); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return err
	}

	return common.CopyInto(slc, out)
}
