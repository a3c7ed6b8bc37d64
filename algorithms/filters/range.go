package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/RyanBlaney/sonido-insar/algorithms/spectral"
	"github.com/RyanBlaney/sonido-insar/algorithms/windowing"
	"github.com/RyanBlaney/sonido-insar/config"
	"github.com/RyanBlaney/sonido-insar/logging"
	"gonum.org/v1/gonum/mat"
)

// hammingOff is the alpha above which the data is treated as unweighted.
const hammingOff = 0.9999

// notFilteredWarnPercent is the share of unconfident lines that triggers a
// warning. The caller still gets the result.
const notFilteredWarnPercent = 60.0

// RangeResult holds the diagnostics of a range filter call.
type RangeResult struct {
	MeanShift          float64 // signed, in interferogram spectral bins
	MeanSNR            float64
	PercentNotFiltered float64
	NotFiltered        int
	Lines              int // output lines estimated

	// Per output line, in line order.
	LineShifts   []float64
	LineSNR      []float64
	LineFiltered []bool // false where the previous shift was reused
}

// RangeFilter removes the non-overlapping parts of the master and slave
// range spectra. The relative spectral shift is estimated per line from
// the power spectrum of the interferogram.
type RangeFilter struct {
	cfg      config.RangeFilterConfig
	geometry config.SensorGeometry
	logger   logging.Logger
}

// NewRangeFilter creates a range filter. Only RangeSamplingRate and
// RangeBandwidth of geometry are used. A nil logger falls back to the
// global one.
func NewRangeFilter(cfg config.RangeFilterConfig, geometry config.SensorGeometry, logger logging.Logger) (*RangeFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if geometry.RangeSamplingRate <= 0 {
		return nil, fmt.Errorf("%w: range sampling rate %g", common.ErrInvalidArgument, geometry.RangeSamplingRate)
	}
	if geometry.RangeBandwidth <= 0 || geometry.RangeBandwidth > geometry.RangeSamplingRate {
		return nil, fmt.Errorf("%w: range bandwidth %g for sampling rate %g",
			common.ErrInvalidArgument, geometry.RangeBandwidth, geometry.RangeSamplingRate)
	}

	return &RangeFilter{
		cfg:      cfg,
		geometry: geometry,
		logger:   logging.OrDefault(logger, "range_filter"),
	}, nil
}

// FilterBlock filters master and slave in place. Only lines
// (nlMean-1)/2 .. numLines-(nlMean-1)/2-1 are filtered; the margins are
// returned unchanged.
func (rf *RangeFilter) FilterBlock(master, slave *mat.CDense) (RangeResult, error) {
	if master == nil || slave == nil || master.IsEmpty() || slave.IsEmpty() {
		return RangeResult{}, fmt.Errorf("%w: empty block", common.ErrInvalidArgument)
	}
	numLines, numPixels := master.Dims()
	nlMean := rf.cfg.NLMean
	ovs := rf.cfg.OversampleFactor

	switch {
	case !common.IsOdd(nlMean):
		return RangeResult{}, fmt.Errorf("%w: nlMean %d is not odd", common.ErrInvalidArgument, nlMean)
	case !common.IsPowerOfTwo(numPixels):
		return RangeResult{}, fmt.Errorf("%w: %d pixels is not a power of two", common.ErrInvalidArgument, numPixels)
	case !common.IsPowerOfTwo(ovs):
		return RangeResult{}, fmt.Errorf("%w: oversampling factor %d is not a power of two", common.ErrInvalidArgument, ovs)
	case !common.SameShape(master, slave):
		sr, sc := slave.Dims()
		return RangeResult{}, fmt.Errorf("%w: slave %dx%d, master %dx%d", common.ErrInvalidArgument, sr, sc, numLines, numPixels)
	case numLines < nlMean:
		return RangeResult{}, fmt.Errorf("%w: %d lines cannot hold nlMean %d", common.ErrInvalidArgument, numLines, nlMean)
	}

	rsr := rf.geometry.RangeSamplingRate
	rbw := rf.geometry.RangeBandwidth
	alpha := rf.cfg.AlphaHamming
	doHamming := alpha < hammingOff
	fftLength := numPixels * ovs
	deltaF := rsr / float64(numPixels)

	freqAxis, err := windowing.FrequencyAxis(numPixels, rsr)
	if err != nil {
		return RangeResult{}, err
	}

	var inverseHamming []float64
	if doHamming {
		h, err := windowing.Hamming(freqAxis, rbw, rsr, alpha)
		if err != nil {
			return RangeResult{}, err
		}
		inverseHamming = windowing.Invert(h)
	}

	power, err := interferogramPower(master, slave, ovs)
	if err != nil {
		return RangeResult{}, err
	}
	if rf.cfg.WeightCorrelation {
		weightCorrelation(power, numPixels)
	}

	if err := spectral.FFT(master, spectral.AxisRange); err != nil {
		return RangeResult{}, err
	}
	if err := spectral.FFT(slave, spectral.AxisRange); err != nil {
		return RangeResult{}, err
	}

	firstLine := (nlMean - 1) / 2
	lastLine := numLines - firstLine - 1
	outputLines := lastLine - firstLine + 1

	// walking mean of nlMean power rows, centred on the output line
	walking := make([]float64, fftLength)
	for i := 0; i < nlMean; i++ {
		for j, v := range power.RawRowView(i) {
			walking[j] += v
		}
	}

	result := RangeResult{
		Lines:        outputLines,
		LineShifts:   make([]float64, 0, outputLines),
		LineSNR:      make([]float64, 0, outputLines),
		LineFiltered: make([]bool, 0, outputLines),
	}
	lastShift, lastNegative := 0, false

	for line := firstLine; line <= lastLine; line++ {
		peakIdx, peak := common.ArgMax(walking)
		total := common.Sum(walking)
		snr := math.Inf(1)
		if noise := total - peak; noise > 0 {
			snr = float64(fftLength) * peak / noise
		}

		shift, negative := peakIdx, false
		if shift > fftLength/2 {
			shift = fftLength - shift
			negative = true
		}

		confident := snr >= rf.cfg.SNRThreshold && float64(shift)*deltaF < rbw
		if confident {
			lastShift, lastNegative = shift, negative
		} else {
			result.NotFiltered++
			shift, negative = lastShift, lastNegative
		}

		signed := float64(shift)
		if negative {
			signed = -signed
		}
		result.LineShifts = append(result.LineShifts, signed)
		result.LineSNR = append(result.LineSNR, snr)
		result.LineFiltered = append(result.LineFiltered, confident)

		window, err := rf.shiftFilter(freqAxis, inverseHamming, float64(shift)*deltaF)
		if err != nil {
			return RangeResult{}, err
		}

		first, second := master, slave
		if negative {
			first, second = slave, master
		}
		if err := window.ApplyInPlace(common.Row(first, line)); err != nil {
			return RangeResult{}, err
		}
		if err := window.Reversed().ApplyInPlace(common.Row(second, line)); err != nil {
			return RangeResult{}, err
		}

		if line != lastLine {
			oldest := power.RawRowView(line - firstLine)
			next := power.RawRowView(line - firstLine + nlMean)
			for j := range walking {
				walking[j] += next[j] - oldest[j]
			}
		}
	}

	if err := spectral.IFFT(master, spectral.AxisRange); err != nil {
		return RangeResult{}, err
	}
	if err := spectral.IFFT(slave, spectral.AxisRange); err != nil {
		return RangeResult{}, err
	}

	result.MeanShift = common.Mean(result.LineShifts)
	result.MeanSNR = common.Mean(result.LineSNR)
	result.PercentNotFiltered = 100 * float64(result.NotFiltered) / float64(outputLines)

	rf.logger.Debug("Range block filtered", logging.Fields{
		"lines":                outputLines,
		"mean_shift":           result.MeanShift,
		"mean_snr":             result.MeanSNR,
		"percent_not_filtered": result.PercentNotFiltered,
	})
	if result.PercentNotFiltered > notFilteredWarnPercent {
		rf.logger.Warn("Most lines not filtered, SNR below threshold", logging.Fields{
			"percent_not_filtered": result.PercentNotFiltered,
			"snr_threshold":        rf.cfg.SNRThreshold,
		})
	}

	return result, nil
}

// shiftFilter builds the ifftshifted master filter for a spectral shift of
// shiftHz: centred at +shiftHz/2 with bandwidth RBW-shiftHz. The slave
// filter is its mirror.
func (rf *RangeFilter) shiftFilter(freqAxis, inverseHamming []float64, shiftHz float64) (*windowing.FrequencyWindow, error) {
	rsr := rf.geometry.RangeSamplingRate
	bandwidth := rf.geometry.RangeBandwidth - shiftHz
	centred := windowing.Offset(freqAxis, 0.5*shiftHz)

	var weights []float64
	kind := "rectangular"
	if inverseHamming != nil {
		h, err := windowing.Hamming(centred, bandwidth, rsr, rf.cfg.AlphaHamming)
		if err != nil {
			return nil, err
		}
		if weights, err = windowing.Multiply(h, inverseHamming); err != nil {
			return nil, err
		}
		kind = "hamming"
	} else {
		weights = windowing.Rect(windowing.Scaled(centred, bandwidth))
	}

	spectral.IFFTShiftVector(weights)
	return windowing.NewFrequencyWindow(kind, weights), nil
}

// interferogramPower returns the range power spectrum of master.*conj(slave),
// oversampled by ovs first when ovs > 1.
func interferogramPower(master, slave *mat.CDense, ovs int) (*mat.Dense, error) {
	m, s := master, slave
	if ovs > 1 {
		var err error
		if m, err = spectral.OversampleRange(master, ovs); err != nil {
			return nil, err
		}
		if s, err = spectral.OversampleRange(slave, ovs); err != nil {
			return nil, err
		}
	}

	cint, err := common.MulConj(m, s)
	if err != nil {
		return nil, err
	}
	if err := spectral.FFT(cint, spectral.AxisRange); err != nil {
		return nil, err
	}
	return spectral.NewPowerSpectrum().ComputeMatrix(cint), nil
}

// weightCorrelation undoes the triangular bias of a finite correlation: at
// a shift of d bins only numPixels-d spectral samples overlap. Bins without
// overlap are zeroed.
func weightCorrelation(power *mat.Dense, numPixels int) {
	rows, fftLength := power.Dims()
	weights := make([]float64, fftLength)
	for k := range weights {
		d := min(k, fftLength-k)
		if d < numPixels {
			w := float64(numPixels) / float64(numPixels-d)
			weights[k] = w * w
		}
	}

	for i := 0; i < rows; i++ {
		row := power.RawRowView(i)
		for k := range row {
			row[k] *= weights[k]
		}
	}
}
