package config

import "fmt"

// Validate checks the filter parameters. Geometry is only checked when it
// has been filled in (non-zero PRF or sampling rate).
func (c *Config) Validate() error {
	if err := c.Range.Validate(); err != nil {
		return err
	}
	if err := c.Azimuth.Validate(); err != nil {
		return err
	}
	if err := c.Goldstein.Validate(); err != nil {
		return err
	}
	for name, g := range map[string]SensorGeometry{"master": c.Master, "slave": c.Slave} {
		if g == (SensorGeometry{}) {
			continue
		}
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Validate checks the range filter parameters
func (c RangeFilterConfig) Validate() error {
	switch {
	case c.NLMean <= 0 || c.NLMean%2 == 0:
		return fmt.Errorf("%w: range nlMean %d must be odd and positive", ErrInvalidConfig, c.NLMean)
	case c.OversampleFactor <= 0 || c.OversampleFactor&(c.OversampleFactor-1) != 0:
		return fmt.Errorf("%w: range oversample factor %d must be a power of two", ErrInvalidConfig, c.OversampleFactor)
	case c.AlphaHamming < 0 || c.AlphaHamming > 1:
		return fmt.Errorf("%w: range alphaHamming %g outside [0,1]", ErrInvalidConfig, c.AlphaHamming)
	case c.SNRThreshold < 0:
		return fmt.Errorf("%w: range SNR threshold %g", ErrInvalidConfig, c.SNRThreshold)
	case c.BlockLines < c.NLMean:
		return fmt.Errorf("%w: range block of %d lines cannot hold nlMean %d", ErrInvalidConfig, c.BlockLines, c.NLMean)
	}
	return nil
}

// Validate checks the azimuth filter parameters
func (c AzimuthFilterConfig) Validate() error {
	switch {
	case c.AlphaHamming < 0 || c.AlphaHamming > 1:
		return fmt.Errorf("%w: azimuth alphaHamming %g outside [0,1]", ErrInvalidConfig, c.AlphaHamming)
	case c.Overlap < 0 || c.BlockLines <= 2*c.Overlap:
		return fmt.Errorf("%w: azimuth block of %d lines with overlap %d", ErrInvalidConfig, c.BlockLines, c.Overlap)
	}
	return nil
}

// Validate checks the Goldstein parameters
func (c GoldsteinConfig) Validate() error {
	switch {
	case c.Alpha < 0 || c.Alpha > 1:
		return fmt.Errorf("%w: goldstein alpha %g outside [0,1]", ErrInvalidConfig, c.Alpha)
	case c.BlockSize <= 0 || c.BlockSize&(c.BlockSize-1) != 0:
		return fmt.Errorf("%w: goldstein block size %d must be a power of two", ErrInvalidConfig, c.BlockSize)
	case c.Overlap < 0 || c.BlockSize <= 2*c.Overlap:
		return fmt.Errorf("%w: goldstein block size %d with overlap %d", ErrInvalidConfig, c.BlockSize, c.Overlap)
	case c.SmoothHalfWidth < 0:
		return fmt.Errorf("%w: negative smoothing half-width %d", ErrInvalidConfig, c.SmoothHalfWidth)
	case len(c.SmoothKernel) > 0 && len(c.SmoothKernel)%2 == 0:
		return fmt.Errorf("%w: smoothing kernel length %d must be odd", ErrInvalidConfig, len(c.SmoothKernel))
	case len(c.SmoothKernel) > c.BlockSize || 2*c.SmoothHalfWidth+1 > c.BlockSize:
		return fmt.Errorf("%w: smoothing kernel wider than block size %d", ErrInvalidConfig, c.BlockSize)
	}
	return nil
}

// Validate checks a sensor geometry
func (g SensorGeometry) Validate() error {
	switch {
	case g.PRF <= 0:
		return fmt.Errorf("%w: PRF %g", ErrInvalidConfig, g.PRF)
	case g.AzimuthBandwidth <= 0 || g.AzimuthBandwidth > g.PRF:
		return fmt.Errorf("%w: azimuth bandwidth %g for PRF %g", ErrInvalidConfig, g.AzimuthBandwidth, g.PRF)
	case g.RangeSamplingRate <= 0:
		return fmt.Errorf("%w: range sampling rate %g", ErrInvalidConfig, g.RangeSamplingRate)
	case g.RangeBandwidth <= 0 || g.RangeBandwidth > g.RangeSamplingRate:
		return fmt.Errorf("%w: range bandwidth %g for sampling rate %g", ErrInvalidConfig, g.RangeBandwidth, g.RangeSamplingRate)
	case g.PixHi < g.PixLo:
		return fmt.Errorf("%w: pixel window [%d, %d]", ErrInvalidConfig, g.PixLo, g.PixHi)
	}
	return nil
}
