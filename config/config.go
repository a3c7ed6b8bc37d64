// Package config provides the filter parameters and sensor geometry used by
// the InSAR filters, with YAML loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure. It matches
// common.ErrInvalidArgument under errors.Is.
var ErrInvalidConfig = fmt.Errorf("%w: configuration", common.ErrInvalidArgument)

// DopplerPolynomial holds fDC(x) = A0 + A1*x + A2*x^2 coefficients.
type DopplerPolynomial struct {
	A0 float64 `yaml:"a0"`
	A1 float64 `yaml:"a1"`
	A2 float64 `yaml:"a2"`
}

// SensorGeometry is the per-image acquisition description the filters need.
// It is read-only for the filters.
type SensorGeometry struct {
	PRF               float64           `yaml:"prf"`               // Hz
	AzimuthBandwidth  float64           `yaml:"azimuthBandwidth"`  // Hz
	RangeBandwidth    float64           `yaml:"rangeBandwidth"`    // Hz
	RangeSamplingRate float64           `yaml:"rangeSamplingRate"` // Hz
	Doppler           DopplerPolynomial `yaml:"doppler"`

	// PixLo..PixHi is the valid column window used to scale the Doppler axis.
	PixLo int `yaml:"pixLo"`
	PixHi int `yaml:"pixHi"`
}

// Pixels returns the width of the pixel window.
func (g SensorGeometry) Pixels() int {
	return g.PixHi - g.PixLo + 1
}

// RangeFilterConfig controls range spectral-shift filtering.
type RangeFilterConfig struct {
	// NLMean is the number of lines averaged for the power spectrum (odd).
	NLMean int `yaml:"nlMean"`

	// SNRThreshold below which a line reuses the previous shift.
	SNRThreshold float64 `yaml:"snrThreshold"`

	// AlphaHamming of the window already applied to the data; 1 disables.
	AlphaHamming float64 `yaml:"alphaHamming"`

	// OversampleFactor applied before forming the interferogram (power of two).
	OversampleFactor int `yaml:"oversampleFactor"`

	// WeightCorrelation de-biases the power spectrum for finite window length.
	WeightCorrelation bool `yaml:"weightCorrelation"`

	// BlockLines is the line block height used by FilterBuffer.
	BlockLines int `yaml:"blockLines"`
}

// AzimuthFilterConfig controls azimuth Doppler-centroid filtering.
type AzimuthFilterConfig struct {
	AlphaHamming float64 `yaml:"alphaHamming"`

	// BlockLines is the azimuth FFT length used by FilterBuffer.
	BlockLines int `yaml:"blockLines"`

	// Overlap lines discarded on each side of a block.
	Overlap int `yaml:"overlap"`
}

// GoldsteinConfig controls adaptive phase filtering.
type GoldsteinConfig struct {
	// Alpha is the exponent applied to the normalized amplitude (0 = no filtering).
	Alpha float64 `yaml:"alpha"`

	// BlockSize of the square FFT blocks (power of two).
	BlockSize int `yaml:"blockSize"`

	// Overlap pixels discarded on each side of a block.
	Overlap int `yaml:"overlap"`

	// SmoothHalfWidth N gives a (2N+1) box kernel; 0 disables smoothing.
	SmoothHalfWidth int `yaml:"smoothHalfWidth"`

	// SmoothKernel overrides SmoothHalfWidth when set; odd length.
	SmoothKernel []float64 `yaml:"smoothKernel,omitempty"`
}

// Kernel returns the 1-D smoothing kernel, normalized to unit sum, or nil
// when smoothing is disabled.
func (c GoldsteinConfig) Kernel() []float64 {
	raw := c.SmoothKernel
	if len(raw) == 0 {
		if c.SmoothHalfWidth <= 0 {
			return nil
		}
		raw = make([]float64, 2*c.SmoothHalfWidth+1)
		for i := range raw {
			raw[i] = 1
		}
	}

	sum := 0.0
	for _, v := range raw {
		sum += v
	}
	kernel := make([]float64, len(raw))
	for i, v := range raw {
		if sum != 0 {
			kernel[i] = v / sum
		} else {
			kernel[i] = v
		}
	}
	return kernel
}

// Config is the full filtering configuration.
type Config struct {
	Range     RangeFilterConfig   `yaml:"range"`
	Azimuth   AzimuthFilterConfig `yaml:"azimuth"`
	Goldstein GoldsteinConfig     `yaml:"goldstein"`

	Master SensorGeometry `yaml:"master"`
	Slave  SensorGeometry `yaml:"slave"`
}

// DefaultRangeFilterConfig returns the usual range filter settings
func DefaultRangeFilterConfig() RangeFilterConfig {
	return RangeFilterConfig{
		NLMean:            15,
		SNRThreshold:      5.0,
		AlphaHamming:      0.75,
		OversampleFactor:  2,
		WeightCorrelation: false,
		BlockLines:        128,
	}
}

// DefaultAzimuthFilterConfig returns the usual azimuth filter settings
func DefaultAzimuthFilterConfig() AzimuthFilterConfig {
	return AzimuthFilterConfig{
		AlphaHamming: 0.75,
		BlockLines:   1024,
		Overlap:      0,
	}
}

// DefaultGoldsteinConfig returns the usual Goldstein settings
func DefaultGoldsteinConfig() GoldsteinConfig {
	return GoldsteinConfig{
		Alpha:           0.2,
		BlockSize:       32,
		Overlap:         3,
		SmoothHalfWidth: 2,
	}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Range:     DefaultRangeFilterConfig(),
		Azimuth:   DefaultAzimuthFilterConfig(),
		Goldstein: DefaultGoldsteinConfig(),
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
