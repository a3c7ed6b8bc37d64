// Package doppler evaluates Doppler centroid polynomials over range pixels.
package doppler

import (
	"fmt"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/RyanBlaney/sonido-insar/config"
)

// Axis evaluates fDC(x) = a0 + a1*x + a2*x^2 for every element of x.
func Axis(a0, a1, a2 float64, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = a0 + a1*v + a2*v*v
	}
	return out
}

// DefineAxis builds the polynomial argument for pixels pixlo..pixhi:
// (i - pixlo - 1) / (scale/2). scale is the two-way range sampling rate,
// so scale/2 converts pixel counts into range time.
func DefineAxis(pixlo, pixhi int, scale float64) ([]float64, error) {
	if pixhi < pixlo {
		return nil, fmt.Errorf("%w: pixel window [%d, %d]", common.ErrInvalidArgument, pixlo, pixhi)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%w: axis scale %g", common.ErrInvalidArgument, scale)
	}

	half := scale / 2
	x := make([]float64, pixhi-pixlo+1)
	for i := pixlo; i <= pixhi; i++ {
		x[i-pixlo] = float64(i-pixlo-1) / half
	}
	return x, nil
}

// Centroids returns the Doppler centroid of every pixel in the geometry's
// pixel window.
func Centroids(g config.SensorGeometry) ([]float64, error) {
	x, err := DefineAxis(g.PixLo, g.PixHi, 2*g.RangeSamplingRate)
	if err != nil {
		return nil, err
	}
	return Axis(g.Doppler.A0, g.Doppler.A1, g.Doppler.A2, x), nil
}
