package filters

import (
	"fmt"

	"github.com/RyanBlaney/sonido-insar/algorithms/blocks"
	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/RyanBlaney/sonido-insar/algorithms/spectral"
	"gonum.org/v1/gonum/mat"
)

// blockFunc filters one square block and returns a new block of the same
// shape.
type blockFunc func(block *mat.CDense) (*mat.CDense, error)

// processBuffer walks the pixels of cint in size x size blocks overlapping
// by overlap and assembles the filtered blocks into a new matrix. cint must
// have exactly size lines.
func processBuffer(cint *mat.CDense, size, overlap int, fn blockFunc) (*mat.CDense, error) {
	lines, pixels := cint.Dims()
	if lines != size {
		return nil, fmt.Errorf("%w: buffer has %d lines, block size is %d", common.ErrInvalidArgument, lines, size)
	}

	it, err := blocks.NewIterator(pixels, size, overlap)
	if err != nil {
		return nil, err
	}

	out := mat.NewCDense(lines, pixels, nil)
	for it.Next() {
		read, block, output := it.Step().PixelWindows(lines)

		b, err := blocks.Extract(cint, read)
		if err != nil {
			return nil, err
		}
		filtered, err := fn(b)
		if err != nil {
			return nil, fmt.Errorf("pixels %d-%d: %w", read.PixelLo, read.PixelHi, err)
		}
		if err := blocks.Insert(out, output, filtered, block); err != nil {
			return nil, err
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ConvolveBuffer convolves cint block by block with a kernel given by its
// 2-D spectrum. The blocks are square with the side of kernelFFT, which
// must also be the number of lines of cint.
func ConvolveBuffer(cint, kernelFFT *mat.CDense, overlap int) (*mat.CDense, error) {
	if cint == nil || cint.IsEmpty() || kernelFFT == nil || kernelFFT.IsEmpty() {
		return nil, fmt.Errorf("%w: empty operand", common.ErrInvalidArgument)
	}
	kr, kc := kernelFFT.Dims()
	if kr != kc {
		return nil, fmt.Errorf("%w: kernel spectrum %dx%d is not square", common.ErrInvalidDimension, kr, kc)
	}

	return processBuffer(cint, kr, overlap, func(block *mat.CDense) (*mat.CDense, error) {
		spectrum, err := spectral.FFT2(block)
		if err != nil {
			return nil, err
		}
		if err := common.MulInPlace(spectrum, kernelFFT); err != nil {
			return nil, err
		}
		return spectral.IFFT2(spectrum)
	})
}

// SpectralFilterBuffer multiplies the 2-D spectrum of every block of cint
// by filter2d, which is square, in FFT order and as tall as cint.
func SpectralFilterBuffer(cint *mat.CDense, filter2d *mat.Dense, overlap int) (*mat.CDense, error) {
	if cint == nil || cint.IsEmpty() || filter2d == nil || filter2d.IsEmpty() {
		return nil, fmt.Errorf("%w: empty operand", common.ErrInvalidArgument)
	}
	fr, fc := filter2d.Dims()
	if fr != fc {
		return nil, fmt.Errorf("%w: filter %dx%d is not square", common.ErrInvalidDimension, fr, fc)
	}

	return processBuffer(cint, fr, overlap, func(block *mat.CDense) (*mat.CDense, error) {
		spectrum, err := spectral.FFT2(block)
		if err != nil {
			return nil, err
		}
		if err := common.MulRealInPlace(spectrum, filter2d); err != nil {
			return nil, err
		}
		return spectral.IFFT2(spectrum)
	})
}
