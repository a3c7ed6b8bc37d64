package blocks

import (
	"fmt"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"gonum.org/v1/gonum/mat"
)

// Window is an inclusive rectangle of lines and pixels. It only carries
// indices; the coordinate system (input, block or output) is implied by
// where it came from.
type Window struct {
	LineLo, LineHi   int
	PixelLo, PixelHi int
}

// Lines returns the number of lines covered.
func (w Window) Lines() int { return w.LineHi - w.LineLo + 1 }

// Pixels returns the number of pixels covered.
func (w Window) Pixels() int { return w.PixelHi - w.PixelLo + 1 }

// Contains reports whether w lies inside a rows x cols matrix.
func (w Window) Contains(rows, cols int) bool {
	return w.LineLo >= 0 && w.PixelLo >= 0 &&
		w.LineHi < rows && w.PixelHi < cols &&
		w.LineLo <= w.LineHi && w.PixelLo <= w.PixelHi
}

func (w Window) String() string {
	return fmt.Sprintf("[%d:%d, %d:%d]", w.LineLo, w.LineHi, w.PixelLo, w.PixelHi)
}

// Extract copies the part of m covered by w.
func Extract(m *mat.CDense, w Window) (*mat.CDense, error) {
	rows, cols := m.Dims()
	if !w.Contains(rows, cols) {
		return nil, fmt.Errorf("%w: window %s outside %dx%d matrix", common.ErrDimensionMismatch, w, rows, cols)
	}

	out := mat.NewCDense(w.Lines(), w.Pixels(), nil)
	for i := 0; i < w.Lines(); i++ {
		src := common.Row(m, w.LineLo+i)
		copy(common.Row(out, i), src[w.PixelLo:w.PixelHi+1])
	}
	return out, nil
}

// Insert copies src[srcWin] into dst[dstWin]. Both windows must have the
// same size.
func Insert(dst *mat.CDense, dstWin Window, src *mat.CDense, srcWin Window) error {
	if dstWin.Lines() != srcWin.Lines() || dstWin.Pixels() != srcWin.Pixels() {
		return fmt.Errorf("%w: cannot write %s into %s", common.ErrDimensionMismatch, srcWin, dstWin)
	}
	dr, dc := dst.Dims()
	sr, sc := src.Dims()
	if !dstWin.Contains(dr, dc) || !srcWin.Contains(sr, sc) {
		return fmt.Errorf("%w: window %s/%s outside matrix", common.ErrDimensionMismatch, dstWin, srcWin)
	}

	for i := 0; i < srcWin.Lines(); i++ {
		s := common.Row(src, srcWin.LineLo+i)
		d := common.Row(dst, dstWin.LineLo+i)
		copy(d[dstWin.PixelLo:dstWin.PixelHi+1], s[srcWin.PixelLo:srcWin.PixelHi+1])
	}
	return nil
}
