// Package blocks schedules overlap-save processing of long matrix axes.
//
// An Iterator walks an axis of the given length in blocks of blockSize
// samples. Consecutive blocks share 2*overlap samples; only the interior of
// each block is written to the output, except for the first block (which
// keeps its leading margin) and the last block (which keeps its trailing
// margin). The last read is pulled back so it still spans blockSize
// samples, rereading already processed input instead of running past the
// end of the axis.
//
//	it, err := blocks.NewIterator(npixels, 256, 32)
//	for it.Next() {
//		step := it.Step()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
package blocks

import (
	"fmt"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
)

// Span is an inclusive index range along one axis.
type Span struct {
	Lo, Hi int
}

// Len returns the number of indices covered.
func (s Span) Len() int { return s.Hi - s.Lo + 1 }

// Step is one block of an overlap-save traversal.
type Step struct {
	Read        Span // indices of the input to read
	WriteBlock  Span // indices inside the block to keep
	WriteOutput Span // destination indices in the output
	First       bool
	Last        bool
}

// PixelWindows projects the step onto the pixel axis of a matrix with the
// given number of lines. It returns the read, write-in-block and
// write-in-output windows.
func (s Step) PixelWindows(lines int) (read, block, output Window) {
	read = Window{0, lines - 1, s.Read.Lo, s.Read.Hi}
	block = Window{0, lines - 1, s.WriteBlock.Lo, s.WriteBlock.Hi}
	output = Window{0, lines - 1, s.WriteOutput.Lo, s.WriteOutput.Hi}
	return read, block, output
}

// LineWindows projects the step onto the line axis of a matrix with the
// given number of pixels.
func (s Step) LineWindows(pixels int) (read, block, output Window) {
	read = Window{s.Read.Lo, s.Read.Hi, 0, pixels - 1}
	block = Window{s.WriteBlock.Lo, s.WriteBlock.Hi, 0, pixels - 1}
	output = Window{s.WriteOutput.Lo, s.WriteOutput.Hi, 0, pixels - 1}
	return read, block, output
}

type state int

const (
	iterating state = iota
	done
)

// Iterator is a two-state (iterating, done) overlap-save scheduler driven
// by a single cursor: the first output index not yet written.
type Iterator struct {
	length    int
	blockSize int
	overlap   int

	state  state
	cursor int
	readLo int
	first  bool
	step   Step
	err    error
}

// NewIterator validates the geometry and returns an iterator positioned
// before the first block.
func NewIterator(length, blockSize, overlap int) (*Iterator, error) {
	if overlap < 0 {
		return nil, fmt.Errorf("%w: negative overlap %d", common.ErrInvalidArgument, overlap)
	}
	if blockSize <= 2*overlap {
		return nil, fmt.Errorf("%w: block size %d must exceed twice the overlap %d", common.ErrInvalidArgument, blockSize, overlap)
	}
	if length < blockSize {
		return nil, fmt.Errorf("%w: axis length %d shorter than block size %d", common.ErrInvalidArgument, length, blockSize)
	}

	return &Iterator{
		length:    length,
		blockSize: blockSize,
		overlap:   overlap,
		first:     true,
	}, nil
}

// Next advances to the following block. It returns false once the last
// block has been consumed or an inconsistency was detected.
func (it *Iterator) Next() bool {
	if it.state == done || it.err != nil {
		return false
	}

	read := Span{it.readLo, it.readLo + it.blockSize - 1}
	block := Span{it.overlap, it.blockSize - 1 - it.overlap}
	if it.first {
		block.Lo = 0
	}

	last := read.Hi >= it.length-1
	if last {
		pullBack := read.Hi - (it.length - 1)
		read = Span{read.Lo - pullBack, it.length - 1}
		block = Span{it.blockSize - (it.length - it.cursor), it.blockSize - 1}
	}
	output := Span{it.cursor, it.cursor + block.Len() - 1}

	if err := it.check(read, block, output, last); err != nil {
		it.err = err
		it.state = done
		return false
	}

	it.step = Step{
		Read:        read,
		WriteBlock:  block,
		WriteOutput: output,
		First:       it.first,
		Last:        last,
	}

	it.first = false
	it.cursor = output.Hi + 1
	it.readLo += it.blockSize - 2*it.overlap
	if last {
		it.state = done
	}
	return true
}

func (it *Iterator) check(read, block, output Span, last bool) error {
	switch {
	case read.Len() != it.blockSize || read.Lo < 0:
		return fmt.Errorf("%w: read span %v for block size %d", common.ErrDimensionMismatch, read, it.blockSize)
	case block.Lo < 0 || block.Hi >= it.blockSize || block.Len() <= 0:
		return fmt.Errorf("%w: block span %v for block size %d", common.ErrDimensionMismatch, block, it.blockSize)
	case output.Len() != block.Len():
		return fmt.Errorf("%w: output span %v vs block span %v", common.ErrDimensionMismatch, output, block)
	case output.Lo != read.Lo+block.Lo:
		return fmt.Errorf("%w: output span %v not aligned with read span %v", common.ErrDimensionMismatch, output, read)
	case last && output.Hi != it.length-1:
		return fmt.Errorf("%w: last block ends at %d, axis ends at %d", common.ErrDimensionMismatch, output.Hi, it.length-1)
	}
	return nil
}

// Step returns the block produced by the latest call to Next.
func (it *Iterator) Step() Step { return it.step }

// Err returns the first inconsistency met, if any.
func (it *Iterator) Err() error { return it.err }

// Done reports whether the traversal has finished.
func (it *Iterator) Done() bool { return it.state == done }

// Steps drains a fresh iterator for the given geometry.
func Steps(length, blockSize, overlap int) ([]Step, error) {
	it, err := NewIterator(length, blockSize, overlap)
	if err != nil {
		return nil, err
	}

	var steps []Step
	for it.Next() {
		steps = append(steps, it.Step())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}
