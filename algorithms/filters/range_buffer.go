package filters

import (
	"fmt"

	"github.com/RyanBlaney/sonido-insar/algorithms/blocks"
	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"github.com/RyanBlaney/sonido-insar/logging"
	"gonum.org/v1/gonum/mat"
)

// FilterBuffer range filters a master/slave pair taller than one block.
// It walks the lines in blocks of cfg.BlockLines overlapping by
// (nlMean-1)/2, so every written line except the outer margins of the
// first and last block had a full walking mean. master and slave are
// overwritten with the result.
func (rf *RangeFilter) FilterBuffer(master, slave *mat.CDense) (RangeResult, error) {
	if master == nil || slave == nil || !common.SameShape(master, slave) {
		return RangeResult{}, fmt.Errorf("%w: master and slave must share a shape", common.ErrInvalidArgument)
	}
	numLines, numPixels := master.Dims()
	margin := (rf.cfg.NLMean - 1) / 2

	blockLines := min(rf.cfg.BlockLines, numLines)
	it, err := blocks.NewIterator(numLines, blockLines, margin)
	if err != nil {
		return RangeResult{}, err
	}

	outMaster := mat.NewCDense(numLines, numPixels, nil)
	outSlave := mat.NewCDense(numLines, numPixels, nil)
	total := RangeResult{}

	for it.Next() {
		step := it.Step()
		read, block, output := step.LineWindows(numPixels)

		m, err := blocks.Extract(master, read)
		if err != nil {
			return RangeResult{}, err
		}
		s, err := blocks.Extract(slave, read)
		if err != nil {
			return RangeResult{}, err
		}

		res, err := rf.FilterBlock(m, s)
		if err != nil {
			return RangeResult{}, err
		}

		if err := blocks.Insert(outMaster, output, m, block); err != nil {
			return RangeResult{}, err
		}
		if err := blocks.Insert(outSlave, output, s, block); err != nil {
			return RangeResult{}, err
		}

		// keep only the estimates of lines that were written
		for j := range res.LineShifts {
			line := margin + j
			if line < step.WriteBlock.Lo || line > step.WriteBlock.Hi {
				continue
			}
			total.LineShifts = append(total.LineShifts, res.LineShifts[j])
			total.LineSNR = append(total.LineSNR, res.LineSNR[j])
			total.LineFiltered = append(total.LineFiltered, res.LineFiltered[j])
			if !res.LineFiltered[j] {
				total.NotFiltered++
			}
		}
	}
	if err := it.Err(); err != nil {
		return RangeResult{}, err
	}

	if err := common.CopyInto(master, outMaster); err != nil {
		return RangeResult{}, err
	}
	if err := common.CopyInto(slave, outSlave); err != nil {
		return RangeResult{}, err
	}

	total.Lines = len(total.LineShifts)
	total.MeanShift = common.Mean(total.LineShifts)
	total.MeanSNR = common.Mean(total.LineSNR)
	if total.Lines > 0 {
		total.PercentNotFiltered = 100 * float64(total.NotFiltered) / float64(total.Lines)
	}

	rf.logger.Info("Range buffer filtered", logging.Fields{
		"lines":                numLines,
		"estimated_lines":      total.Lines,
		"mean_shift":           total.MeanShift,
		"mean_snr":             total.MeanSNR,
		"percent_not_filtered": total.PercentNotFiltered,
	})
	return total, nil
}
