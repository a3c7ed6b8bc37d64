package filters

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-insar/algorithms/common"
	"gonum.org/v1/gonum/mat"
)

// workerCount picks the pool size for n independent tiles.
func workerCount(n int) int {
	numCPU := runtime.NumCPU()

	// small batches don't need the whole machine
	if n < 8 {
		return max(1, min(numCPU/2, n))
	}
	return min(numCPU, n)
}

// runBatch calls fn for every index in [0, n) on a worker pool and returns
// the results in index order. The first error by index is returned.
func runBatch[T any](n int, fn func(i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	errs := make([]error, n)

	jobs := make(chan int, n)
	var wg sync.WaitGroup

	for w, workers := 0, workerCount(n); w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = fn(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
	}
	return results, nil
}

// FilterBatch runs FilterBuffer over independent interferogram tiles in
// parallel. Every tile must own its storage; results keep the tile order.
func (gf *GoldsteinFilter) FilterBatch(tiles []*mat.CDense) ([]*mat.CDense, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: no tiles", common.ErrInvalidArgument)
	}
	return runBatch(len(tiles), func(i int) (*mat.CDense, error) {
		return gf.FilterBuffer(tiles[i])
	})
}

// FilterBatch runs FilterBuffer over independent master/slave tile pairs in
// parallel, filtering every pair in place.
func (rf *RangeFilter) FilterBatch(masters, slaves []*mat.CDense) ([]RangeResult, error) {
	if len(masters) == 0 || len(masters) != len(slaves) {
		return nil, fmt.Errorf("%w: %d master tiles, %d slave tiles", common.ErrInvalidArgument, len(masters), len(slaves))
	}
	return runBatch(len(masters), func(i int) (RangeResult, error) {
		return rf.FilterBuffer(masters[i], slaves[i])
	})
}
