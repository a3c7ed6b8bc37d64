package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// ArgMax returns the index and value of the largest element.
// Ties resolve to the lowest index.
func ArgMax(data []float64) (int, float64) {
	if len(data) == 0 {
		return -1, math.NaN()
	}
	idx := floats.MaxIdx(data)
	return idx, data[idx]
}

// Sum adds all elements using gonum
func Sum(data []float64) float64 {
	return floats.Sum(data)
}

// IsPowerOfTwo checks if n is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

// IsOdd reports whether n is odd (negative values included)
func IsOdd(n int) bool {
	return n%2 != 0
}
