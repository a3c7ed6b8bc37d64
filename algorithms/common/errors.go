package common

import "errors"

// Sentinel errors shared by every filtering package. Call sites wrap them
// with fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	// ErrInvalidArgument reports caller misconfiguration: even nlMean,
	// non power-of-two lengths, bad bandwidths or scales. Never retried.
	ErrInvalidArgument = errors.New("insar: invalid argument")

	// ErrInvalidDimension reports a matrix or vector whose shape does not
	// fit the requested transform (empty input, unknown axis, length mismatch).
	ErrInvalidDimension = errors.New("insar: invalid dimension")

	// ErrDimensionMismatch reports inconsistent window or block arithmetic.
	// It signals a scheduling bug and must not be swallowed.
	ErrDimensionMismatch = errors.New("insar: dimension mismatch")
)
