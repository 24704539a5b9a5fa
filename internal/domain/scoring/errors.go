package scoring

import (
	"errors"
	"fmt"
)

// Sentinel kinds for scorer errors.
var (
	// ErrSourceUnavailable means the scorer could not reach its upstream.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrTimeout means the upstream call exceeded its time bound.
	ErrTimeout = errors.New("source timed out")

	// ErrInvalidWeights means a weight set failed validation.
	ErrInvalidWeights = errors.New("invalid weights")
)

// NewWeightsError wraps ErrInvalidWeights with a reason.
func NewWeightsError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidWeights, reason)
}
