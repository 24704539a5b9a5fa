package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	// ErrAllSourcesFailed means no scorer returned a usable value.
	ErrAllSourcesFailed = errors.New("all sources failed")

	// ErrEmptySubject means the subject normalized to nothing.
	ErrEmptySubject = errors.New("empty subject")
)
