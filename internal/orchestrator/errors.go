package orchestrator

import "errors"

// Sentinel kinds for orchestrator errors.
var (
	// ErrJobNotFound means the job id is not in the registry.
	ErrJobNotFound = errors.New("job not found")

	// ErrWorkerNotFound means the worker id is not in the registry.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrInvalidJobSpec means the submitted job failed validation.
	ErrInvalidJobSpec = errors.New("invalid job spec")

	// ErrInvalidWorkerSpec means the worker registration failed validation.
	ErrInvalidWorkerSpec = errors.New("invalid worker spec")

	// ErrMaxRetriesExceeded is returned by CompleteJob when a reported
	// failure exhausts the job's retry ceiling. The outcome is still
	// recorded; the sentinel tells the reporter the job is terminal.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
