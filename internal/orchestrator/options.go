package orchestrator

import (
	"time"

	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/pkg/logger"
)

// Scheduling defaults.
const (
	defaultScheduleInterval = 10 * time.Second
	defaultMonitorInterval  = 30 * time.Second
	defaultHeartbeatTimeout = 5 * time.Minute
	defaultMaxRetries       = 3
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithScheduleInterval sets the period of the assignment pass.
func WithScheduleInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.scheduleInterval = d
		}
	}
}

// WithMonitorInterval sets the period of the heartbeat check.
func WithMonitorInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.monitorInterval = d
		}
	}
}

// WithHeartbeatTimeout sets how long a worker may stay silent before it
// is taken offline.
func WithHeartbeatTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.heartbeatTimeout = d
		}
	}
}

// WithMaxRetries sets the default retry ceiling for jobs that do not
// specify one.
func WithMaxRetries(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.defaultMaxRetries = n
		}
	}
}

// WithHandler installs an in-process executor for a job type.
func WithHandler(jobType model.JobType, h HandlerFunc) Option {
	return func(o *Orchestrator) {
		if h != nil {
			o.handlers[jobType] = h
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}
