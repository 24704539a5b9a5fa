package service

import (
	"time"

	"github.com/vizor-ai/vizor/internal/domain/aggregate"
	"github.com/vizor-ai/vizor/internal/domain/scoring"
	"github.com/vizor-ai/vizor/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWeights sets the score blend weights.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		if w != nil {
			s.weights = w
		}
	}
}

// WithCoefficients sets the estimate correlation coefficients.
func WithCoefficients(c aggregate.Coefficients) Option {
	return func(s *Service) {
		if c != nil {
			s.coefficients = c
		}
	}
}

// WithBudgetCeiling caps AI invocations per UTC day.
func WithBudgetCeiling(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.budgetCeiling = n
		}
	}
}

// WithResultTTL bounds result cache freshness.
func WithResultTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.resultTTL = d
		}
	}
}

// WithPoolTTL bounds pooled component freshness.
func WithPoolTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.poolTTL = d
		}
	}
}

// WithCacheCapacity bounds entries per cache store.
func WithCacheCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheCapacity = n
		}
	}
}

// WithScheduleInterval sets the orchestrator assignment period.
func WithScheduleInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.scheduleInterval = d
		}
	}
}

// WithMonitorInterval sets the orchestrator heartbeat-check period.
func WithMonitorInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.monitorInterval = d
		}
	}
}

// WithHeartbeatTimeout sets the worker liveness deadline.
func WithHeartbeatTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.heartbeatTimeout = d
		}
	}
}

// WithMaxRetries sets the default retry ceiling for jobs.
func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithWorkerCount sets how many in-process workers register at startup.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
