package aggregate

import (
	"time"

	"github.com/vizor-ai/vizor/internal/domain/scoring"
	"github.com/vizor-ai/vizor/pkg/logger"
)

// Default pipeline timeouts.
const (
	defaultCheapTimeout = 2 * time.Second
	defaultAITimeout    = 10 * time.Second
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWeights overrides the component blend weights.
func WithWeights(w scoring.Weights) Option {
	return func(a *Aggregator) {
		if w != nil {
			a.weights = w
		}
	}
}

// WithCoefficients overrides the estimate correlation coefficients.
func WithCoefficients(c Coefficients) Option {
	return func(a *Aggregator) {
		if c != nil {
			a.coefficients = c
		}
	}
}

// WithCheapTimeout bounds each cheap scorer call.
func WithCheapTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.cheapTimeout = d
		}
	}
}

// WithAITimeout bounds the AI-mention scorer call.
func WithAITimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.aiTimeout = d
		}
	}
}

// WithClock injects the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}
