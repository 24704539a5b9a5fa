package scoring

import "time"

// SourceOption applies a configuration option to a SimulatedScorer.
type SourceOption func(*SimulatedScorer)

// WithLatencyRange sets the simulated upstream latency bounds.
func WithLatencyRange(minLatency, maxLatency time.Duration) SourceOption {
	return func(s *SimulatedScorer) {
		if minLatency > 0 && maxLatency > minLatency {
			s.minLatency = minLatency
			s.maxLatency = maxLatency
		}
	}
}

// WithFailureRate sets the probability of a SourceUnavailable failure.
func WithFailureRate(rate float64) SourceOption {
	return func(s *SimulatedScorer) {
		if rate >= 0 && rate <= 1 {
			s.failRate = rate
		}
	}
}

// WithConfidence sets the confidence attached to produced components.
func WithConfidence(confidence float64) SourceOption {
	return func(s *SimulatedScorer) {
		if confidence > 0 && confidence <= 1 {
			s.confidence = confidence
		}
	}
}

// WithDetail sets the detail formatter for produced components.
func WithDetail(detail func(value float64) string) SourceOption {
	return func(s *SimulatedScorer) {
		if detail != nil {
			s.detail = detail
		}
	}
}

// withProfile tunes the deterministic baseline band and confidence.
func withProfile(baseMin, baseSpread, confidence float64) SourceOption {
	return func(s *SimulatedScorer) {
		s.baseMin = baseMin
		s.baseSpread = baseSpread
		s.confidence = confidence
	}
}
