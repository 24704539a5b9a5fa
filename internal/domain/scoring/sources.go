package scoring

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/pkg/metrics"
)

// Default simulation constants.
const (
	defaultMinLatency = 20 * time.Millisecond
	defaultMaxLatency = 120 * time.Millisecond
	aiMinLatency      = 250 * time.Millisecond
	aiMaxLatency      = 900 * time.Millisecond
	maxScoreValue     = 100
	defaultSeed       = 42
)

// SimulatedScorer implements Scorer against a modeled upstream: bounded
// latency, a deterministic per-subject baseline, and an optional failure
// rate. Production deployments swap in scorers backed by real services;
// the aggregator only sees the Scorer interface either way.
type SimulatedScorer struct {
	source     string
	baseMin    float64
	baseSpread float64
	confidence float64
	minLatency time.Duration
	maxLatency time.Duration
	failRate   float64
	detail     func(value float64) string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a simulated scorer for the given source.
func NewSimulated(source string, opts ...SourceOption) *SimulatedScorer {
	s := &SimulatedScorer{
		source:     source,
		baseMin:    50,
		baseSpread: 40,
		confidence: 0.85,
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		detail:     func(v float64) string { return fmt.Sprintf("signal strength %.0f", v) },
		rng:        rand.New(rand.NewSource(defaultSeed)), //nolint:gosec // reproducible simulation
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns the component name this scorer produces.
func (s *SimulatedScorer) Source() string { return s.source }

// Score computes the component for subject, honoring ctx.
func (s *SimulatedScorer) Score(ctx context.Context, subject string) (model.ScoreComponent, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScorerLatency(s.source, float64(time.Since(start).Milliseconds()))
	}()

	select {
	case <-ctx.Done():
		metrics.RecordScorerError(s.source, "timeout")
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return model.ScoreComponent{}, fmt.Errorf("%s: %w", s.source, ErrTimeout)
		}
		return model.ScoreComponent{}, fmt.Errorf("%s: %w", s.source, ctx.Err())
	case <-time.After(s.latency(subject)):
	}

	if s.failRate > 0 && s.roll() < s.failRate {
		metrics.RecordScorerError(s.source, "unavailable")
		return model.ScoreComponent{}, fmt.Errorf("%s: %w", s.source, ErrSourceUnavailable)
	}

	value := s.baseline(subject)
	return model.ScoreComponent{
		Source:     s.source,
		Value:      value,
		Detail:     s.detail(value),
		Confidence: s.confidence,
	}, nil
}

// baseline derives a stable 0-100 value from the subject so repeated
// scans of the same subject agree.
func (s *SimulatedScorer) baseline(subject string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(subject))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(s.source))
	frac := float64(h.Sum64()%1000) / 999.0
	return math.Max(0, math.Min(maxScoreValue, s.baseMin+frac*s.baseSpread))
}

func (s *SimulatedScorer) latency(subject string) time.Duration {
	if s.maxLatency <= s.minLatency {
		return s.minLatency
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	span := int64(s.maxLatency - s.minLatency)
	return s.minLatency + time.Duration(int64(h.Sum32())%span)
}

func (s *SimulatedScorer) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Family constructors tuned after the signal sources the service models.

// NewStructuredData scores schema/structured-data integrity.
func NewStructuredData(opts ...SourceOption) *SimulatedScorer {
	base := []SourceOption{
		withProfile(55, 40, 0.92),
		WithDetail(func(v float64) string { return fmt.Sprintf("schema coverage %.0f%%", v) }),
	}
	return NewSimulated(SourceStructuredData, append(base, opts...)...)
}

// NewZeroClick scores zero-click/answer-readiness signals.
func NewZeroClick(opts ...SourceOption) *SimulatedScorer {
	base := []SourceOption{
		withProfile(50, 45, 0.89),
		WithDetail(func(v float64) string { return fmt.Sprintf("answer readiness %.0f", v) }),
	}
	return NewSimulated(SourceZeroClick, append(base, opts...)...)
}

// NewUGC scores user-generated-content health.
func NewUGC(opts ...SourceOption) *SimulatedScorer {
	base := []SourceOption{
		withProfile(60, 35, 0.87),
		WithDetail(func(v float64) string { return fmt.Sprintf("review health %.0f", v) }),
	}
	return NewSimulated(SourceUGC, append(base, opts...)...)
}

// NewGeoTrust scores local-listing completeness and geo trust.
func NewGeoTrust(opts ...SourceOption) *SimulatedScorer {
	base := []SourceOption{
		withProfile(55, 40, 0.90),
		WithDetail(func(v float64) string { return fmt.Sprintf("listing completeness %.0f%%", v) }),
	}
	return NewSimulated(SourceGeoTrust, append(base, opts...)...)
}

// NewAIMention scores generative-assistant mention/citation testing.
// It is the slowest and the only scorer gated by the query budget.
func NewAIMention(opts ...SourceOption) *SimulatedScorer {
	base := []SourceOption{
		withProfile(40, 50, 0.87),
		WithLatencyRange(aiMinLatency, aiMaxLatency),
		WithDetail(func(v float64) string { return fmt.Sprintf("mention rate %.1f%%", v) }),
	}
	return NewSimulated(SourceAIMention, append(base, opts...)...)
}

// Func adapts a plain function to the Scorer interface.
type Func struct {
	Name string
	Fn   func(ctx context.Context, subject string) (model.ScoreComponent, error)
}

// Source returns the component name this scorer produces.
func (f Func) Source() string { return f.Name }

// Score invokes the wrapped function.
func (f Func) Score(ctx context.Context, subject string) (model.ScoreComponent, error) {
	return f.Fn(ctx, subject)
}
