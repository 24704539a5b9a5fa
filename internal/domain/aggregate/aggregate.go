// Package aggregate implements the score aggregation pipeline: cached
// lookup, concurrent fan-out over the cheap source scorers, the budget
// decision for the AI-mention scorer, and the weighted blend into a
// ScoreRecord.
package aggregate

import (
	"context"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vizor-ai/vizor/internal/adapters/cache"
	"github.com/vizor-ai/vizor/internal/domain/budget"
	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/internal/domain/scoring"
	"github.com/vizor-ai/vizor/pkg/logger"
	"github.com/vizor-ai/vizor/pkg/metrics"
)

// Aggregator fans out to the source scorers and combines their
// components into a ScoreRecord. It owns no state beyond what it writes
// through the cache stores.
type Aggregator struct {
	cheap    []scoring.Scorer
	ai       scoring.Scorer
	governor budget.Governor
	records  cache.Store[model.ScoreRecord]
	pool     cache.Store[model.ScoreComponent]

	weights      scoring.Weights
	coefficients Coefficients
	cheapTimeout time.Duration
	aiTimeout    time.Duration
	now          func() time.Time
	logger       logger.Logger
}

// New creates an Aggregator over the supplied scorers and stores. The
// scorer set is fixed at construction; weights and estimate
// coefficients are validated here.
func New(
	cheap []scoring.Scorer,
	ai scoring.Scorer,
	governor budget.Governor,
	records cache.Store[model.ScoreRecord],
	pool cache.Store[model.ScoreComponent],
	opts ...Option,
) (*Aggregator, error) {
	a := &Aggregator{
		cheap:        cheap,
		ai:           ai,
		governor:     governor,
		records:      records,
		pool:         pool,
		weights:      scoring.DefaultWeights(),
		coefficients: DefaultCoefficients(),
		cheapTimeout: defaultCheapTimeout,
		aiTimeout:    defaultAITimeout,
		now:          time.Now,
		logger:       logger.Get().Named("aggregate"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.weights.Validate(); err != nil {
		return nil, err
	}
	if err := a.coefficients.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// ComputeScore returns the visibility record for subject, consulting
// the result cache first and writing through it afterwards.
func (a *Aggregator) ComputeScore(ctx context.Context, subject string) (model.ScoreRecord, error) {
	return a.compute(ctx, subject, false)
}

// Recompute bypasses the result cache, forcing a fresh aggregation.
// The budget decision still applies.
func (a *Aggregator) Recompute(ctx context.Context, subject string) (model.ScoreRecord, error) {
	return a.compute(ctx, subject, true)
}

func (a *Aggregator) compute(ctx context.Context, subject string, force bool) (model.ScoreRecord, error) {
	subject = Normalize(subject)
	if subject == "" {
		return model.ScoreRecord{}, ErrEmptySubject
	}

	if !force {
		if rec, ok := a.records.Get(ctx, subject); ok {
			return rec, nil
		}
	}

	cheap := a.fanOut(ctx, subject)

	aiComp, provenance := a.resolveAIComponent(ctx, subject, cheap)

	succeeded := 0
	for _, c := range cheap {
		if !c.Failed {
			succeeded++
		}
	}
	if succeeded == 0 && provenance == model.ProvenanceEstimated {
		// Nothing was measured and the estimate would be built on zeros.
		metrics.RecordScoreFailure()
		return model.ScoreRecord{}, ErrAllSourcesFailed
	}
	measured := succeeded
	if provenance != model.ProvenanceEstimated {
		measured++
	}

	components := append(cheap, aiComp)
	overall := 0.0
	for _, c := range components {
		overall += a.weights[c.Source] * c.Value
	}

	rec := model.ScoreRecord{
		Subject:    subject,
		Components: components,
		Overall:    int(math.Round(overall)),
		Confidence: float64(measured) / float64(len(components)),
		Provenance: provenance,
		ComputedAt: a.now(),
	}
	a.records.Set(ctx, subject, rec)
	metrics.RecordScoreComputation(string(provenance))
	return rec, nil
}

// fanOut invokes every cheap scorer concurrently and absorbs individual
// failures: a failed source contributes a zero-valued component flagged
// Failed, never an error for the whole computation.
func (a *Aggregator) fanOut(ctx context.Context, subject string) []model.ScoreComponent {
	results := make([]model.ScoreComponent, len(a.cheap))
	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range a.cheap {
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(gctx, a.cheapTimeout)
			defer cancel()
			comp, err := sc.Score(tctx, subject)
			if err != nil {
				a.logger.Warn(ctx, "source scorer failed",
					logger.String("source", sc.Source()),
					logger.String("subject", subject),
					logger.Error(err),
				)
				results[i] = model.ScoreComponent{Source: sc.Source(), Failed: true}
				return nil
			}
			results[i] = comp
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// resolveAIComponent runs the budget decision: real invocation when a
// slot is granted, otherwise a pooled result, otherwise an estimate from
// the cheap components. The expensive call is deliberately sequenced
// after the fan-out so short-circuits never spend budget.
func (a *Aggregator) resolveAIComponent(ctx context.Context, subject string, cheap []model.ScoreComponent) (model.ScoreComponent, model.Provenance) {
	if a.governor.TryReserve(ctx) {
		tctx, cancel := context.WithTimeout(ctx, a.aiTimeout)
		comp, err := a.ai.Score(tctx, subject)
		cancel()
		if err == nil {
			a.pool.Set(ctx, subject, comp)
			return comp, model.ProvenanceComputed
		}
		// Reserved slot stays spent; fall through like a denial.
		a.logger.Warn(ctx, "ai scorer failed after reservation",
			logger.String("subject", subject),
			logger.Error(err),
		)
	}

	if comp, ok := a.pool.Get(ctx, subject); ok {
		return comp, model.ProvenancePooled
	}

	return a.estimate(cheap), model.ProvenanceEstimated
}

// Normalize canonicalizes a subject identifier: lowercase, no scheme,
// no leading www, no path.
func Normalize(subject string) string {
	s := strings.ToLower(strings.TrimSpace(subject))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}
