// Package scoring defines the source scorer contract and the signal
// families blended into the overall visibility score.
package scoring

import (
	"context"
	"math"

	"github.com/vizor-ai/vizor/internal/domain/model"
)

// Source names for the five scorer families.
const (
	SourceStructuredData = "structured_data"
	SourceZeroClick      = "zero_click"
	SourceUGC            = "ugc"
	SourceGeoTrust       = "geo_trust"
	SourceAIMention      = "ai_mention"
)

// Scorer produces one named 0-100 sub-score for a subject. Calls may
// block on upstream I/O and must honor ctx. Absence of a signal scores
// as zero; an error means the upstream call itself could not complete.
type Scorer interface {
	// Source returns the component name this scorer produces.
	Source() string

	// Score computes the component for the given subject.
	Score(ctx context.Context, subject string) (model.ScoreComponent, error)
}

// CheapSources lists the free scorer families invoked concurrently,
// in component order.
func CheapSources() []string {
	return []string{SourceStructuredData, SourceZeroClick, SourceUGC, SourceGeoTrust}
}

// AllSources lists every component in record order.
func AllSources() []string {
	return append(CheapSources(), SourceAIMention)
}

// Weights maps source names to their share of the overall blend.
type Weights map[string]float64

// DefaultWeights returns the reference blend.
func DefaultWeights() Weights {
	return Weights{
		SourceStructuredData: 0.10,
		SourceZeroClick:      0.20,
		SourceUGC:            0.20,
		SourceGeoTrust:       0.15,
		SourceAIMention:      0.35,
	}
}

// weightSumTolerance bounds float drift when validating weight sums.
const weightSumTolerance = 1e-9

// Validate checks that every source has a non-negative weight, no
// unknown sources appear, and the weights sum to 1.0.
func (w Weights) Validate() error {
	known := make(map[string]bool, len(AllSources()))
	for _, s := range AllSources() {
		known[s] = true
		if _, ok := w[s]; !ok {
			return NewWeightsError("missing weight for source " + s)
		}
	}
	sum := 0.0
	for source, weight := range w {
		if !known[source] {
			return NewWeightsError("unknown source " + source)
		}
		if weight < 0 {
			return NewWeightsError("negative weight for source " + source)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return NewWeightsError("weights must sum to 1.0")
	}
	return nil
}
