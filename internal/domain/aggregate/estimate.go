package aggregate

import (
	"math"

	"github.com/vizor-ai/vizor/internal/domain/model"
	"github.com/vizor-ai/vizor/internal/domain/scoring"
)

// Coefficients is the linear combination of cheap components used to
// estimate the AI-mention component when neither a real invocation nor
// a pooled result is available. The values are tunable configuration,
// not a validated model.
type Coefficients map[string]float64

// DefaultCoefficients returns the reference correlation weights.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		scoring.SourceZeroClick: 0.35,
		scoring.SourceUGC:       0.40,
		scoring.SourceGeoTrust:  0.25,
	}
}

const coefficientSumTolerance = 1e-9

// Validate checks that coefficients reference cheap sources only and
// sum to 1.0.
func (c Coefficients) Validate() error {
	cheap := make(map[string]bool)
	for _, s := range scoring.CheapSources() {
		cheap[s] = true
	}
	sum := 0.0
	for source, coeff := range c {
		if !cheap[source] {
			return scoring.NewWeightsError("estimate coefficient for non-cheap source " + source)
		}
		if coeff < 0 {
			return scoring.NewWeightsError("negative estimate coefficient for " + source)
		}
		sum += coeff
	}
	if math.Abs(sum-1.0) > coefficientSumTolerance {
		return scoring.NewWeightsError("estimate coefficients must sum to 1.0")
	}
	return nil
}

// estimate derives the AI-mention component from the cheap components.
// Failed sources contribute zero, mirroring how they enter the overall
// blend.
func (a *Aggregator) estimate(cheap []model.ScoreComponent) model.ScoreComponent {
	value := 0.0
	for _, c := range cheap {
		if coeff, ok := a.coefficients[c.Source]; ok {
			value += coeff * c.Value
		}
	}
	value = math.Round(value)
	return model.ScoreComponent{
		Source:     scoring.SourceAIMention,
		Value:      value,
		Detail:     "estimated from correlated free signals",
		Confidence: estimatedConfidence,
	}
}

// estimatedConfidence is attached to statistically derived components.
const estimatedConfidence = 0.5
