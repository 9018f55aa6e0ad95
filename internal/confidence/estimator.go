// Package confidence derives a scalar confidence score from retrieval and
// synthesis signals.
package confidence

import (
	"github.com/fyrsmithlabs/smed/internal/retrieval"
	"github.com/fyrsmithlabs/smed/internal/synthesis"
)

// Config tunes the scoring signals. The agreement/contradiction weights are
// deployment tunables, not fixed constants.
type Config struct {
	// AgreementBonus is added when multiple domains answered and the
	// fusion flagged no contradiction.
	AgreementBonus float64

	// ContradictionPenalty is subtracted when the fusion flagged a
	// contradiction between domain answers.
	ContradictionPenalty float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		AgreementBonus:       0.1,
		ContradictionPenalty: 0.25,
	}
}

// Estimator computes confidence scores. It never fails: any input produces
// a value in [0.0, 1.0].
type Estimator struct {
	config Config
}

// New creates an Estimator.
func New(config Config) *Estimator {
	return &Estimator{config: config}
}

// Estimate scores one query's outcome.
//
// The base signal is the mean of each consulted domain's top passage
// similarity; empty or unavailable bundles contribute 0, pulling the mean
// down to reflect reduced evidentiary support. When multiple domains
// contributed answers, cross-domain agreement adds a bonus and a flagged
// contradiction subtracts a penalty.
func (e *Estimator) Estimate(bundles []retrieval.Bundle, result *synthesis.Result) float64 {
	if len(bundles) == 0 {
		return 0.0
	}

	var sum float64
	for _, b := range bundles {
		sum += float64(b.TopSimilarity())
	}
	score := sum / float64(len(bundles))

	if result != nil && len(result.Answers) > 1 {
		if result.ContradictionFlagged {
			score -= e.config.ContradictionPenalty
		} else {
			score += e.config.AgreementBonus
		}
	}

	return clamp(score)
}

// clamp bounds score to [0.0, 1.0].
func clamp(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
