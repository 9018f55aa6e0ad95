package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/smed/internal/domain"
	"github.com/fyrsmithlabs/smed/internal/retrieval"
	"github.com/fyrsmithlabs/smed/internal/synthesis"
	"github.com/fyrsmithlabs/smed/internal/vectorstore"
)

func bundle(id domain.ID, topSim float32) retrieval.Bundle {
	b := retrieval.Bundle{Domain: domain.Domain{ID: id}}
	if topSim > 0 {
		b.Passages = []vectorstore.Passage{{Similarity: topSim}}
	}
	return b
}

func multiAnswer(contradiction bool) *synthesis.Result {
	return &synthesis.Result{
		Answers:              []synthesis.DomainAnswer{{}, {}},
		Fused:                true,
		ContradictionFlagged: contradiction,
	}
}

func TestEstimateBaseSignal(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		name    string
		bundles []retrieval.Bundle
		result  *synthesis.Result
		want    float64
	}{
		{name: "no bundles", want: 0.0},
		{
			name:    "single domain mean",
			bundles: []retrieval.Bundle{bundle("a", 0.8)},
			result:  &synthesis.Result{Answers: []synthesis.DomainAnswer{{}}},
			want:    0.8,
		},
		{
			name:    "empty bundle lowers mean",
			bundles: []retrieval.Bundle{bundle("a", 0.8), bundle("b", 0)},
			result:  &synthesis.Result{Answers: []synthesis.DomainAnswer{{}}},
			want:    0.4,
		},
		{
			name:    "degenerate all-zero",
			bundles: []retrieval.Bundle{bundle("a", 0), bundle("b", 0)},
			want:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Estimate(tt.bundles, tt.result)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestEstimateAgreementAndContradiction(t *testing.T) {
	e := New(DefaultConfig())
	bundles := []retrieval.Bundle{bundle("a", 0.8), bundle("b", 0.6)}

	agree := e.Estimate(bundles, multiAnswer(false))
	contradict := e.Estimate(bundles, multiAnswer(true))

	assert.InDelta(t, 0.8, agree, 0.0001)      // 0.7 mean + 0.1 bonus
	assert.InDelta(t, 0.45, contradict, 0.0001) // 0.7 mean - 0.25 penalty
	assert.Less(t, contradict, agree, "contradiction must score measurably lower")
}

func TestEstimateClamping(t *testing.T) {
	e := New(Config{AgreementBonus: 0.9, ContradictionPenalty: 2.0})
	bundles := []retrieval.Bundle{bundle("a", 0.9), bundle("b", 0.9)}

	assert.Equal(t, 1.0, e.Estimate(bundles, multiAnswer(false)))
	assert.Equal(t, 0.0, e.Estimate(bundles, multiAnswer(true)))
}

func TestEstimateNeverFails(t *testing.T) {
	e := New(DefaultConfig())

	// Nil result and partially populated bundles must still produce a
	// bounded numeric value.
	got := e.Estimate([]retrieval.Bundle{{}, bundle("a", 0.5)}, nil)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
}
