package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/smed/internal/domain"
	"github.com/fyrsmithlabs/smed/internal/vectorstore"
)

type fakeEmbedder struct {
	fail bool
}

func (f *fakeEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	if f.fail {
		return nil, errors.New("embedder down")
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) Close() error { return nil }

// fakeIndex serves canned passages per collection; collections listed in
// down return an error.
type fakeIndex struct {
	passages map[string][]vectorstore.Passage
	down     map[string]bool
}

func (f *fakeIndex) TopK(_ context.Context, collection string, _ []float32, k int) ([]vectorstore.Passage, error) {
	if f.down[collection] {
		return nil, vectorstore.ErrIndexUnavailable
	}
	got := f.passages[collection]
	if len(got) > k {
		got = got[:k]
	}
	return got, nil
}

func (f *fakeIndex) Upsert(context.Context, string, []vectorstore.Document) error { return nil }
func (f *fakeIndex) Close() error                                                 { return nil }

var (
	trade = domain.Domain{ID: "global_trade_finance", Label: "Global Trade Finance"}
	risk  = domain.Domain{ID: "risk_management", Label: "Risk Management"}
)

func TestRetrieveBuildsOrderedBundles(t *testing.T) {
	index := &fakeIndex{passages: map[string][]vectorstore.Passage{
		"knowledge_global_trade_finance": {
			{DocumentID: "d1", Content: "low", Similarity: 0.4},
			{DocumentID: "d2", Content: "high", Similarity: 0.9},
			{DocumentID: "d3", Content: "mid", Similarity: 0.7},
		},
		"knowledge_risk_management": {
			{DocumentID: "r1", Content: "risk", Similarity: 0.8},
		},
	}}

	o, err := New(index, &fakeEmbedder{}, DefaultConfig(), nil)
	require.NoError(t, err)

	bundles, err := o.Retrieve(context.Background(), "trade risk factors", []domain.Domain{trade, risk})
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	// Selection order preserved.
	assert.Equal(t, trade.ID, bundles[0].Domain.ID)
	assert.Equal(t, risk.ID, bundles[1].Domain.ID)

	// Passages sorted by non-increasing similarity.
	sims := bundles[0].Passages
	require.Len(t, sims, 3)
	for i := 1; i < len(sims); i++ {
		assert.GreaterOrEqual(t, sims[i-1].Similarity, sims[i].Similarity)
	}
	assert.Equal(t, "d2", sims[0].DocumentID)

	assert.Equal(t, float32(0.9), bundles[0].TopSimilarity())
	assert.Equal(t, []string{"d2", "d3", "d1"}, bundles[0].DocumentIDs())
}

func TestRetrievePartialFailureDegrades(t *testing.T) {
	index := &fakeIndex{
		passages: map[string][]vectorstore.Passage{
			"knowledge_risk_management": {{DocumentID: "r1", Content: "risk", Similarity: 0.8}},
		},
		down: map[string]bool{"knowledge_global_trade_finance": true},
	}

	o, err := New(index, &fakeEmbedder{}, DefaultConfig(), nil)
	require.NoError(t, err)

	bundles, err := o.Retrieve(context.Background(), "q", []domain.Domain{trade, risk})
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	assert.True(t, bundles[0].Unavailable)
	assert.True(t, bundles[0].Empty())
	assert.False(t, bundles[1].Unavailable)
	assert.Len(t, bundles[1].Passages, 1)
}

func TestRetrieveAllFailed(t *testing.T) {
	index := &fakeIndex{down: map[string]bool{
		"knowledge_global_trade_finance": true,
		"knowledge_risk_management":      true,
	}}

	o, err := New(index, &fakeEmbedder{}, DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = o.Retrieve(context.Background(), "q", []domain.Domain{trade, risk})
	assert.ErrorIs(t, err, ErrAllRetrievalFailed)
}

func TestRetrieveEmbeddingFailureFailsAll(t *testing.T) {
	o, err := New(&fakeIndex{}, &fakeEmbedder{fail: true}, DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = o.Retrieve(context.Background(), "q", []domain.Domain{trade})
	assert.ErrorIs(t, err, ErrAllRetrievalFailed)
}

func TestRetrieveEmptyBundleIsValid(t *testing.T) {
	o, err := New(&fakeIndex{}, &fakeEmbedder{}, DefaultConfig(), nil)
	require.NoError(t, err)

	bundles, err := o.Retrieve(context.Background(), "q", []domain.Domain{trade})
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.True(t, bundles[0].Empty())
	assert.False(t, bundles[0].Unavailable)
	assert.Equal(t, float32(0), bundles[0].TopSimilarity())
}

func TestRetrieveNoDomains(t *testing.T) {
	o, err := New(&fakeIndex{}, &fakeEmbedder{}, DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = o.Retrieve(context.Background(), "q", nil)
	assert.Error(t, err)
}

func TestSortPassagesRecencyTieBreak(t *testing.T) {
	passages := []vectorstore.Passage{
		{DocumentID: "old", Similarity: 0.5, Metadata: map[string]string{"upload_date": "2024-01-01"}},
		{DocumentID: "new", Similarity: 0.5, Metadata: map[string]string{"upload_date": "2025-06-01"}},
		{DocumentID: "top", Similarity: 0.9},
	}
	sortPassages(passages)

	assert.Equal(t, "top", passages[0].DocumentID)
	assert.Equal(t, "new", passages[1].DocumentID)
	assert.Equal(t, "old", passages[2].DocumentID)
}
