package vectorstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider returns fixed vectors per text so similarity ordering in
// tests is deterministic.
type fakeProvider struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeProvider) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if f.fail {
		return nil, fmt.Errorf("embedder down")
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.EmbedQuery(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeProvider) Close() error { return nil }

func newTestStore(t *testing.T, provider *fakeProvider) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(ChromemConfig{}, provider, nil)
	require.NoError(t, err)
	return store
}

func TestChromemStoreRoundTrip(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float32{
		"letters of credit guarantee payment": {1, 0, 0},
		"credit risk scoring models":          {0, 1, 0},
		"employee onboarding checklist":       {0, 0, 1},
	}}
	store := newTestStore(t, provider)
	ctx := context.Background()

	err := store.Upsert(ctx, "knowledge_global_trade_finance", []Document{
		{ID: "doc-lc", Content: "letters of credit guarantee payment", Metadata: map[string]string{"title": "LC Guide"}},
		{ID: "doc-risk", Content: "credit risk scoring models"},
		{ID: "doc-hr", Content: "employee onboarding checklist"},
	})
	require.NoError(t, err)

	// Query vector aligned with doc-lc.
	passages, err := store.TopK(ctx, "knowledge_global_trade_finance", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, passages, 2)

	assert.Equal(t, "doc-lc", passages[0].DocumentID)
	assert.Equal(t, "LC Guide", passages[0].Metadata["title"])
	assert.GreaterOrEqual(t, passages[0].Similarity, passages[1].Similarity)
}

func TestChromemStoreMissingCollectionIsEmpty(t *testing.T) {
	store := newTestStore(t, &fakeProvider{})

	passages, err := store.TopK(context.Background(), "knowledge_compliance", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestChromemStoreKCappedAtCount(t *testing.T) {
	store := newTestStore(t, &fakeProvider{})
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "knowledge_compliance", []Document{
		{ID: "only", Content: "aml monitoring"},
	}))

	passages, err := store.TopK(ctx, "knowledge_compliance", []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, passages, 1)
}

func TestChromemStoreInputValidation(t *testing.T) {
	store := newTestStore(t, &fakeProvider{})
	ctx := context.Background()

	_, err := store.TopK(ctx, "c", []float32{1}, 0)
	assert.Error(t, err)

	_, err = store.TopK(ctx, "c", nil, 3)
	assert.Error(t, err)

	err = store.Upsert(ctx, "c", nil)
	assert.ErrorIs(t, err, ErrEmptyDocuments)
}

func TestChromemStoreUpsertEmbedderFailure(t *testing.T) {
	store := newTestStore(t, &fakeProvider{fail: true})

	err := store.Upsert(context.Background(), "c", []Document{{ID: "d", Content: "x"}})
	assert.Error(t, err)
}

func TestNewChromemStoreRequiresProvider(t *testing.T) {
	_, err := NewChromemStore(ChromemConfig{}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewIndexUnknownProvider(t *testing.T) {
	_, err := NewIndex(FactoryConfig{Provider: "pinecone"}, &fakeProvider{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
