package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesDefaults(t *testing.T) {
	cfg, err := LoadBytes(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "all", cfg.Router.Mode)
	assert.Equal(t, 0.15, cfg.Router.Threshold)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 30*time.Second, cfg.Retrieval.QueryTimeout.Duration())
	assert.Equal(t, 12000, cfg.Synthesis.ContextBudget)
	assert.Equal(t, "[CONTRADICTION]", cfg.Synthesis.ContradictionMarker)
	assert.Equal(t, "chromem", cfg.VectorStore.Provider)
	assert.Equal(t, "sqlite", cfg.Audit.Backend)
}

func TestLoadBytesOverrides(t *testing.T) {
	yaml := []byte(`
logging:
  level: debug
  format: console
router:
  mode: relevance
  threshold: 0.3
retrieval:
  top_k: 8
  query_timeout: 10s
vectorstore:
  provider: qdrant
  qdrant:
    host: qdrant.internal
    port: 7443
    api_key: s3cret
generation:
  model: llama3-70b-8192
audit:
  backend: log
`)
	cfg, err := LoadBytes(yaml)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "relevance", cfg.Router.Mode)
	assert.Equal(t, 0.3, cfg.Router.Threshold)
	assert.Equal(t, 8, cfg.Retrieval.TopK)
	assert.Equal(t, 10*time.Second, cfg.Retrieval.QueryTimeout.Duration())
	assert.Equal(t, "qdrant", cfg.VectorStore.Provider)
	assert.Equal(t, "qdrant.internal", cfg.VectorStore.Qdrant.Host)
	assert.Equal(t, 7443, cfg.VectorStore.Qdrant.Port)
	assert.Equal(t, "s3cret", cfg.VectorStore.Qdrant.APIKey.Value())
	assert.Equal(t, "llama3-70b-8192", cfg.Generation.Model)
	assert.Equal(t, "log", cfg.Audit.Backend)
}

func TestLoadBytesValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad router mode", yaml: "router:\n  mode: roulette\n"},
		{name: "threshold out of range", yaml: "router:\n  threshold: 1.5\n"},
		{name: "negative top_k", yaml: "retrieval:\n  top_k: -1\n"},
		{name: "bad provider", yaml: "vectorstore:\n  provider: pinecone\n"},
		{name: "bad audit backend", yaml: "audit:\n  backend: kafka\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "logging.level", envTransform("SMED_LOGGING_LEVEL"))
	assert.Equal(t, "retrieval.top_k", envTransform("SMED_RETRIEVAL_TOP_K"))
	assert.Equal(t, "generation.base_url", envTransform("SMED_GENERATION_BASE_URL"))
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("hunter2")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "hunter2", s.Value())
	assert.True(t, s.IsSet())

	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")

	assert.Equal(t, "", Secret("").String())
	assert.False(t, Secret("").IsSet())
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-5s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
