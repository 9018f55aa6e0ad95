// Package config provides configuration loading for smed.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/smed/internal/logging"
)

// Config is the full smed configuration.
type Config struct {
	Logging     logging.Config    `koanf:"logging"`
	Router      RouterConfig      `koanf:"router"`
	Retrieval   RetrievalConfig   `koanf:"retrieval"`
	Synthesis   SynthesisConfig   `koanf:"synthesis"`
	Confidence  ConfidenceConfig  `koanf:"confidence"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	Generation  GenerationConfig  `koanf:"generation"`
	Audit       AuditConfig       `koanf:"audit"`
}

// RouterConfig controls domain selection.
type RouterConfig struct {
	// Mode is "all" (consult every registered domain when the caller names
	// none) or "relevance" (keep only domains scoring above Threshold).
	Mode string `koanf:"mode"`

	// Threshold is the minimum relevance score in relevance mode.
	Threshold float64 `koanf:"threshold"`
}

// RetrievalConfig controls per-domain evidence retrieval.
type RetrievalConfig struct {
	// TopK is the number of passages fetched per domain.
	TopK int `koanf:"top_k"`

	// QueryTimeout bounds the whole routing-to-scoring pipeline.
	QueryTimeout Duration `koanf:"query_timeout"`
}

// SynthesisConfig controls answer generation and fusion.
type SynthesisConfig struct {
	// ContextBudget is the maximum evidence characters per generation call.
	// Passages are dropped from the low-similarity end to fit.
	ContextBudget int `koanf:"context_budget"`

	// ContradictionMarker is the token the fusion prompt instructs the
	// model to emit when domains disagree.
	ContradictionMarker string `koanf:"contradiction_marker"`
}

// ConfidenceConfig controls confidence scoring.
type ConfidenceConfig struct {
	// AgreementBonus is added when multiple domains answer without
	// contradiction.
	AgreementBonus float64 `koanf:"agreement_bonus"`

	// ContradictionPenalty is subtracted when fusion flags a contradiction.
	ContradictionPenalty float64 `koanf:"contradiction_penalty"`
}

// VectorStoreConfig selects and configures the vector index backend.
type VectorStoreConfig struct {
	// Provider is "chromem" (embedded, default) or "qdrant".
	Provider string `koanf:"provider"`

	Chromem ChromemConfig `koanf:"chromem"`
	Qdrant  QdrantConfig  `koanf:"qdrant"`
}

// ChromemConfig configures the embedded chromem-go store.
type ChromemConfig struct {
	// Path is the directory for persistent storage. Empty means in-memory.
	Path string `koanf:"path"`

	// Compress enables gzip compression for stored data.
	Compress bool `koanf:"compress"`
}

// QdrantConfig configures the external Qdrant store.
type QdrantConfig struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	APIKey Secret `koanf:"api_key"`
	UseTLS bool   `koanf:"use_tls"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// BaseURL is an OpenAI-compatible embeddings endpoint (OpenAI, TEI, ...).
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  Secret `koanf:"api_key"`
}

// GenerationConfig configures the generation backend.
type GenerationConfig struct {
	// BaseURL is an OpenAI-compatible chat endpoint (OpenAI, Groq, ...).
	BaseURL     string  `koanf:"base_url"`
	Model       string  `koanf:"model"`
	APIKey      Secret  `koanf:"api_key"`
	Temperature float64 `koanf:"temperature"`
}

// AuditConfig configures the query audit sink.
type AuditConfig struct {
	// Backend is "sqlite" or "log".
	Backend string `koanf:"backend"`

	// Path is the SQLite database path (sqlite backend only).
	Path string `koanf:"path"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Router.Mode == "" {
		cfg.Router.Mode = "all"
	}
	if cfg.Router.Threshold == 0 {
		cfg.Router.Threshold = 0.15
	}

	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.QueryTimeout == 0 {
		cfg.Retrieval.QueryTimeout = Duration(30 * time.Second)
	}

	if cfg.Synthesis.ContextBudget == 0 {
		cfg.Synthesis.ContextBudget = 12000
	}
	if cfg.Synthesis.ContradictionMarker == "" {
		cfg.Synthesis.ContradictionMarker = "[CONTRADICTION]"
	}

	if cfg.Confidence.AgreementBonus == 0 {
		cfg.Confidence.AgreementBonus = 0.1
	}
	if cfg.Confidence.ContradictionPenalty == 0 {
		cfg.Confidence.ContradictionPenalty = 0.25
	}

	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = "chromem"
	}
	if cfg.VectorStore.Qdrant.Host == "" {
		cfg.VectorStore.Qdrant.Host = "localhost"
	}
	if cfg.VectorStore.Qdrant.Port == 0 {
		cfg.VectorStore.Qdrant.Port = 6334
	}

	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = "http://localhost:8080/v1"
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "BAAI/bge-small-en-v1.5"
	}

	if cfg.Generation.BaseURL == "" {
		cfg.Generation.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "llama3-8b-8192"
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.1
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = "sqlite"
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = "~/.config/smed/audit.db"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	switch c.Router.Mode {
	case "all", "relevance":
	default:
		return fmt.Errorf("router.mode must be 'all' or 'relevance', got %q", c.Router.Mode)
	}
	if c.Router.Threshold < 0 || c.Router.Threshold > 1 {
		return fmt.Errorf("router.threshold must be in [0,1], got %v", c.Router.Threshold)
	}

	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.QueryTimeout.Duration() <= 0 {
		return fmt.Errorf("retrieval.query_timeout must be positive")
	}

	if c.Synthesis.ContextBudget <= 0 {
		return fmt.Errorf("synthesis.context_budget must be positive, got %d", c.Synthesis.ContextBudget)
	}

	switch c.VectorStore.Provider {
	case "chromem", "qdrant":
	default:
		return fmt.Errorf("vectorstore.provider must be 'chromem' or 'qdrant', got %q", c.VectorStore.Provider)
	}

	switch c.Audit.Backend {
	case "sqlite", "log":
	default:
		return fmt.Errorf("audit.backend must be 'sqlite' or 'log', got %q", c.Audit.Backend)
	}
	if c.Audit.Backend == "sqlite" && c.Audit.Path == "" {
		return fmt.Errorf("audit.path required for sqlite backend")
	}

	return nil
}
