package vectorstore

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/smed/internal/embeddings"
)

// FactoryConfig selects and configures an Index backend.
type FactoryConfig struct {
	// Provider is "chromem" (default) or "qdrant".
	Provider string

	Chromem ChromemConfig
	Qdrant  QdrantConfig
}

// NewIndex creates an Index from config.
func NewIndex(cfg FactoryConfig, provider embeddings.Provider, logger *zap.Logger) (Index, error) {
	switch cfg.Provider {
	case "chromem", "":
		return NewChromemStore(cfg.Chromem, provider, logger)
	case "qdrant":
		return NewQdrantStore(cfg.Qdrant, provider, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
