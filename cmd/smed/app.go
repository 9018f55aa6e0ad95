package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/smed/internal/audit"
	"github.com/fyrsmithlabs/smed/internal/confidence"
	"github.com/fyrsmithlabs/smed/internal/config"
	"github.com/fyrsmithlabs/smed/internal/domain"
	"github.com/fyrsmithlabs/smed/internal/embeddings"
	"github.com/fyrsmithlabs/smed/internal/engine"
	"github.com/fyrsmithlabs/smed/internal/generation"
	"github.com/fyrsmithlabs/smed/internal/logging"
	"github.com/fyrsmithlabs/smed/internal/retrieval"
	"github.com/fyrsmithlabs/smed/internal/router"
	"github.com/fyrsmithlabs/smed/internal/synthesis"
	"github.com/fyrsmithlabs/smed/internal/vectorstore"
)

// app bundles the wired components behind one Close.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *domain.Registry
	provider embeddings.Provider
	index    vectorstore.Index
	engine   *engine.Engine
}

// buildApp loads config and wires the full pipeline.
func buildApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	registry := domain.NewRegistry()

	provider, err := embeddings.NewOpenAIProvider(embeddings.Config{
		BaseURL: cfg.Embeddings.BaseURL,
		Model:   cfg.Embeddings.Model,
		APIKey:  cfg.Embeddings.APIKey.Value(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding provider: %w", err)
	}

	chromemPath := cfg.VectorStore.Chromem.Path
	if chromemPath != "" {
		if chromemPath, err = config.ExpandPath(chromemPath); err != nil {
			return nil, fmt.Errorf("expanding chromem path: %w", err)
		}
	}

	index, err := vectorstore.NewIndex(vectorstore.FactoryConfig{
		Provider: cfg.VectorStore.Provider,
		Chromem: vectorstore.ChromemConfig{
			Path:     chromemPath,
			Compress: cfg.VectorStore.Chromem.Compress,
		},
		Qdrant: vectorstore.QdrantConfig{
			Host:   cfg.VectorStore.Qdrant.Host,
			Port:   cfg.VectorStore.Qdrant.Port,
			APIKey: cfg.VectorStore.Qdrant.APIKey.Value(),
			UseTLS: cfg.VectorStore.Qdrant.UseTLS,
		},
	}, provider, logger)
	if err != nil {
		return nil, fmt.Errorf("creating vector index: %w", err)
	}

	backend, err := generation.NewOpenAIBackend(generation.Config{
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		APIKey:      cfg.Generation.APIKey.Value(),
		Temperature: cfg.Generation.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("creating generation backend: %w", err)
	}

	sink, err := buildSink(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating audit sink: %w", err)
	}

	rt, err := router.New(registry, router.Config{
		Mode:      cfg.Router.Mode,
		Threshold: cfg.Router.Threshold,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	orch, err := retrieval.New(index, provider, retrieval.Config{
		TopK: cfg.Retrieval.TopK,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}

	syn, err := synthesis.New(backend, synthesis.Config{
		ContextBudget:       cfg.Synthesis.ContextBudget,
		ContradictionMarker: cfg.Synthesis.ContradictionMarker,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating synthesizer: %w", err)
	}

	est := confidence.New(confidence.Config{
		AgreementBonus:       cfg.Confidence.AgreementBonus,
		ContradictionPenalty: cfg.Confidence.ContradictionPenalty,
	})

	eng, err := engine.New(rt, orch, syn, est, sink, engine.Config{
		QueryTimeout: cfg.Retrieval.QueryTimeout.Duration(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		provider: provider,
		index:    index,
		engine:   eng,
	}, nil
}

// buildSink creates the configured audit sink.
func buildSink(cfg *config.Config, logger *zap.Logger) (audit.Sink, error) {
	switch cfg.Audit.Backend {
	case "sqlite":
		path, err := config.ExpandPath(cfg.Audit.Path)
		if err != nil {
			return nil, err
		}
		return audit.NewSQLiteSink(path)
	default:
		return audit.NewLogSink(logger), nil
	}
}

// Close flushes audit emissions and releases resources.
func (a *app) Close() error {
	err := a.engine.Close()
	if cerr := a.index.Close(); err == nil {
		err = cerr
	}
	if cerr := a.provider.Close(); err == nil {
		err = cerr
	}
	_ = a.logger.Sync()
	return err
}
