// Package retrieval fans a query out across the selected domains' vector
// indexes and assembles per-domain evidence bundles.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/smed/internal/domain"
	"github.com/fyrsmithlabs/smed/internal/embeddings"
	"github.com/fyrsmithlabs/smed/internal/vectorstore"
)

const instrumentationName = "github.com/fyrsmithlabs/smed/internal/retrieval"

// ErrAllRetrievalFailed is returned when every selected domain's retrieval
// failed. A single domain failing degrades silently instead.
var ErrAllRetrievalFailed = errors.New("retrieval failed for all domains")

// Config configures the orchestrator.
type Config struct {
	// TopK is the number of passages fetched per domain.
	TopK int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{TopK: 5}
}

// Orchestrator retrieves evidence bundles for a query.
type Orchestrator struct {
	index    vectorstore.Index
	provider embeddings.Provider
	config   Config
	logger   *zap.Logger
}

// New creates an Orchestrator.
func New(index vectorstore.Index, provider embeddings.Provider, config Config, logger *zap.Logger) (*Orchestrator, error) {
	if index == nil {
		return nil, errors.New("vector index is required")
	}
	if provider == nil {
		return nil, errors.New("embedding provider is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TopK <= 0 {
		config.TopK = DefaultConfig().TopK
	}
	return &Orchestrator{index: index, provider: provider, config: config, logger: logger}, nil
}

// Retrieve embeds the query once and looks up evidence in every selected
// domain concurrently. Bundles come back in selection order.
//
// A single domain's failure produces an empty bundle flagged Unavailable;
// ErrAllRetrievalFailed is returned only when no domain succeeded. Each
// bundle's passages are sorted by non-increasing similarity.
func (o *Orchestrator) Retrieve(ctx context.Context, queryText string, domains []domain.Domain) ([]Bundle, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "retrieval.retrieve")
	defer span.End()

	span.SetAttributes(
		attribute.Int("domains", len(domains)),
		attribute.Int("top_k", o.config.TopK),
	)

	if len(domains) == 0 {
		return nil, errors.New("no domains selected")
	}

	vector, err := o.provider.EmbedQuery(ctx, queryText)
	if err != nil {
		// Embedding is shared by every domain lookup, so its failure fails
		// them all.
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrAllRetrievalFailed, err)
	}

	bundles := make([]Bundle, len(domains))

	// Fan out with a join barrier. Workers never return an error: partial
	// failure is recorded per bundle so siblings keep running.
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range domains {
		g.Go(func() error {
			passages, err := o.index.TopK(gctx, d.Collection(), vector, o.config.TopK)
			if err != nil {
				o.logger.Warn("domain retrieval failed",
					zap.String("domain", string(d.ID)),
					zap.Error(err),
				)
				bundles[i] = Bundle{Domain: d, Unavailable: true}
				return nil
			}

			sortPassages(passages)
			bundles[i] = Bundle{Domain: d, Passages: passages}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, b := range bundles {
		if b.Unavailable {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("domains_failed", failed))

	if failed == len(bundles) {
		return nil, fmt.Errorf("%w: %d domains attempted", ErrAllRetrievalFailed, failed)
	}

	return bundles, nil
}
