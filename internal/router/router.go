// Package router decides which knowledge domains a query consults.
package router

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/smed/internal/domain"
)

// ErrNoRelevantDomain is returned in relevance mode when no domain clears
// the threshold. Client-correctable: the query is too vague for routing.
var ErrNoRelevantDomain = errors.New("no relevant domain for query")

// Selection modes.
const (
	// ModeAll consults every registered domain when the caller names none.
	// Breadth-first coverage is the default: the assistant's value is
	// cross-domain synthesis.
	ModeAll = "all"

	// ModeRelevance keeps only domains whose description overlaps the
	// query above a threshold.
	ModeRelevance = "relevance"
)

// Config controls auto-selection behavior.
type Config struct {
	// Mode is ModeAll or ModeRelevance.
	Mode string

	// Threshold is the minimum relevance score in ModeRelevance.
	Threshold float64
}

// DefaultConfig returns the consult-all default.
func DefaultConfig() Config {
	return Config{Mode: ModeAll, Threshold: 0.15}
}

// Router selects domains for incoming queries. It is a pure function over
// the query and the registry; no state is mutated.
type Router struct {
	registry *domain.Registry
	config   Config
	logger   *zap.Logger
}

// New creates a Router.
func New(registry *domain.Registry, config Config, logger *zap.Logger) (*Router, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	switch config.Mode {
	case ModeAll, ModeRelevance:
	case "":
		config.Mode = ModeAll
	default:
		return nil, fmt.Errorf("unknown router mode %q", config.Mode)
	}
	return &Router{registry: registry, config: config, logger: logger}, nil
}

// SelectDomains returns the non-empty ordered set of domains to consult.
//
// When preferred is non-empty, every identifier is validated against the
// registry and the validated set is returned in the given order, duplicates
// dropped. When preferred is empty, selection follows the configured mode.
func (r *Router) SelectDomains(ctx context.Context, queryText string, preferred []string) ([]domain.Domain, error) {
	if len(preferred) > 0 {
		return r.resolvePreferred(preferred)
	}

	if r.config.Mode == ModeRelevance {
		return r.selectByRelevance(ctx, queryText)
	}

	return r.registry.All(), nil
}

// resolvePreferred validates explicit identifiers, preserving order.
func (r *Router) resolvePreferred(preferred []string) ([]domain.Domain, error) {
	seen := make(map[domain.ID]bool, len(preferred))
	out := make([]domain.Domain, 0, len(preferred))
	for _, raw := range preferred {
		d, err := r.registry.Resolve(raw)
		if err != nil {
			return nil, err
		}
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	return out, nil
}

// selectByRelevance scores each domain's description against the query and
// keeps domains above the threshold, best first.
func (r *Router) selectByRelevance(ctx context.Context, queryText string) ([]domain.Domain, error) {
	queryTokens := tokenize(queryText)
	if len(queryTokens) == 0 {
		// Nothing to score against; fall back to breadth-first coverage.
		return r.registry.All(), nil
	}

	type scored struct {
		d     domain.Domain
		score float64
	}

	candidates := make([]scored, 0, r.registry.Len())
	for _, d := range r.registry.All() {
		affinity := termOverlap(queryTokens, tokenize(d.Label+" "+d.Description))
		r.logger.Debug("domain affinity",
			zap.String("domain", string(d.ID)),
			zap.Float64("score", affinity),
		)
		if affinity >= r.config.Threshold {
			candidates = append(candidates, scored{d: d, score: affinity})
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no domain cleared threshold %.2f", ErrNoRelevantDomain, r.config.Threshold)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]domain.Domain, len(candidates))
	for i, c := range candidates {
		out[i] = c.d
	}
	return out, nil
}
