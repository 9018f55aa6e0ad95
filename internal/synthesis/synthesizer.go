// Package synthesis turns evidence bundles into per-domain expert answers
// and fuses them into one cross-domain narrative.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/smed/internal/domain"
	"github.com/fyrsmithlabs/smed/internal/generation"
	"github.com/fyrsmithlabs/smed/internal/retrieval"
	"github.com/fyrsmithlabs/smed/internal/vectorstore"
)

const instrumentationName = "github.com/fyrsmithlabs/smed/internal/synthesis"

// ErrSynthesisUnavailable is returned when no domain produced an answer:
// every bundle was empty or every generation call failed. Callers report
// this as "insufficient evidence", not as an internal error.
var ErrSynthesisUnavailable = errors.New("no domain produced an answer")

// DomainAnswer pairs a domain with its synthesized answer and the evidence
// it was derived from.
type DomainAnswer struct {
	Domain domain.Domain
	Answer string
	Bundle retrieval.Bundle
}

// Result is the synthesis outcome.
type Result struct {
	// FusedAnswer is the final narrative. For a single contributing domain
	// it is that domain's answer verbatim.
	FusedAnswer string

	// Answers holds the per-domain answers in bundle order.
	Answers []DomainAnswer

	// Fused is true when a fusion generation call was performed.
	Fused bool

	// ContradictionFlagged is true when the fusion output contains the
	// configured contradiction marker.
	ContradictionFlagged bool
}

// Config configures the synthesizer.
type Config struct {
	// ContextBudget is the maximum evidence characters per generation call.
	// Passages are dropped from the low-similarity end to fit.
	ContextBudget int

	// ContradictionMarker is the token the fusion prompt asks the model to
	// emit when domain answers directly contradict each other. The exact
	// heuristic is a tunable, not a constant.
	ContradictionMarker string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ContextBudget:       12000,
		ContradictionMarker: "[CONTRADICTION]",
	}
}

// Synthesizer generates and fuses domain answers. Stateless apart from the
// generation backend calls.
type Synthesizer struct {
	backend generation.Backend
	config  Config
	logger  *zap.Logger
}

// New creates a Synthesizer.
func New(backend generation.Backend, config Config, logger *zap.Logger) (*Synthesizer, error) {
	if backend == nil {
		return nil, errors.New("generation backend is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ContextBudget <= 0 {
		config.ContextBudget = DefaultConfig().ContextBudget
	}
	if config.ContradictionMarker == "" {
		config.ContradictionMarker = DefaultConfig().ContradictionMarker
	}
	return &Synthesizer{backend: backend, config: config, logger: logger}, nil
}

// Synthesize produces one answer per non-empty bundle, then fuses them.
//
// Empty bundles are skipped entirely: no generation call, no placeholder.
// With exactly one answer the fused result is that answer verbatim. A
// single domain's generation failure is absorbed; ErrSynthesisUnavailable
// is returned only when zero domains answered.
func (s *Synthesizer) Synthesize(ctx context.Context, queryText string, bundles []retrieval.Bundle) (*Result, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "synthesis.synthesize")
	defer span.End()

	candidates := make([]retrieval.Bundle, 0, len(bundles))
	for _, b := range bundles {
		if !b.Empty() {
			candidates = append(candidates, b)
		}
	}
	span.SetAttributes(
		attribute.Int("bundles", len(bundles)),
		attribute.Int("bundles_with_evidence", len(candidates)),
	)

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: all evidence bundles empty", ErrSynthesisUnavailable)
	}

	answers := s.generateDomainAnswers(ctx, queryText, candidates)
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: all generation calls failed", ErrSynthesisUnavailable)
	}

	if len(answers) == 1 {
		// No fusion overhead for single-domain queries.
		return &Result{FusedAnswer: answers[0].Answer, Answers: answers}, nil
	}

	fused, err := s.fuse(ctx, queryText, answers)
	if err != nil {
		// Degrade to concatenated answers rather than failing the query.
		s.logger.Warn("fusion failed, concatenating domain answers", zap.Error(err))
		parts := make([]string, len(answers))
		for i, a := range answers {
			parts[i] = a.Answer
		}
		return &Result{FusedAnswer: strings.Join(parts, "\n\n"), Answers: answers}, nil
	}

	return &Result{
		FusedAnswer:          fused,
		Answers:              answers,
		Fused:                true,
		ContradictionFlagged: strings.Contains(fused, s.config.ContradictionMarker),
	}, nil
}

// generateDomainAnswers runs one generation per bundle concurrently,
// absorbing per-domain failures.
func (s *Synthesizer) generateDomainAnswers(ctx context.Context, queryText string, bundles []retrieval.Bundle) []DomainAnswer {
	results := make([]*DomainAnswer, len(bundles))

	g, gctx := errgroup.WithContext(ctx)
	for i, b := range bundles {
		g.Go(func() error {
			prompt := s.buildPrompt(queryText, b)
			answer, err := s.backend.Generate(gctx, b.Domain.Persona, prompt)
			if err != nil {
				s.logger.Warn("domain generation failed",
					zap.String("domain", string(b.Domain.ID)),
					zap.Error(err),
				)
				return nil
			}
			results[i] = &DomainAnswer{Domain: b.Domain, Answer: answer, Bundle: b}
			return nil
		})
	}
	_ = g.Wait()

	answers := make([]DomainAnswer, 0, len(results))
	for _, r := range results {
		if r != nil {
			answers = append(answers, *r)
		}
	}
	return answers
}

// buildPrompt concatenates the bundle's passages, most relevant first,
// truncated to the context budget from the low-similarity end.
func (s *Synthesizer) buildPrompt(queryText string, b retrieval.Bundle) string {
	var sb strings.Builder
	sb.WriteString("Context:\n")

	used := 0
	for _, p := range b.Passages {
		block := formatPassage(p)
		if used+len(block) > s.config.ContextBudget {
			break
		}
		sb.WriteString(block)
		used += len(block)
	}

	sb.WriteString("\nQuestion: ")
	sb.WriteString(queryText)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}

// formatPassage renders one passage with its source line.
func formatPassage(p vectorstore.Passage) string {
	title := p.Metadata["title"]
	if title == "" {
		title = p.DocumentID
	}
	return fmt.Sprintf("Source: %s\n%s\n\n", title, p.Content)
}

// fuse merges multiple domain answers via one additional generation call.
func (s *Synthesizer) fuse(ctx context.Context, queryText string, answers []DomainAnswer) (string, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "synthesis.fuse")
	defer span.End()
	span.SetAttributes(attribute.Int("answers", len(answers)))

	var sb strings.Builder
	for _, a := range answers {
		sb.WriteString("Domain: ")
		sb.WriteString(a.Domain.Label)
		sb.WriteString("\nResponse: ")
		sb.WriteString(a.Answer)
		sb.WriteString("\n\n")
	}

	instructions := "You are a banking expert synthesizing information from multiple domain specialists."
	prompt := fmt.Sprintf(`Original Question: %s

Domain-specific responses:
%s
Provide a comprehensive, well-structured answer that:
1. Addresses the original question completely
2. Integrates insights from all relevant domains
3. Avoids redundancy while maintaining completeness
4. Cites the relevant domains when appropriate
5. If two domain responses directly contradict each other, do not silently pick one side: state both positions and mark the disagreement with %s

Comprehensive Answer:`, queryText, sb.String(), s.config.ContradictionMarker)

	return s.backend.Generate(ctx, instructions, prompt)
}
