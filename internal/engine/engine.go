// Package engine runs the end-to-end query pipeline: route, retrieve,
// synthesize, score, audit.
package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/smed/internal/audit"
	"github.com/fyrsmithlabs/smed/internal/confidence"
	"github.com/fyrsmithlabs/smed/internal/domain"
	"github.com/fyrsmithlabs/smed/internal/logging"
	"github.com/fyrsmithlabs/smed/internal/retrieval"
	"github.com/fyrsmithlabs/smed/internal/router"
	"github.com/fyrsmithlabs/smed/internal/synthesis"
)

const instrumentationName = "github.com/fyrsmithlabs/smed/internal/engine"

// Config configures the engine.
type Config struct {
	// QueryTimeout bounds the whole routing-to-scoring pipeline. On
	// timeout, completed domain results are used and incomplete domains
	// are treated as failed for this query.
	QueryTimeout time.Duration

	// AuditTimeout bounds the fire-and-forget audit emission.
	AuditTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		QueryTimeout: 30 * time.Second,
		AuditTimeout: 5 * time.Second,
	}
}

// Engine is the caller-facing query entry point.
//
// All per-query working state (bundles, answers) is private to that query's
// execution; only the registry (read-only) and the backends (safe for
// concurrent independent calls) are shared, so queries never contend on
// locks.
type Engine struct {
	router       *router.Router
	orchestrator *retrieval.Orchestrator
	synthesizer  *synthesis.Synthesizer
	estimator    *confidence.Estimator
	sink         audit.Sink
	config       Config
	logger       *zap.Logger
	tracer       trace.Tracer

	wg sync.WaitGroup
}

// New creates an Engine.
func New(
	rt *router.Router,
	orch *retrieval.Orchestrator,
	syn *synthesis.Synthesizer,
	est *confidence.Estimator,
	sink audit.Sink,
	config Config,
	logger *zap.Logger,
) (*Engine, error) {
	if rt == nil || orch == nil || syn == nil || est == nil {
		return nil, errors.New("router, orchestrator, synthesizer and estimator are required")
	}
	if sink == nil {
		sink = audit.NewLogSink(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = DefaultConfig().QueryTimeout
	}
	if config.AuditTimeout <= 0 {
		config.AuditTimeout = DefaultConfig().AuditTimeout
	}

	return &Engine{
		router:       rt,
		orchestrator: orch,
		synthesizer:  syn,
		estimator:    est,
		sink:         sink,
		config:       config,
		logger:       logger,
		tracer:       otel.Tracer(instrumentationName),
	}, nil
}

// HandleQuery runs one query through the pipeline and returns the response
// or a *FailureReason. Cancellation of ctx propagates into in-flight domain
// calls.
func (e *Engine) HandleQuery(ctx context.Context, q Query) (*Response, error) {
	start := time.Now()

	requestID := uuid.New().String()
	ctx = logging.WithRequestID(ctx, requestID)
	ctx = logging.WithUserID(ctx, q.UserID)

	ctx, cancel := context.WithTimeout(ctx, e.config.QueryTimeout)
	defer cancel()

	ctx, span := e.tracer.Start(ctx, "engine.handle_query")
	defer span.End()
	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.Int("preferred_domains", len(q.PreferredDomains)),
	)

	log := e.logger.With(logging.ContextFields(ctx)...)

	resp, err := e.run(ctx, q, requestID, log)

	queryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var reason *FailureReason
		if errors.As(err, &reason) {
			queriesTotal.WithLabelValues(reason.Code).Inc()
			span.SetStatus(codes.Error, reason.Code)
			log.Warn("query failed",
				zap.String("stage", string(reason.Stage)),
				zap.String("code", reason.Code),
				zap.Error(reason.Err),
			)
		}
		return nil, err
	}

	queriesTotal.WithLabelValues(string(StageDone)).Inc()
	domainsConsulted.Observe(float64(len(resp.DomainsConsulted)))
	span.SetStatus(codes.Ok, "")

	e.emitAudit(q, resp, log)

	return resp, nil
}

// run executes the ROUTING → SCORING pass.
func (e *Engine) run(ctx context.Context, q Query, requestID string, log *zap.Logger) (*Response, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, &FailureReason{
			Stage:   StageRouting,
			Code:    CodeEmptyQuery,
			Message: "query text is empty",
		}
	}

	// ROUTING
	domains, err := e.router.SelectDomains(ctx, text, q.PreferredDomains)
	if err != nil {
		return nil, routingFailure(err)
	}
	log.Debug("domains selected", zap.Int("count", len(domains)))

	// RETRIEVING
	bundles, err := e.orchestrator.Retrieve(ctx, text, domains)
	if err != nil {
		return nil, &FailureReason{
			Stage:   StageRetrieving,
			Code:    CodeAllRetrievalFailed,
			Message: "knowledge indexes are unavailable, try again later",
			Err:     err,
		}
	}
	for _, b := range bundles {
		if b.Unavailable {
			domainRetrievalFailures.Inc()
		}
	}

	// SYNTHESIZING
	result, err := e.synthesizer.Synthesize(ctx, text, bundles)
	if err != nil {
		return nil, &FailureReason{
			Stage:   StageSynthesizing,
			Code:    CodeInsufficientEvidence,
			Message: "could not find enough information to answer, try rephrasing or adding knowledge",
			Err:     err,
		}
	}

	// SCORING
	score := e.estimator.Estimate(bundles, result)

	consulted := make([]domain.ID, len(result.Answers))
	sources := make([]string, 0, 8)
	seen := make(map[string]bool)
	for i, a := range result.Answers {
		consulted[i] = a.Domain.ID
		for _, id := range a.Bundle.DocumentIDs() {
			if !seen[id] {
				seen[id] = true
				sources = append(sources, id)
			}
		}
	}

	return &Response{
		RequestID:            requestID,
		Query:                q.Text,
		Answer:               result.FusedAnswer,
		DomainsConsulted:     consulted,
		Sources:              sources,
		Confidence:           score,
		ContradictionFlagged: result.ContradictionFlagged,
		Timestamp:            time.Now().UTC(),
	}, nil
}

// routingFailure maps router errors onto client-correctable reasons.
func routingFailure(err error) *FailureReason {
	switch {
	case errors.Is(err, domain.ErrUnknownDomain):
		return &FailureReason{
			Stage:   StageRouting,
			Code:    CodeUnknownDomain,
			Message: "specify valid domains",
			Err:     err,
		}
	case errors.Is(err, router.ErrNoRelevantDomain):
		return &FailureReason{
			Stage:   StageRouting,
			Code:    CodeNoRelevantDomain,
			Message: "query too vague to route, name a domain or rephrase",
			Err:     err,
		}
	default:
		return &FailureReason{
			Stage:   StageRouting,
			Code:    CodeNoRelevantDomain,
			Message: "unable to route query",
			Err:     err,
		}
	}
}

// emitAudit records the finished transaction. Fire and forget: sink errors
// are counted and logged, never surfaced.
func (e *Engine) emitAudit(q Query, resp *Response, log *zap.Logger) {
	domains := make([]string, len(resp.DomainsConsulted))
	for i, id := range resp.DomainsConsulted {
		domains[i] = string(id)
	}
	entry := &audit.Entry{
		ID:         resp.RequestID,
		UserID:     q.UserID,
		Query:      resp.Query,
		Answer:     resp.Answer,
		Domains:    domains,
		Sources:    resp.Sources,
		Confidence: resp.Confidence,
		Timestamp:  resp.Timestamp,
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		// Detached from the query context: the caller may be gone already.
		ctx, cancel := context.WithTimeout(context.Background(), e.config.AuditTimeout)
		defer cancel()
		if err := e.sink.Record(ctx, entry); err != nil {
			auditFailures.Inc()
			log.Error("audit sink failed", zap.Error(err))
		}
	}()
}

// Close waits for in-flight audit emissions and closes the sink.
func (e *Engine) Close() error {
	e.wg.Wait()
	return e.sink.Close()
}
