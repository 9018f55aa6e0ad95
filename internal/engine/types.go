package engine

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/smed/internal/domain"
)

// Stage names the pipeline phase a query is in. Each query makes exactly
// one pass: ROUTING → RETRIEVING → SYNTHESIZING → SCORING → DONE, with
// FAILED terminal from the first three.
type Stage string

// Pipeline stages.
const (
	StageRouting      Stage = "routing"
	StageRetrieving   Stage = "retrieving"
	StageSynthesizing Stage = "synthesizing"
	StageScoring      Stage = "scoring"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// Failure codes. Every failure leaving the engine carries one, so callers
// can render an actionable message instead of a bare error.
const (
	CodeEmptyQuery           = "empty_query"
	CodeUnknownDomain        = "unknown_domain"
	CodeNoRelevantDomain     = "no_relevant_domain"
	CodeAllRetrievalFailed   = "all_retrieval_failed"
	CodeInsufficientEvidence = "insufficient_evidence"
)

// FailureReason is the typed error for every failure path. No unstructured
// error ever crosses the engine boundary.
type FailureReason struct {
	// Stage is the pipeline phase that failed.
	Stage Stage

	// Code is the machine-readable failure class.
	Code string

	// Message is the caller-facing, actionable description.
	Message string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (f *FailureReason) Error() string {
	return fmt.Sprintf("%s (%s/%s)", f.Message, f.Stage, f.Code)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (f *FailureReason) Unwrap() error {
	return f.Err
}

// Query is one incoming request. Read-only for the lifetime of processing.
type Query struct {
	// Text is the free-text question.
	Text string

	// UserID identifies the originating user.
	UserID string

	// PreferredDomains optionally restricts which domains are consulted.
	// Empty means auto-select.
	PreferredDomains []string
}

// Response is the final result handed to the caller and the audit sink.
// Immutable once constructed.
type Response struct {
	// RequestID is the per-query correlation ID.
	RequestID string

	// Query is the original question text.
	Query string

	// Answer is the fused answer text.
	Answer string

	// DomainsConsulted lists the domains that contributed to the answer,
	// in consultation order.
	DomainsConsulted []domain.ID

	// Sources lists the document identifiers whose passages contributed.
	Sources []string

	// Confidence is the derived score in [0.0, 1.0].
	Confidence float64

	// ContradictionFlagged is true when fusion flagged a cross-domain
	// contradiction.
	ContradictionFlagged bool

	// Timestamp is when the response was produced.
	Timestamp time.Time
}
