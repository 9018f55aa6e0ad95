// Package audit records finished query transactions for durable logging.
//
// The engine treats the sink as fire-and-forget: a sink failure is logged
// and never fails the query itself.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Entry is one finished query transaction.
type Entry struct {
	// ID is the per-query request ID.
	ID string

	// UserID identifies the originating user.
	UserID string

	// Query is the original question text.
	Query string

	// Answer is the fused answer text.
	Answer string

	// Domains lists the domains actually consulted, in order.
	Domains []string

	// Sources lists the contributing document identifiers.
	Sources []string

	// Confidence is the final confidence score in [0,1].
	Confidence float64

	// Timestamp is when the response was produced.
	Timestamp time.Time
}

// Sink receives finished transactions.
type Sink interface {
	// Record persists one entry.
	Record(ctx context.Context, e *Entry) error

	// Close releases sink resources.
	Close() error
}

// LogSink writes audit entries to the structured log. Used when no durable
// store is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Record logs the entry.
func (s *LogSink) Record(_ context.Context, e *Entry) error {
	s.logger.Info("query audit",
		zap.String("request_id", e.ID),
		zap.String("user_id", e.UserID),
		zap.String("query", e.Query),
		zap.Strings("domains", e.Domains),
		zap.Strings("sources", e.Sources),
		zap.Float64("confidence", e.Confidence),
		zap.Time("timestamp", e.Timestamp),
	)
	return nil
}

// Close is a no-op.
func (s *LogSink) Close() error {
	return nil
}
