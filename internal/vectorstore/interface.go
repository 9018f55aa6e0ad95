// Package vectorstore provides the per-domain vector index used for
// evidence retrieval.
//
// The query engine only ever reads from the index (TopK). The write path
// (Upsert, EnsureCollection) exists for the out-of-band ingestion feed and
// for seeding local deployments.
package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for vector index operations.
var (
	// ErrIndexUnavailable indicates the index backend cannot be reached.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyDocuments indicates empty or nil documents.
	ErrEmptyDocuments = errors.New("empty or nil documents")
)

// Document is a unit of knowledge stored in the index.
type Document struct {
	// ID is the unique document identifier, reported back in citations.
	ID string

	// Content is the text content of the document.
	Content string

	// Metadata contains additional key-value pairs (title, source, ...).
	Metadata map[string]string
}

// Passage is a retrieved snippet with its similarity to the query.
type Passage struct {
	// DocumentID identifies the source document.
	DocumentID string

	// Content is the passage text.
	Content string

	// Similarity is the cosine similarity score (higher = more relevant).
	Similarity float32

	// Metadata carries the stored document metadata.
	Metadata map[string]string
}

// Index is the per-domain vector store contract.
//
// Implementations must be safe for concurrent independent calls: the engine
// fans retrieval out across domains.
type Index interface {
	// TopK returns up to k passages from collection, ordered by descending
	// similarity to the query vector. A collection with no documents yields
	// an empty result, not an error.
	TopK(ctx context.Context, collection string, vector []float32, k int) ([]Passage, error)

	// Upsert embeds and stores documents into collection. Called by the
	// ingestion feed and by seeding, never by the query path.
	Upsert(ctx context.Context, collection string, docs []Document) error

	// Close releases backend resources.
	Close() error
}
