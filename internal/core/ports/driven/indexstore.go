package driven

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// IndexStore persists documents with their chunks and answers ranked
// lexical queries over chunk text.
//
// Failures are reported as *domain.IndexError so callers can tell a
// write conflict from an unreachable store.
type IndexStore interface {
	// Index stores doc and replaces every chunk it previously owned with
	// chunks. The replacement is atomic: concurrent searches observe either
	// the old or the new chunk set. doc.ChunkCount is set from len(chunks).
	Index(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// Search returns chunks matching at least one query term, ordered by
	// descending score, then earlier upload, then lower ordinal.
	Search(ctx context.Context, query string, limit int, filter domain.DocumentFilter) ([]domain.SearchResult, error)

	// Remove deletes a document and all of its chunks atomically.
	// Removing an unknown id is not an error.
	Remove(ctx context.Context, documentID string) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns documents passing the filter, newest first.
	ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)

	// GetChunks returns a document's chunks in ordinal order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}
