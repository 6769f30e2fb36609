package driving

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// DocumentService manages ingested documents.
type DocumentService interface {
	// List returns documents passing the filter.
	List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent reconstructs the normalized text from the stored chunks.
	GetContent(ctx context.Context, documentID string) (string, error)

	// Delete removes a document and all of its chunks.
	Delete(ctx context.Context, documentID string) error

	// Categories summarises document counts per category.
	Categories(ctx context.Context) ([]domain.CategorySummary, error)
}
