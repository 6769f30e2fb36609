package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingested documents.
type DocumentService struct {
	index driven.IndexStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(index driven.IndexStore) *DocumentService {
	return &DocumentService{index: index}
}

// List returns documents passing the filter, newest first.
func (s *DocumentService) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	return s.index.ListDocuments(ctx, filter)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.index.GetDocument(ctx, documentID)
}

// GetContent rebuilds the normalized text of a document by stitching its
// chunks together and dropping the overlap each chunk repeats.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	if _, err := s.index.GetDocument(ctx, documentID); err != nil {
		return "", err
	}
	chunks, err := s.index.GetChunks(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("get chunks: %w", err)
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Ordinal < chunks[j].Ordinal
	})

	var sb strings.Builder
	end := 0
	for _, c := range chunks {
		text := []rune(c.Content)
		if skip := end - c.Start; skip > 0 {
			if skip >= len(text) {
				continue
			}
			text = text[skip:]
		}
		sb.WriteString(string(text))
		end = c.End
	}
	return sb.String(), nil
}

// Delete removes a document and all of its chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if _, err := s.index.GetDocument(ctx, documentID); err != nil {
		return err
	}
	return s.index.Remove(ctx, documentID)
}

// Categories counts documents per category, sorted by name.
func (s *DocumentService) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	docs, err := s.index.ListDocuments(ctx, domain.DocumentFilter{})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for i := range docs {
		counts[docs[i].Category]++
	}

	summaries := make([]domain.CategorySummary, 0, len(counts))
	for name, n := range counts {
		summaries = append(summaries, domain.CategorySummary{Name: name, DocumentCount: n})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}
