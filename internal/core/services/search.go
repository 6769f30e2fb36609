package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
	"github.com/custodia-labs/docbase/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit is used when the caller passes a non-positive limit.
const DefaultSearchLimit = 20

// SearchService provides ranked lexical search.
type SearchService struct {
	index driven.IndexStore
}

// NewSearchService creates a new search service.
func NewSearchService(index driven.IndexStore) *SearchService {
	return &SearchService{index: index}
}

// Search returns the best matching chunks across indexed documents.
func (s *SearchService) Search(
	ctx context.Context, query string, limit int, filter domain.DocumentFilter,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results, err := s.index.Search(ctx, query, limit, filter)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Debug("Results: %d (limit %d)", len(results), limit)
	return results, nil
}
