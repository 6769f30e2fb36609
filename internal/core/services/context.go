package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
	"github.com/custodia-labs/docbase/internal/logger"
)

// Ensure ContextService implements the interface.
var _ driving.ContextService = (*ContextService)(nil)

// ContextService assembles budget-limited grounding context.
type ContextService struct {
	index           driven.IndexStore
	candidateFactor int
}

// NewContextService creates a new context service. candidateFactor
// multiplies maxDocuments to size the candidate search.
func NewContextService(index driven.IndexStore, candidateFactor int) *ContextService {
	if candidateFactor <= 0 {
		candidateFactor = domain.DefaultCandidateFactor
	}
	return &ContextService{index: index, candidateFactor: candidateFactor}
}

// BuildContext selects whole chunks in ranked order until the budget is
// spent. The first pass takes the best fitting chunk of each document, up
// to maxDocuments documents. If budget remains, a second pass adds the
// next best chunk of each admitted document.
func (s *ContextService) BuildContext(
	ctx context.Context, query string, budgetChars, maxDocuments int,
) (*domain.ContextBundle, error) {
	if budgetChars <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive", domain.ErrInvalidInput)
	}
	if maxDocuments <= 0 {
		return nil, fmt.Errorf("%w: max documents must be positive", domain.ErrInvalidInput)
	}

	logger.Section("Build Context")
	bundle := &domain.ContextBundle{Query: query, Budget: budgetChars}
	if strings.TrimSpace(query) == "" {
		return bundle, nil
	}

	limit := maxDocuments * s.candidateFactor
	candidates, err := s.index.Search(ctx, query, limit, domain.DocumentFilter{})
	if err != nil {
		return nil, fmt.Errorf("build context: %w", err)
	}
	logger.Debug("Candidates: %d (limit %d)", len(candidates), limit)

	admitted := make(map[string]int)
	used := make([]bool, len(candidates))

	// First pass: one chunk per document.
	for i, c := range candidates {
		id := c.Document.ID
		if _, ok := admitted[id]; ok || len(admitted) >= maxDocuments {
			continue
		}
		if s.admit(bundle, c) {
			admitted[id] = 1
			used[i] = true
		}
	}

	// Second pass: one more chunk per admitted document.
	for i, c := range candidates {
		id := c.Document.ID
		if used[i] || admitted[id] != 1 {
			continue
		}
		if s.admit(bundle, c) {
			admitted[id]++
			used[i] = true
		}
	}

	sort.SliceStable(bundle.Entries, func(i, j int) bool {
		a, b := bundle.Entries[i], bundle.Entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		return a.Ordinal < b.Ordinal
	})

	logger.Debug("Admitted %d chunks from %d documents, %d/%d chars",
		len(bundle.Entries), len(admitted), bundle.TotalChars, bundle.Budget)
	return bundle, nil
}

// admit adds c to the bundle if it fits whole.
func (s *ContextService) admit(bundle *domain.ContextBundle, c domain.SearchResult) bool {
	if !bundle.Fits(c.Chunk.Content) {
		logger.Debug("Skipping %s: %d chars over budget", c.Chunk.ID(), c.Chunk.Len())
		return false
	}
	bundle.Add(domain.ContextEntry{
		DocumentID: c.Document.ID,
		Filename:   c.Document.Filename,
		Ordinal:    c.Chunk.Ordinal,
		Text:       c.Chunk.Content,
		Score:      c.Score,
	})
	return true
}
