// Package memory provides in-memory implementations of driven ports, used
// by tests and by the CLI's --ephemeral mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/lexical"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
// Searches scan every chunk; it is meant for small corpora.
type IndexStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	closed    bool
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// Index stores doc and replaces its chunks under a single lock.
func (s *IndexStore) Index(_ context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	doc.ChunkCount = len(chunks)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed("index")
	}
	s.documents[doc.ID] = *doc
	s.chunks[doc.ID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// Search scores every chunk passing the filter.
func (s *IndexStore) Search(_ context.Context, query string, limit int, filter domain.DocumentFilter) ([]domain.SearchResult, error) {
	q := lexical.NewQuery(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed("search")
	}
	if q.IsEmpty() {
		return nil, nil
	}

	var candidates []domain.SearchResult
	for id, doc := range s.documents {
		if !filter.Matches(&doc) {
			continue
		}
		for _, c := range s.chunks[id] {
			candidates = append(candidates, domain.SearchResult{Document: doc, Chunk: c})
		}
	}
	return lexical.Rank(q, candidates, limit), nil
}

// Remove deletes a document and its chunks.
func (s *IndexStore) Remove(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed("remove")
	}
	delete(s.documents, documentID)
	delete(s.chunks, documentID)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *IndexStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed("get")
	}
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns documents passing the filter, newest first.
func (s *IndexStore) ListDocuments(_ context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed("list")
	}

	var docs []domain.Document
	for _, doc := range s.documents {
		if filter.Matches(&doc) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// GetChunks returns a document's chunks in ordinal order.
func (s *IndexStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed("chunks")
	}
	chunks := append([]domain.Chunk(nil), s.chunks[documentID]...)
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Ordinal < chunks[j].Ordinal })
	return chunks, nil
}

// Close marks the store closed; later calls fail with ErrStorageUnavailable.
func (s *IndexStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func errClosed(op string) error {
	return &domain.IndexError{Kind: domain.ErrStorageUnavailable, Op: op, Err: fmt.Errorf("store is closed")}
}
