package mcp

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error

	query  string
	limit  int
	filter domain.DocumentFilter
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	limit int,
	filter domain.DocumentFilter,
) ([]domain.SearchResult, error) {
	m.query, m.limit, m.filter = query, limit, filter
	return m.results, m.err
}

// mockContextService is a mock implementation of driving.ContextService.
type mockContextService struct {
	bundle *domain.ContextBundle
	err    error

	budget  int
	maxDocs int
}

func (m *mockContextService) BuildContext(
	_ context.Context, query string, budget, maxDocs int,
) (*domain.ContextBundle, error) {
	m.budget, m.maxDocs = budget, maxDocs
	if m.err != nil {
		return nil, m.err
	}
	if m.bundle == nil {
		return &domain.ContextBundle{Query: query, Budget: budget}, nil
	}
	return m.bundle, nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	err       error

	filter domain.DocumentFilter
}

func (m *mockDocumentService) List(_ context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	m.filter = filter
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Categories(_ context.Context) ([]domain.CategorySummary, error) {
	return nil, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	upload domain.Upload
	result *domain.IngestResult
	err    error
}

func (m *mockIngestService) IngestFile(_ context.Context, _, _ string) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestService) Ingest(_ context.Context, upload domain.Upload) (*domain.IngestResult, error) {
	m.upload = upload
	return m.result, m.err
}

func (m *mockIngestService) IngestBatch(_ context.Context, _, _ string) (*domain.BatchReport, error) {
	return &domain.BatchReport{}, m.err
}

func (m *mockIngestService) RemoveFile(_ context.Context, _ string) error {
	return m.err
}
