// Package tui provides an interactive terminal user interface for docbase.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides ranked chunk search.
	Search driving.SearchService

	// Context assembles grounding context for a query.
	Context driving.ContextService

	// Document lists, reads and deletes indexed documents.
	Document driving.DocumentService

	// Retrieval holds the default context budget and document cap.
	Retrieval domain.RetrievalSettings
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	search driving.SearchService,
	contexts driving.ContextService,
	documents driving.DocumentService,
	retrieval domain.RetrievalSettings,
) *Ports {
	return &Ports{
		Search:    search,
		Context:   contexts,
		Document:  documents,
		Retrieval: retrieval,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Context == nil {
		return ErrMissingContextService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
