package mcp

import (
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides ranked chunk search.
	Search driving.SearchService

	// Context assembles budgeted grounding context.
	Context driving.ContextService

	// Document manages ingested documents. Optional.
	Document driving.DocumentService

	// Ingest accepts uploaded text. Optional; the ingest tool is only
	// registered when set.
	Ingest driving.IngestService

	// Retrieval supplies defaults for build_context arguments.
	Retrieval domain.RetrievalSettings
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Context == nil {
		return ErrMissingContextService
	}
	return nil
}
