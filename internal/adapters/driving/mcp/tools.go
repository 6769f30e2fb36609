package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// defaultSearchLimit applies when the caller omits a limit.
const defaultSearchLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 10)"`
	Category   string `json:"category,omitempty" jsonschema:"only search documents in this category"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"only search this document"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single matching chunk.
type SearchResultOutput struct {
	DocumentID   string   `json:"document_id"`
	Filename     string   `json:"filename"`
	Category     string   `json:"category,omitempty"`
	Ordinal      int      `json:"ordinal"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
	Content      string   `json:"content"`
}

// BuildContextInput is the input schema for the build_context tool.
type BuildContextInput struct {
	Query        string `json:"query" jsonschema:"the question to gather context for"`
	BudgetChars  int    `json:"budget_chars,omitempty" jsonschema:"maximum total characters of context"`
	MaxDocuments int    `json:"max_documents,omitempty" jsonschema:"maximum number of distinct source documents"`
}

// BuildContextOutput is the output schema for the build_context tool.
type BuildContextOutput struct {
	// Context is the rendered bundle; empty when nothing relevant was found.
	Context    string        `json:"context"`
	Sources    []string      `json:"sources"`
	Entries    []EntryOutput `json:"entries"`
	TotalChars int           `json:"total_chars"`
	Budget     int           `json:"budget"`
}

// EntryOutput is one admitted chunk.
type EntryOutput struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Ordinal    int     `json:"ordinal"`
	Score      float64 `json:"score"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Filename string `json:"filename" jsonschema:"name of the document, its extension selects the format"`
	Content  string `json:"content" jsonschema:"the document text"`
	Category string `json:"category,omitempty" jsonschema:"grouping label"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
	Format     string `json:"format"`
	ChunkCount int    `json:"chunk_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search indexed document chunks by keyword",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "build_context",
		Description: "Gather the most relevant whole passages for a question, " +
			"limited to a character budget, with source attribution",
	}, s.handleBuildContext)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Add or replace a text document in the index",
		}, s.handleIngest)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	filter := domain.DocumentFilter{Category: input.Category, DocumentID: input.DocumentID}
	results, err := s.ports.Search.Search(ctx, input.Query, limit, filter)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID:   results[i].Document.ID,
			Filename:     results[i].Document.Filename,
			Category:     results[i].Document.Category,
			Ordinal:      results[i].Chunk.Ordinal,
			Score:        results[i].Score,
			MatchedTerms: results[i].MatchedTerms,
			Content:      results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleBuildContext handles the build_context tool invocation.
func (s *Server) handleBuildContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildContextInput,
) (*mcp.CallToolResult, BuildContextOutput, error) {
	budget := input.BudgetChars
	if budget <= 0 {
		budget = orDefault(s.ports.Retrieval.BudgetChars, domain.DefaultBudgetChars)
	}
	maxDocs := input.MaxDocuments
	if maxDocs <= 0 {
		maxDocs = orDefault(s.ports.Retrieval.MaxDocuments, domain.DefaultMaxDocuments)
	}

	bundle, err := s.ports.Context.BuildContext(ctx, input.Query, budget, maxDocs)
	if err != nil {
		return nil, BuildContextOutput{}, err
	}

	output := BuildContextOutput{
		Context:    bundle.Render(),
		Sources:    bundle.Sources(),
		Entries:    make([]EntryOutput, len(bundle.Entries)),
		TotalChars: bundle.TotalChars,
		Budget:     bundle.Budget,
	}
	if output.Sources == nil {
		output.Sources = []string{}
	}
	for i, e := range bundle.Entries {
		output.Entries[i] = EntryOutput{
			DocumentID: e.DocumentID,
			Filename:   e.Filename,
			Ordinal:    e.Ordinal,
			Score:      e.Score,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	res, err := s.ports.Ingest.Ingest(ctx, domain.Upload{
		Filename: input.Filename,
		Category: input.Category,
		Content:  []byte(input.Content),
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{
		DocumentID: res.DocumentID,
		Format:     res.Format.String(),
		ChunkCount: res.ChunkCount,
	}, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
