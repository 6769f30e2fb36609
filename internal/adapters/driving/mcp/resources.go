package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for docbase resources.
	uriScheme = "docbase://"
)

// documentInfo is the JSON shape of a document in resource listings.
type documentInfo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Format     string    `json:"format"`
	Category   string    `json:"category,omitempty"`
	SizeBytes  int64     `json:"size_bytes"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
	URI        string    `json:"uri"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all ingested documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for documents in a category.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "categories/{category}/documents",
		Name:        "category-documents",
		Description: "Documents ingested under a specific category",
		MIMEType:    "application/json",
	}, s.handleCategoryDocumentsResource)

	// Template for document content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Normalized text of a specific document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleDocumentsResource returns every ingested document.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}
	return s.listDocuments(ctx, req.Params.URI, domain.DocumentFilter{})
}

// handleCategoryDocumentsResource returns documents for a category.
func (s *Server) handleCategoryDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract category from URI: docbase://categories/{category}/documents
	category := extractCategory(req.Params.URI)
	if category == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.listDocuments(ctx, req.Params.URI, domain.DocumentFilter{Category: category})
}

func (s *Server) listDocuments(
	ctx context.Context, uri string, filter domain.DocumentFilter,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Document.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]documentInfo, len(docs))
	for i := range docs {
		infos[i] = documentInfo{
			ID:         docs[i].ID,
			Filename:   docs[i].Filename,
			Format:     docs[i].Format.String(),
			Category:   docs[i].Category,
			SizeBytes:  docs[i].SizeBytes,
			ChunkCount: docs[i].ChunkCount,
			UploadedAt: docs[i].UploadedAt,
			URI:        uriScheme + "documents/" + docs[i].ID,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}
	return jsonResult(uri, string(data)), nil
}

// handleDocumentContentResource returns the content of a specific document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: docbase://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, err := s.ports.Document.GetContent(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document content: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		}},
	}, nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractCategory extracts the category from a URI like
// docbase://categories/{category}/documents. Categories may be
// percent-encoded.
func extractCategory(uri string) string {
	const prefix = uriScheme + "categories/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	category, err := url.PathUnescape(strings.TrimSuffix(uri, suffix))
	if err != nil {
		return ""
	}
	return category
}

// extractDocumentID extracts the document ID from a URI like docbase://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
