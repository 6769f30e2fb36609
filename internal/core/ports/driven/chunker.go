package driven

import "github.com/custodia-labs/docbase/internal/core/domain"

// Chunker splits normalized text into ordered, overlapping chunks.
// Empty or whitespace-only text yields no chunks.
type Chunker interface {
	Chunk(documentID, text string) []domain.Chunk
}
