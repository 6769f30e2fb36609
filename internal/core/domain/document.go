package domain

import "time"

// Document represents an ingested file after successful extraction.
// Its chunks are owned exclusively by it and are removed with it.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the base name of the uploaded file.
	Filename string

	// Path is the original location on disk, empty for in-memory uploads.
	Path string

	// Format is the declared or sniffed document format.
	Format Format

	// Category is a free-form grouping label.
	Category string

	// SizeBytes is the raw size of the uploaded content.
	SizeBytes int64

	// UploadedAt is when the document was (last) ingested.
	UploadedAt time.Time

	// ChunkCount is the number of chunks the normalized text was split into.
	ChunkCount int
}

// Chunk is a bounded slice of a document's normalized text.
// Chunks are immutable once created.
type Chunk struct {
	// DocumentID links to the owning Document.
	DocumentID string

	// Ordinal is the 0-based position within the document and defines
	// reconstruction order.
	Ordinal int

	// Content is the text of this chunk.
	Content string

	// Start is the offset (in characters) of the first character of
	// Content within the normalized text.
	Start int

	// End is the exclusive end offset within the normalized text.
	End int
}

// ID returns the composite identifier of the chunk.
func (c Chunk) ID() string {
	return ChunkID(c.DocumentID, c.Ordinal)
}

// Len returns the length of the chunk in characters.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// DocumentFilter narrows document listings and searches.
// Empty fields match everything.
type DocumentFilter struct {
	// Category restricts results to a single category.
	Category string

	// DocumentID restricts results to a single document.
	DocumentID string
}

// Matches reports whether doc passes the filter.
func (f DocumentFilter) Matches(doc *Document) bool {
	if f.Category != "" && doc.Category != f.Category {
		return false
	}
	if f.DocumentID != "" && doc.ID != f.DocumentID {
		return false
	}
	return true
}

// CategorySummary counts the documents stored under a category.
type CategorySummary struct {
	Name          string
	DocumentCount int
}
