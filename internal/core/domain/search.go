package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ChunkID builds the composite identifier of a chunk.
func ChunkID(documentID string, ordinal int) string {
	return fmt.Sprintf("%s#%d", documentID, ordinal)
}

// SearchResult represents a single ranked chunk hit.
// It is produced per query and never persisted.
type SearchResult struct {
	// Document is the owning document.
	Document Document

	// Chunk is the chunk that matched.
	Chunk Chunk

	// Score is the lexical relevance score.
	Score float64

	// MatchedTerms lists the query terms found in the chunk.
	MatchedTerms []string
}

// ContextEntry is one admitted chunk of a context bundle.
type ContextEntry struct {
	DocumentID string
	Filename   string
	Ordinal    int
	Text       string
	Score      float64
}

// ContextBundle is the ranked, budget-limited set of chunks handed to the
// answering collaborator.
type ContextBundle struct {
	// Query is the query the bundle was built for.
	Query string

	// Entries are ordered by descending score, then document id, then ordinal.
	Entries []ContextEntry

	// TotalChars is the sum of entry text lengths in characters.
	TotalChars int

	// Budget is the character budget the bundle was assembled under.
	Budget int
}

// IsEmpty reports whether no relevant chunk was found.
func (b *ContextBundle) IsEmpty() bool {
	return b == nil || len(b.Entries) == 0
}

// Fits reports whether text can be added without exceeding the budget.
func (b *ContextBundle) Fits(text string) bool {
	return b.TotalChars+utf8.RuneCountInString(text) <= b.Budget
}

// Add appends an entry and updates the running total.
// Callers check Fits first.
func (b *ContextBundle) Add(e ContextEntry) {
	b.Entries = append(b.Entries, e)
	b.TotalChars += utf8.RuneCountInString(e.Text)
}

// Sources returns the distinct filenames in entry order.
func (b *ContextBundle) Sources() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range b.Entries {
		if !seen[e.Filename] {
			seen[e.Filename] = true
			names = append(names, e.Filename)
		}
	}
	return names
}

// Render formats the bundle as the context string passed to the assistant.
// An empty bundle renders as the empty string.
func (b *ContextBundle) Render() string {
	if b.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	for i, e := range b.Entries {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] %s (score %.2f)\n", i+1, e.Filename, e.Score)
		sb.WriteString(e.Text)
	}
	return sb.String()
}
