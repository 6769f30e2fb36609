package services

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docbase/internal/core/domain"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// pad extends s with filler to exactly n characters.
func pad(s string, n int) string {
	return s + strings.Repeat(".", n-utf8.RuneCountInString(s))
}

// seed indexes a document whose chunks are laid end to end.
func seed(t *testing.T, index *memory.IndexStore, id, filename, category string, contents ...string) {
	t.Helper()
	chunks := make([]domain.Chunk, len(contents))
	offset := 0
	for i, c := range contents {
		n := utf8.RuneCountInString(c)
		chunks[i] = domain.Chunk{DocumentID: id, Ordinal: i, Content: c, Start: offset, End: offset + n}
		offset += n
	}
	doc := &domain.Document{
		ID:         id,
		Filename:   filename,
		Format:     domain.FormatText,
		Category:   category,
		UploadedAt: baseTime,
	}
	require.NoError(t, index.Index(context.Background(), doc, chunks))
}
