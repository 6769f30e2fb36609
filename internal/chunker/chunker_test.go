package chunker

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

func mustNew(t *testing.T, maxSize, overlap int, opts ...Option) *Chunker {
	t.Helper()
	c, err := New(maxSize, overlap, opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("valid sizes", func(t *testing.T) {
		c := mustNew(t, DefaultChunkSize, DefaultChunkOverlap)
		assert.Equal(t, DefaultChunkSize, c.MaxSize())
		assert.Equal(t, DefaultChunkOverlap, c.Overlap())
		assert.Equal(t, DefaultMinFill, c.minFill)
	})

	t.Run("min fill option", func(t *testing.T) {
		c := mustNew(t, 100, 10, WithMinFill(0.8))
		assert.Equal(t, 0.8, c.minFill)
	})

	t.Run("out of range min fill ignored", func(t *testing.T) {
		c := mustNew(t, 100, 10, WithMinFill(0), WithMinFill(1.5))
		assert.Equal(t, DefaultMinFill, c.minFill)
	})

	tests := []struct {
		name    string
		maxSize int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -5, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.maxSize, tt.overlap)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

			var chunkErr *domain.ChunkingError
			require.True(t, errors.As(err, &chunkErr))
			assert.Equal(t, tt.maxSize, chunkErr.MaxChunkSize)
			assert.Equal(t, tt.overlap, chunkErr.OverlapSize)
		})
	}
}

func TestChunk_EmptyAndWhitespace(t *testing.T) {
	c := mustNew(t, 100, 20)
	for _, text := range []string{"", "   ", "\n\n\t  \n"} {
		assert.Empty(t, c.Chunk("doc", text), "text %q", text)
	}
}

func TestChunk_ShortText(t *testing.T) {
	c := mustNew(t, 100, 20)
	text := "This is a small piece of content."

	chunks := c.Chunk("doc-1", text)
	require.Len(t, chunks, 1)
	assert.Equal(t, "doc-1", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Ordinal)
	assert.Equal(t, text, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, utf8.RuneCountInString(text), chunks[0].End)
}

func TestChunk_NoBoundaries(t *testing.T) {
	c := mustNew(t, 4000, 200)
	text := strings.Repeat("x", 9000)

	chunks := c.Chunk("doc", text)
	require.Len(t, chunks, 3)

	assert.Equal(t, [2]int{0, 4000}, [2]int{chunks[0].Start, chunks[0].End})
	assert.Equal(t, [2]int{3800, 7800}, [2]int{chunks[1].Start, chunks[1].End})
	assert.Equal(t, [2]int{7600, 9000}, [2]int{chunks[2].Start, chunks[2].End})
	assert.Len(t, chunks[2].Content, 1400)
}

func TestChunk_SnapsToParagraph(t *testing.T) {
	c := mustNew(t, 100, 10)
	first := strings.Repeat("a", 70)
	text := first + "\n\n" + strings.Repeat("b", 80)

	chunks := c.Chunk("doc", text)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, 72, chunks[0].End, "cut just past the blank line")
	assert.Equal(t, first+"\n\n", chunks[0].Content)
	assert.Equal(t, 62, chunks[1].Start)
}

func TestChunk_SnapsToSentence(t *testing.T) {
	c := mustNew(t, 100, 10)
	sentence := strings.Repeat("w", 79) + "."
	text := sentence + " " + strings.Repeat("z", 60)

	chunks := c.Chunk("doc", text)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, 80, chunks[0].End)
	assert.True(t, strings.HasSuffix(chunks[0].Content, "."))
}

func TestChunk_IgnoresBoundaryTooEarly(t *testing.T) {
	c := mustNew(t, 100, 10)
	// Paragraph break at offset 12 is well under half the window.
	text := "Short intro.\n\n" + strings.Repeat("q", 200)

	chunks := c.Chunk("doc", text)
	require.NotEmpty(t, chunks)
	assert.Equal(t, 100, chunks[0].End)
}

func TestChunk_MultibyteCharacters(t *testing.T) {
	c := mustNew(t, 10, 2)
	text := strings.Repeat("ə", 25)

	chunks := c.Chunk("doc", text)
	require.Len(t, chunks, 3)
	for _, ch := range chunks {
		assert.True(t, utf8.ValidString(ch.Content))
		assert.LessOrEqual(t, utf8.RuneCountInString(ch.Content), 10)
		assert.Equal(t, ch.End-ch.Start, utf8.RuneCountInString(ch.Content))
	}
}

func TestChunk_Properties(t *testing.T) {
	texts := map[string]string{
		"prose": strings.Repeat("Bu çox böyük bir sənədin məzmunudur. ", 400),
		"paragraphs": strings.Repeat("Məzuniyyət qaydaları.\n\nİllik məzuniyyət hüququ 21 iş günüdür!\n", 150),
		"mixed":      strings.Repeat("alpha beta gamma\ndelta? epsilon… ", 300),
		"dense":      strings.Repeat("0123456789", 777),
	}
	configs := []struct{ size, overlap int }{
		{4000, 200},
		{500, 50},
		{120, 119},
		{64, 0},
	}

	for name, text := range texts {
		runes := []rune(text)
		for _, cfg := range configs {
			c := mustNew(t, cfg.size, cfg.overlap)
			chunks := c.Chunk("doc", text)
			require.NotEmpty(t, chunks, name)

			assert.Equal(t, 0, chunks[0].Start, name)
			assert.Equal(t, len(runes), chunks[len(chunks)-1].End, name)

			for i, ch := range chunks {
				assert.Equal(t, i, ch.Ordinal)
				assert.LessOrEqual(t, ch.Len(), cfg.size, "%s: chunk %d too long", name, i)
				assert.Equal(t, string(runes[ch.Start:ch.End]), ch.Content)

				if i == 0 {
					continue
				}
				prev := chunks[i-1]
				assert.Greater(t, ch.Start, prev.Start, "start must strictly increase")
				assert.LessOrEqual(t, ch.Start, prev.End, "%s: gap before chunk %d", name, i)
				assert.Equal(t, cfg.overlap, prev.End-ch.Start, "%s: overlap before chunk %d", name, i)
			}
		}
	}
}

func TestChunk_Deterministic(t *testing.T) {
	c := mustNew(t, 300, 40)
	text := strings.Repeat("Nazirlik prosedurları. ", 100)
	assert.Equal(t, c.Chunk("doc", text), c.Chunk("doc", text))
}

func TestChunk_IDs(t *testing.T) {
	c := mustNew(t, 10, 0)
	chunks := c.Chunk("doc", strings.Repeat("y", 25))
	require.Len(t, chunks, 3)
	assert.Equal(t, "doc#0", chunks[0].ID())
	assert.Equal(t, "doc#2", chunks[2].ID())
}
