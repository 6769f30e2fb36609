// Package chunker splits normalized text into overlapping, size-bounded chunks.
//
// Offsets and sizes are measured in characters (Unicode code points), so a
// chunk never splits a multi-byte character.
package chunker

import (
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Defaults shared with the application settings.
const (
	DefaultChunkSize    = domain.DefaultChunkSize
	DefaultChunkOverlap = domain.DefaultChunkOverlap

	// DefaultMinFill is the fraction of the window a snapped chunk must
	// fill. Boundaries closer to the window start are ignored.
	DefaultMinFill = domain.DefaultMinFill
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker splits text into windows of at most maxSize characters, snapping
// each cut to a paragraph or sentence boundary when one is close enough to
// the end of the window.
type Chunker struct {
	maxSize int
	overlap int
	minFill float64
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMinFill sets the minimum fraction of the window a boundary-snapped
// chunk must cover. Values outside (0, 1] are ignored.
func WithMinFill(f float64) Option {
	return func(c *Chunker) {
		if f > 0 && f <= 1 {
			c.minFill = f
		}
	}
}

// New creates a chunker. It fails with a *domain.ChunkingError when the
// sizes cannot work together.
func New(maxSize, overlap int, opts ...Option) (*Chunker, error) {
	if err := Validate(maxSize, overlap); err != nil {
		return nil, err
	}
	c := &Chunker{
		maxSize: maxSize,
		overlap: overlap,
		minFill: DefaultMinFill,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Validate checks a chunk size and overlap pair.
func Validate(maxSize, overlap int) error {
	return domain.ValidateChunking(maxSize, overlap)
}

// MaxSize returns the configured chunk size.
func (c *Chunker) MaxSize() int { return c.maxSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text into chunks owned by documentID.
//
// Consecutive chunks share exactly the configured overlap; the final chunk
// may be shorter. Empty or whitespace-only text yields nil.
func (c *Chunker) Chunk(documentID, text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)

	// Boundaries nearer the start than this are ignored. Keeping it past
	// the overlap guarantees the next window starts further on.
	minAdvance := int(float64(c.maxSize) * c.minFill)
	if minAdvance <= c.overlap {
		minAdvance = c.overlap + 1
	}

	chunks := make([]domain.Chunk, 0, n/(c.maxSize-c.overlap)+1)
	start := 0
	for start < n {
		end := start + c.maxSize
		if end >= n {
			end = n
		} else if b := boundary(runes, start+minAdvance, end); b > 0 {
			end = b
		}

		chunks = append(chunks, domain.Chunk{
			DocumentID: documentID,
			Ordinal:    len(chunks),
			Content:    string(runes[start:end]),
			Start:      start,
			End:        end,
		})

		if end == n {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Snapping left no progress; fall back to the hard cut.
			next = start + c.maxSize - c.overlap
		}
		start = next
	}
	return chunks
}

// boundary returns the offset just past the last paragraph break in
// runes[from:to], else just past the last sentence end, else 0.
func boundary(runes []rune, from, to int) int {
	if from >= to {
		return 0
	}
	for i := to - 1; i > from; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := to - 2; i >= from; i-- {
		if isSentenceEnd(runes[i]) && isSpace(runes[i+1]) {
			return i + 1
		}
	}
	return 0
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '\n':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
