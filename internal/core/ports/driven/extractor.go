package driven

import "github.com/custodia-labs/docbase/internal/core/domain"

// Extractor converts raw document bytes into a single normalized text string.
// Implementations have no side effects.
type Extractor interface {
	// Detect resolves the format of a file from its name, falling back to
	// content sniffing. It returns domain.FormatUnknown when neither helps.
	Detect(filename string, content []byte) domain.Format

	// Extract returns the normalized text, or an *domain.ExtractionError
	// carrying ErrUnsupportedFormat or ErrCorruptInput.
	Extract(content []byte, format domain.Format) (string, error)
}
