package extractors

import (
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/extractors/docx"
	"github.com/custodia-labs/docbase/internal/extractors/html"
	"github.com/custodia-labs/docbase/internal/extractors/markdown"
	"github.com/custodia-labs/docbase/internal/extractors/pdf"
	"github.com/custodia-labs/docbase/internal/extractors/plaintext"
	"github.com/custodia-labs/docbase/internal/extractors/xlsx"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor dispatches extraction to the strategy for each format.
type Extractor struct{}

// New creates a new extractor.
func New() *Extractor {
	return &Extractor{}
}

// Detect resolves the format of a file. See the package-level Detect.
func (e *Extractor) Detect(filename string, content []byte) domain.Format {
	return Detect(filename, content)
}

// Extract converts content of the given format into normalized text.
// Formats outside the supported set fail with ErrUnsupportedFormat.
func (e *Extractor) Extract(content []byte, format domain.Format) (string, error) {
	switch format {
	case domain.FormatText:
		return plaintext.Extract(content)
	case domain.FormatMarkdown:
		return markdown.Extract(content)
	case domain.FormatHTML:
		return html.Extract(content)
	case domain.FormatDOCX:
		return docx.Extract(content)
	case domain.FormatXLSX:
		return xlsx.Extract(content)
	case domain.FormatPDF:
		return pdf.Extract(content)
	default:
		return "", domain.Unsupported(format)
	}
}
