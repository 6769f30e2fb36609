package extractors

import (
	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// sniffedFormats maps detected MIME types to formats, most specific first.
// text/plain comes last because HTML and markdown sniff as text too.
var sniffedFormats = []struct {
	mime   string
	format domain.Format
}{
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", domain.FormatDOCX},
	{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", domain.FormatXLSX},
	{"application/pdf", domain.FormatPDF},
	{"text/html", domain.FormatHTML},
	{"application/xhtml+xml", domain.FormatHTML},
	{"text/plain", domain.FormatText},
}

// Detect determines the format of a file. The filename extension wins when
// it is recognised; otherwise the content is sniffed. Unrecognised content
// yields domain.FormatUnknown.
func Detect(filename string, content []byte) domain.Format {
	if f := domain.FormatFromExtension(filename); f != domain.FormatUnknown {
		return f
	}
	return Sniff(content)
}

// Sniff determines the format from content alone.
func Sniff(content []byte) domain.Format {
	if len(content) == 0 {
		return domain.FormatUnknown
	}
	for mt := mimetype.Detect(content); mt != nil; mt = mt.Parent() {
		for _, candidate := range sniffedFormats {
			if mt.Is(candidate.mime) {
				return candidate.format
			}
		}
	}
	return domain.FormatUnknown
}
