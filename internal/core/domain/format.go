package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the closed set of document formats the extractor understands.
type Format string

// Supported formats.
const (
	// FormatUnknown is the zero value; it is never extractable.
	FormatUnknown Format = ""

	// FormatText is plain UTF-8 text.
	FormatText Format = "text"

	// FormatMarkdown is CommonMark-style markdown.
	FormatMarkdown Format = "markdown"

	// FormatHTML is an HTML or XHTML page.
	FormatHTML Format = "html"

	// FormatDOCX is an Office Open XML word-processing document.
	FormatDOCX Format = "docx"

	// FormatXLSX is an Office Open XML spreadsheet.
	FormatXLSX Format = "xlsx"

	// FormatPDF is a portable document.
	FormatPDF Format = "pdf"
)

// AllFormats lists every supported format.
func AllFormats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatHTML, FormatDOCX, FormatXLSX, FormatPDF}
}

// IsValid returns true if the format is in the supported set.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatHTML, FormatDOCX, FormatXLSX, FormatPDF:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Format) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// ParseFormat parses a format name as accepted on the command line.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "txt", "plain":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case "htm", "xhtml":
		return FormatHTML, nil
	}
	if !f.IsValid() {
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// extensionFormats maps lower-case file extensions to formats.
var extensionFormats = map[string]Format{
	".txt":      FormatText,
	".text":     FormatText,
	".log":      FormatText,
	".csv":      FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".mdown":    FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".xhtml":    FormatHTML,
	".docx":     FormatDOCX,
	".xlsx":     FormatXLSX,
	".xlsm":     FormatXLSX,
	".pdf":      FormatPDF,
}

// FormatFromExtension returns the format implied by the filename extension,
// or FormatUnknown when the extension is not recognised.
func FormatFromExtension(filename string) Format {
	return extensionFormats[strings.ToLower(filepath.Ext(filename))]
}
