// Package pdf extracts the text layer of PDF documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/extractors/textutil"
)

// Extract returns the plain text of every page, pages separated by a blank
// line. Scanned pages without a text layer contribute nothing. Content the
// PDF reader rejects, or panics on, is corrupt.
func Extract(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.Corrupt(domain.FormatPDF, fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.Corrupt(domain.FormatPDF, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			font := page.Font(name)
			fonts[name] = &font
		}

		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			return "", domain.Corrupt(domain.FormatPDF, fmt.Errorf("page %d: %w", i, err))
		}
		pages = append(pages, pageText)
	}
	return textutil.Normalize(textutil.JoinParagraphs(pages)), nil
}
