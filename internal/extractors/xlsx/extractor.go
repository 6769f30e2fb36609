// Package xlsx extracts cell text from Excel workbooks.
package xlsx

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/extractors/textutil"
)

// cellSeparator joins the cells of a row.
const cellSeparator = " | "

// Extract renders every sheet as a "Sheet: <name>" line followed by one
// line per non-empty row. Sheets are separated by a blank line so they
// chunk independently.
func Extract(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", domain.Corrupt(domain.FormatXLSX, err)
	}
	defer f.Close()

	var sheets []string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", domain.Corrupt(domain.FormatXLSX, err)
		}

		lines := []string{"Sheet: " + name}
		for _, row := range rows {
			if line := joinRow(row); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 1 {
			sheets = append(sheets, strings.Join(lines, "\n"))
		}
	}
	return textutil.Normalize(textutil.JoinParagraphs(sheets)), nil
}

// joinRow joins the non-blank cells of a row, or returns "" for an empty row.
func joinRow(row []string) string {
	cells := make([]string, 0, len(row))
	for _, cell := range row {
		if cell = strings.TrimSpace(cell); cell != "" {
			cells = append(cells, cell)
		}
	}
	return strings.Join(cells, cellSeparator)
}
