// Package docx extracts paragraph text from Office Open XML word documents.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/extractors/textutil"
)

const documentPart = "word/document.xml"

var errNoDocumentPart = errors.New("archive has no " + documentPart)

// Extract returns the paragraphs of the main document part, tables
// included, separated by blank lines. Content that is not a zip archive or
// lacks the document part is corrupt.
func Extract(content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.Corrupt(domain.FormatDOCX, err)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", domain.Corrupt(domain.FormatDOCX, err)
		}
		defer rc.Close()

		paragraphs, err := parseParagraphs(rc)
		if err != nil {
			return "", domain.Corrupt(domain.FormatDOCX, err)
		}
		return textutil.Normalize(textutil.JoinParagraphs(paragraphs)), nil
	}
	return "", domain.Corrupt(domain.FormatDOCX, errNoDocumentPart)
}

// parseParagraphs streams the document XML and collects the text runs of
// each paragraph.
func parseParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		tabStops   int // inside <w:tabs>, where <w:tab> is a definition
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tabs":
				tabStops++
			case "tab":
				if tabStops == 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "tabs":
				tabStops--
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs, nil
}
