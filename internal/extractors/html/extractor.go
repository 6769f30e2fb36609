// Package html extracts readable text from HTML documents.
package html

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/extractors/textutil"
)

// skipped elements contribute no text at all.
var skipped = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
}

// paragraphs separate their content from the surrounding text by a blank line.
var paragraphs = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Main: true, atom.Aside: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Table: true, atom.Ul: true, atom.Ol: true,
	atom.Dl: true, atom.Hr: true, atom.Figure: true, atom.Form: true,
}

// lines start a new line when they open.
var lines = map[atom.Atom]bool{
	atom.Br: true, atom.Li: true, atom.Tr: true, atom.Dt: true, atom.Dd: true,
	atom.Caption: true,
}

// Extract returns the visible text of an HTML document. The character
// encoding is taken from a BOM or <meta> declaration and defaults to
// UTF-8. Malformed markup is tolerated; only an undecodable stream fails.
func Extract(content []byte) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(content), "text/html")
	if err != nil {
		return "", domain.Corrupt(domain.FormatHTML, err)
	}

	var b strings.Builder
	depth := 0 // nesting inside skipped elements

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", domain.Corrupt(domain.FormatHTML, err)
			}
			return textutil.Normalize(b.String()), nil

		case html.TextToken:
			if depth == 0 {
				b.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			if skipped[tag] {
				if tt == html.StartTagToken {
					depth++
				}
				continue
			}
			if depth == 0 {
				b.WriteString(openSeparator(tag))
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			if skipped[tag] {
				if depth > 0 {
					depth--
				}
				continue
			}
			if depth == 0 {
				b.WriteString(closeSeparator(tag))
			}
		}
	}
}

func openSeparator(tag atom.Atom) string {
	switch {
	case paragraphs[tag]:
		return "\n\n"
	case lines[tag]:
		return "\n"
	case tag == atom.Td || tag == atom.Th:
		return " "
	}
	return ""
}

func closeSeparator(tag atom.Atom) string {
	switch {
	case paragraphs[tag]:
		return "\n\n"
	case tag == atom.Td || tag == atom.Th:
		return " "
	}
	return ""
}
