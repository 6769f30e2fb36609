// Package textutil holds the text clean-up shared by every extractor.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	multiSpaces   = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normalize converts extracted text into the canonical form the chunker
// expects: valid UTF-8, "\n" line endings, no control characters, single
// spaces inside lines, no trailing blanks and at most one blank line
// between paragraphs.
func Normalize(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == '\uFEFF' {
			return -1
		}
		return r
	}, s)
	s = multiSpaces.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = multiNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// JoinParagraphs joins non-empty blocks with a blank line so paragraph
// breaks survive as chunk boundaries.
func JoinParagraphs(blocks []string) string {
	kept := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b = strings.TrimSpace(b); b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}
