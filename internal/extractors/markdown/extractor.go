// Package markdown extracts prose from markdown documents.
package markdown

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/docbase/internal/extractors/textutil"
)

// Pre-compiled regular expressions for markdown stripping.
var (
	fenceLine     = regexp.MustCompile("(?m)^[ \t]*(```|~~~).*$")
	inlineCode    = regexp.MustCompile("`([^`\n]+)`")
	images        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	refLinks      = regexp.MustCompile(`\[([^\]]+)\]\[[^\]]*\]`)
	linkDefs      = regexp.MustCompile(`(?m)^[ \t]{0,3}\[[^\]]+\]:[ \t]+\S+.*$`)
	autoLinks     = regexp.MustCompile(`<((?:https?|mailto):[^>\s]+)>`)
	htmlTags      = regexp.MustCompile(`</?[a-zA-Z][^>\n]*>`)
	headings      = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+(.*?)[ \t]*#*[ \t]*$`)
	setextRules   = regexp.MustCompile(`(?m)^[ \t]{0,3}(=+|-+)[ \t]*$`)
	boldStars     = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	boldUnders    = regexp.MustCompile(`\b__([^_\n]+)__\b`)
	italicStars   = regexp.MustCompile(`\*([^*\n]+)\*`)
	italicUnders  = regexp.MustCompile(`\b_([^_\n]+)_\b`)
	strike        = regexp.MustCompile(`~~([^~\n]+)~~`)
	blockquote    = regexp.MustCompile(`(?m)^[ \t]{0,3}>[ \t]?`)
	horizontal    = regexp.MustCompile(`(?m)^[ \t]{0,3}([-*_][ \t]*){3,}$`)
	listMarkers   = regexp.MustCompile(`(?m)^([ \t]*)[-*+][ \t]+(\[[ xX]\][ \t]+)?`)
	tableDivider  = regexp.MustCompile(`(?m)^[ \t]*\|?[ \t]*:?-{3,}:?[ \t]*(\|[ \t]*:?-{3,}:?[ \t]*)*\|?[ \t]*$`)
	tableEdges    = regexp.MustCompile(`(?m)^[ \t]*\|(.*)\|[ \t]*$`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	frontMatter   = regexp.MustCompile(`(?s)\A---\n.*?\n---\n`)
	escapedSymbol = regexp.MustCompile(`\\([\\` + "`" + `*_{}\[\]()#+\-.!|>~])`)
)

// Extract strips markdown syntax and returns plain prose. Headings, list
// items and table rows keep their text; code fences keep their contents.
// Paragraph breaks are preserved as blank lines. Markdown never fails to
// extract.
func Extract(content []byte) (string, error) {
	return textutil.Normalize(Strip(string(content))), nil
}

// Strip removes markdown formatting from s.
func Strip(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = frontMatter.ReplaceAllString(s, "")
	s = htmlComments.ReplaceAllString(s, "")

	// Fences go first so the code they contain is kept verbatim below.
	s = fenceLine.ReplaceAllString(s, "")
	s = inlineCode.ReplaceAllString(s, "$1")

	s = images.ReplaceAllString(s, "$1")
	s = links.ReplaceAllString(s, "$1")
	s = refLinks.ReplaceAllString(s, "$1")
	s = linkDefs.ReplaceAllString(s, "")
	s = autoLinks.ReplaceAllString(s, "$1")
	s = htmlTags.ReplaceAllString(s, "")

	// A heading ends its paragraph.
	s = headings.ReplaceAllString(s, "$1\n")
	s = setextRules.ReplaceAllString(s, "")
	s = horizontal.ReplaceAllString(s, "")

	s = boldStars.ReplaceAllString(s, "$1")
	s = boldUnders.ReplaceAllString(s, "$1")
	s = italicStars.ReplaceAllString(s, "$1")
	s = italicUnders.ReplaceAllString(s, "$1")
	s = strike.ReplaceAllString(s, "$1")

	s = blockquote.ReplaceAllString(s, "")
	s = listMarkers.ReplaceAllString(s, "$1")

	s = tableDivider.ReplaceAllString(s, "")
	s = tableEdges.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, " | ", " ")

	return escapedSymbol.ReplaceAllString(s, "$1")
}
