// Package lexical implements the term-overlap relevance model shared by the
// index store adapters.
//
// Text is tokenized into lower-case runs of letters, digits and combining
// marks; everything else separates terms. A chunk scores 1+ln(tf) for every
// distinct query term it contains, and the total is multiplied by
// PhraseBoost when a multi-term query appears verbatim.
package lexical

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// PhraseBoost multiplies the score of chunks containing the whole query phrase.
const PhraseBoost = 2.0

// Tokenize splits text into lower-case terms.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), isSeparator)
}

// QueryTerms tokenizes a query and drops duplicate terms, keeping first
// occurrence order.
func QueryTerms(query string) []string {
	tokens := Tokenize(query)
	seen := make(map[string]bool, len(tokens))
	terms := tokens[:0]
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}
	return terms
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsMark(r)
}

// Query is a parsed search query, reusable across many chunks.
type Query struct {
	terms  []string
	phrase string
}

// NewQuery parses a raw query string.
func NewQuery(raw string) Query {
	terms := QueryTerms(raw)
	return Query{
		terms:  terms,
		phrase: strings.Join(Tokenize(raw), " "),
	}
}

// Terms returns the distinct query terms.
func (q Query) Terms() []string { return q.terms }

// IsEmpty reports whether the query has no searchable terms.
func (q Query) IsEmpty() bool { return len(q.terms) == 0 }

// Score rates text against the query. It returns 0 and no terms when
// nothing matches.
func (q Query) Score(text string) (float64, []string) {
	if q.IsEmpty() {
		return 0, nil
	}
	tokens := Tokenize(text)
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}

	var score float64
	var matched []string
	for _, term := range q.terms {
		if n := tf[term]; n > 0 {
			score += 1 + math.Log(float64(n))
			matched = append(matched, term)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}

	if len(q.terms) > 1 && strings.Contains(" "+strings.Join(tokens, " ")+" ", " "+q.phrase+" ") {
		score *= PhraseBoost
	}
	return score, matched
}

// Rank scores candidate results in place, drops non-matching ones, sorts
// them by descending score, then earlier upload, then lower ordinal, and
// truncates to limit when limit > 0.
func Rank(q Query, candidates []domain.SearchResult, limit int) []domain.SearchResult {
	results := candidates[:0]
	for _, c := range candidates {
		score, matched := q.Score(c.Chunk.Content)
		if score == 0 {
			continue
		}
		c.Score = score
		c.MatchedTerms = matched
		results = append(results, c)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return Less(results[i], results[j])
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Less orders search results: higher score first, then earlier upload,
// then lower ordinal, then document id.
func Less(a, b domain.SearchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.Document.UploadedAt.Equal(b.Document.UploadedAt) {
		return a.Document.UploadedAt.Before(b.Document.UploadedAt)
	}
	if a.Chunk.Ordinal != b.Chunk.Ordinal {
		return a.Chunk.Ordinal < b.Chunk.Ordinal
	}
	return a.Document.ID < b.Document.ID
}
