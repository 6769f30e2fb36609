// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/lexical"
)

// ResultList displays ranked chunks in a navigable list.
type ResultList struct {
	results  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results))), "")

	// Each result takes two lines plus a blank.
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.results))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats a single result: filename, ordinal and score on the
// first line, a preview with matched terms highlighted on the second.
func (r *ResultList) renderResult(index int, result *domain.SearchResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxTitleLen := max(r.width-20, 10)
	title := Truncate(fmt.Sprintf("%s #%d", result.Document.Filename, result.Chunk.Ordinal), maxTitleLen)
	score := fmt.Sprintf("%.2f", result.Score)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			r.styles.Score.Render(score)
	}

	preview := Truncate(strings.Join(strings.Fields(result.Chunk.Content), " "), max(r.width-6, 20))
	return titleLine + "\n    " + r.highlight(preview, result.MatchedTerms) + "\n"
}

// highlight renders words whose terms were matched in the Match style.
func (r *ResultList) highlight(text string, matched []string) string {
	if len(matched) == 0 {
		return r.styles.Muted.Render(text)
	}
	want := make(map[string]bool, len(matched))
	for _, t := range matched {
		want[t] = true
	}

	words := strings.Fields(text)
	out := make([]string, len(words))
	for i, w := range words {
		hit := false
		for _, term := range lexical.Tokenize(w) {
			if want[term] {
				hit = true
				break
			}
		}
		if hit {
			out[i] = r.styles.Match.Render(w)
		} else {
			out[i] = r.styles.Muted.Render(w)
		}
	}
	return strings.Join(out, " ")
}

// Truncate shortens s to at most n characters, ending in "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetResults updates the result list.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
