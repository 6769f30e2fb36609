package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

func testResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Document:     domain.Document{ID: "doc-hr", Filename: "hr.md"},
			Chunk:        domain.Chunk{DocumentID: "doc-hr", Ordinal: 0, Content: "HR əlaqə:\n gunel.mammadova@nazirlik.gov.az"},
			Score:        1.25,
			MatchedTerms: []string{"əlaqə"},
		},
		{
			Document: domain.Document{ID: "doc-leave", Filename: "leave.txt"},
			Chunk:    domain.Chunk{DocumentID: "doc-leave", Ordinal: 3, Content: "İllik məzuniyyət"},
			Score:    0.5,
		},
	}
}

func TestNewResultList(t *testing.T) {
	r := NewResultList(nil)

	require.NotNil(t, r)
	assert.Zero(t, r.Count())
	assert.Nil(t, r.SelectedResult())
	assert.Nil(t, r.Init())
	assert.Contains(t, r.View(), "No results")
}

func TestResultList_View(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(100, 20)
	r.SetResults(testResults())

	view := r.View()
	assert.Contains(t, view, "Results (2)")
	assert.Contains(t, view, "hr.md #0")
	assert.Contains(t, view, "1.25")
	assert.Contains(t, view, "leave.txt #3")
	assert.Contains(t, view, "əlaqə:")
	assert.Contains(t, view, "gunel.mammadova@nazirlik.gov.az")
}

func TestResultList_Navigation(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(testResults())

	r.MoveUp()
	assert.Equal(t, 0, r.Selected())

	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, r.Selected())

	r.MoveDown()
	assert.Equal(t, 1, r.Selected())
	assert.Equal(t, "doc-leave", r.SelectedResult().Document.ID)

	r.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, r.Selected())
}

func TestResultList_SetResultsResetsSelection(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(testResults())
	r.MoveDown()

	r.SetResults(testResults()[:1])

	assert.Equal(t, 0, r.Selected())
	assert.Len(t, r.Results(), 1)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated text", 8, "trunc..."},
		{"məzuniyyət", 6, "məz..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.n), tt.in)
	}
}
