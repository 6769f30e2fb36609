package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		count   int
		want    string
	}{
		{"ready", StateReady, "", 0, "Ready"},
		{"searching", StateSearching, "", 0, "Searching..."},
		{"building", StateBuilding, "", 0, "Building context..."},
		{"error with message", StateError, "boom", 0, "Error: boom"},
		{"error", StateError, "", 0, "Error"},
		{"results", StateResults, "", 3, "3 results"},
		{"context", StateContext, "2 chunks, 80/4000 characters", 0, "2 chunks, 80/4000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetResultCount(tt.count)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestStatusBar_Hints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "enter: search")

	bar.SetState(StateResults)
	bar.SetResultCount(2)
	view := bar.View()
	assert.Contains(t, view, "n: new search")
	assert.Contains(t, view, "c: context")
}

func TestKeyHints(t *testing.T) {
	km := keymap.DefaultKeyMap()

	hints := KeyHints(km.DocumentsHelp())

	assert.Contains(t, hints, "[x] delete")
	assert.Contains(t, hints, "[r] reload")
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("failed")
	bar.SetResultCount(4)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.ResultCount())
}
