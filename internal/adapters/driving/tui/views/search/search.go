// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// DefaultLimit is the number of ranked chunks requested per search.
const DefaultLimit = 20

// View represents the search view with input, results list, and status bar.
// In results mode "c" toggles between the ranked chunks and the context
// bundle the answering collaborator would receive for the same query.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService  driving.SearchService
	contextService driving.ContextService
	retrieval      domain.RetrievalSettings
	ctx            context.Context

	width       int
	height      int
	ready       bool
	err         error
	focusInput  bool // true = input mode (typing), false = results mode (navigating)
	lastQuery   string
	bundle      *domain.ContextBundle
	showContext bool
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	contextService driving.ContextService,
	retrieval domain.RetrievalSettings,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:         s,
		keymap:         km,
		input:          input.NewSearchInput(s),
		list:           list.NewResultList(s),
		statusbar:      status.NewBar(s, km),
		searchService:  searchService,
		contextService: contextService,
		retrieval:      retrieval,
		ctx:            context.Background(),
		width:          80,
		height:         24,
		focusInput:     true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ContextBuilt:
		v.handleContextBuilt(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	var listCmd tea.Cmd
	v.list, listCmd = v.list.Update(msg)
	if listCmd != nil {
		cmds = append(cmds, listCmd)
	}

	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if v.showContext {
			v.showContext = false
			v.statusbar.SetState(status.StateResults)
			v.statusbar.SetMessage("")
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if msg.Type == tea.KeyEnter && v.focusInput {
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		v.statusbar.SetState(status.StateSearching)
		v.focusInput = false
		v.input.Blur()
		return v, v.performSearch(query)
	}

	if v.focusInput {
		v.input, _ = v.input.Update(msg)
		return v, nil
	}

	if msg.Type == tea.KeyEnter && !v.showContext {
		result := v.list.SelectedResult()
		if result == nil {
			return v, nil
		}
		id := result.Document.ID
		return v, func() tea.Msg {
			return messages.DocumentSelected{DocumentID: id, Back: messages.ViewSearch}
		}
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.list.MoveUp()
		return v, nil
	case tea.KeyDown:
		v.list.MoveDown()
		return v, nil
	}

	switch msg.String() {
	case "k":
		v.list.MoveUp()
	case "j":
		v.list.MoveDown()
	case "n":
		v.focusInput = true
		v.showContext = false
		v.input.Focus()
		v.input.SetValue("")
	case "c":
		return v.toggleContext()
	}

	return v, nil
}

// toggleContext switches to the context bundle, building it on first use.
func (v *View) toggleContext() (*View, tea.Cmd) {
	if v.showContext {
		v.showContext = false
		v.statusbar.SetState(status.StateResults)
		v.statusbar.SetMessage("")
		return v, nil
	}
	if v.lastQuery == "" {
		return v, nil
	}
	if v.bundle != nil && v.bundle.Query == v.lastQuery {
		v.showBundle()
		return v, nil
	}
	v.statusbar.SetState(status.StateBuilding)
	return v, v.buildContext(v.lastQuery)
}

// performSearch executes a search and returns results.
func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		results, err := v.searchService.Search(v.ctx, query, DefaultLimit, domain.DocumentFilter{})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// buildContext assembles the context bundle under the configured defaults.
func (v *View) buildContext(query string) tea.Cmd {
	return func() tea.Msg {
		if v.contextService == nil {
			return messages.ErrorOccurred{Err: ErrNoContextService}
		}

		bundle, err := v.contextService.BuildContext(v.ctx, query, v.retrieval.BudgetChars, v.retrieval.MaxDocuments)
		return messages.ContextBuilt{Bundle: bundle, Err: err}
	}
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.lastQuery = msg.Query
	v.bundle = nil
	v.showContext = false
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))

	v.focusInput = false
	v.input.Blur()
}

// handleContextBuilt stores the bundle and switches to context mode.
func (v *View) handleContextBuilt(msg messages.ContextBuilt) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.bundle = msg.Bundle
	v.showBundle()
}

func (v *View) showBundle() {
	v.showContext = true
	v.statusbar.SetState(status.StateContext)
	if v.bundle.IsEmpty() {
		v.statusbar.SetMessage("No relevant context")
		return
	}
	v.statusbar.SetMessage(fmt.Sprintf("%d chunks, %d/%d characters",
		len(v.bundle.Entries), v.bundle.TotalChars, v.bundle.Budget))
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("docbase"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.showContext {
		sections = append(sections, v.renderContext())
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderContext renders the bundle entries, clipped to the view height.
func (v *View) renderContext() string {
	if v.bundle.IsEmpty() {
		return v.styles.Muted.Render("No relevant context found.")
	}

	lines := []string{v.styles.Subtitle.Render("Context"), ""}
	for i, e := range v.bundle.Entries {
		lines = append(lines, v.styles.Normal.Render(fmt.Sprintf("[%d] %s #%d ", i+1, e.Filename, e.Ordinal))+
			v.styles.Score.Render(fmt.Sprintf("%.2f", e.Score)))
		for _, l := range strings.Split(e.Text, "\n") {
			lines = append(lines, "    "+v.styles.Muted.Render(list.Truncate(l, max(v.width-6, 20))))
		}
		lines = append(lines, "")
	}

	limit := max(v.height-10, 3)
	if len(lines) > limit {
		lines = append(lines[:limit-1], v.styles.Muted.Render("..."))
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.SearchResult {
	return v.list.SelectedResult()
}

// Bundle returns the last context bundle built, if any.
func (v *View) Bundle() *domain.ContextBundle {
	return v.bundle
}

// ShowingContext reports whether the context bundle is displayed.
func (v *View) ShowingContext() bool {
	return v.showContext
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.lastQuery = ""
	v.bundle = nil
	v.showContext = false
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
