package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/docbase/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView       *menu.View
	searchView     *search.View
	documentsView  *documents.View
	docContentView *doccontent.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		menuView:       menu.NewView(s),
		searchView:     search.NewView(s, km, ports.Search, ports.Context, ports.Retrieval),
		documentsView:  documents.NewView(s, ports.Document),
		docContentView: doccontent.NewView(s, ports.Document),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("docbase"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		prev := a.currentView
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSearch:
			// returning from a document keeps the results
			if prev == messages.ViewDocContent {
				return a, nil
			}
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Load("")
		case messages.ViewMenu, messages.ViewHelp, messages.ViewDocContent:
		}
		return a, nil

	case messages.SearchCompleted, messages.ContextBuilt:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.err = a.documentsView.Err()
		return a, cmd

	case messages.DocumentSelected:
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(msg.DocumentID, msg.Back)

	case messages.DocumentContentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		a.err = a.docContentView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward hands msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
	}
	return a.menuView.View()
}

// viewHelp renders the keybindings grouped as in the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
}
