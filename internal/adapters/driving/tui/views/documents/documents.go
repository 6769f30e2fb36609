// Package documents provides the documents list view component for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service not available")

// ActionOption represents a document action.
type ActionOption int

const (
	ActionShowContent ActionOption = iota
	ActionDelete
	ActionCancel
)

// View is the documents list view.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	category     string
	documents    []domain.Document
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	showingMenu  bool
	menuSelected ActionOption
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		documents:       []domain.Document{},
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load resets the view to the given category ("" for all) and loads
// its documents.
func (v *View) Load(category string) tea.Cmd {
	v.category = category
	v.selected = 0
	v.scrollOffset = 0
	v.err = nil
	v.showingMenu = false
	v.loading = true
	return v.loadDocuments()
}

// loadDocuments returns a command that loads documents for the category.
func (v *View) loadDocuments() tea.Cmd {
	category := v.category
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Category: category, Err: ErrNoDocumentService}
		}

		docs, err := v.documentService.List(v.ctx, domain.DocumentFilter{Category: category})
		return messages.DocumentsLoaded{Category: category, Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.showingMenu {
			return v.handleMenuKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documents = msg.Documents
		v.err = nil
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.loading = true
		return v, v.loadDocuments()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if len(v.documents) > 0 {
			v.showingMenu = true
			v.menuSelected = ActionShowContent
		}
	case "x":
		if doc := v.SelectedDocument(); doc != nil {
			return v, v.deleteDocument(doc.ID)
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "r":
		v.loading = true
		return v, v.loadDocuments()
	}

	return v, nil
}

// handleMenuKeyMsg handles key presses in action menu mode.
func (v *View) handleMenuKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > ActionShowContent {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case "enter":
		return v.handleMenuSelect()
	case "esc":
		v.showingMenu = false
	}

	return v, nil
}

// handleMenuSelect handles selection of an action.
func (v *View) handleMenuSelect() (*View, tea.Cmd) {
	v.showingMenu = false
	doc := v.SelectedDocument()
	if doc == nil {
		return v, nil
	}
	id := doc.ID

	switch v.menuSelected {
	case ActionShowContent:
		return v, func() tea.Msg {
			return messages.DocumentSelected{DocumentID: id, Back: messages.ViewDocuments}
		}
	case ActionDelete:
		return v, v.deleteDocument(id)
	case ActionCancel:
	}

	return v, nil
}

// deleteDocument returns a command that removes the document and its chunks.
func (v *View) deleteDocument(docID string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentDeleted{DocumentID: docID, Err: ErrNoDocumentService}
		}

		err := v.documentService.Delete(v.ctx, docID)
		return messages.DocumentDeleted{DocumentID: docID, Err: err}
	}
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// title, separator, help and padding
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	scope := "all categories"
	if v.category != "" {
		scope = v.category
	}
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents - %s (%d)", scope, len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents indexed."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case v.showingMenu:
		b.WriteString(v.renderActionMenu())
		return b.String()
	}

	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
		b.WriteString(v.renderDocument(i, &v.documents[i]))
		b.WriteString("\n")
	}

	if len(v.documents) > visibleItems {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visibleItems, len(v.documents)),
			len(v.documents))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderDocument renders a single document line: filename, then format,
// category and chunk count.
func (v *View) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	maxNameLen := max(v.width/2-4, 10)
	name := list.Truncate(doc.Filename, maxNameLen)
	meta := fmt.Sprintf("%s  %s  %d chunks", doc.Format, doc.Category, doc.ChunkCount)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, meta))
	}

	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
		v.styles.Muted.Render(meta)
}

// renderActionMenu renders the action menu overlay.
func (v *View) renderActionMenu() string {
	var b strings.Builder

	if doc := v.SelectedDocument(); doc != nil {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Actions for: %s", doc.Filename)))
		b.WriteString("\n\n")
	}

	options := []struct {
		action ActionOption
		label  string
	}{
		{ActionShowContent, "Show Content"},
		{ActionDelete, "Delete"},
		{ActionCancel, "Cancel"},
	}

	for _, opt := range options {
		if v.menuSelected == opt.action {
			b.WriteString(v.styles.Selected.Render("> " + opt.label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + opt.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [x] delete  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Category returns the category being listed, "" for all.
func (v *View) Category() string {
	return v.category
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// IsShowingMenu returns true if the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
