// Package doccontent provides the document content view component for the TUI.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docbase/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service not available")

// View is the document content view. It shows the text reconstructed from
// the stored chunks, which is the normalized text the document was indexed as.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	documentID   string
	back         messages.ViewType
	document     *domain.Document
	content      string
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new document content view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		back:            messages.ViewDocuments,
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDocument selects the document to show and loads it. Esc returns to back.
func (v *View) SetDocument(documentID string, back messages.ViewType) tea.Cmd {
	v.documentID = documentID
	v.back = back
	v.document = nil
	v.content = ""
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.loadContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// loadContent returns a command that loads the document and its content.
func (v *View) loadContent() tea.Cmd {
	id := v.documentID
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentContentLoaded{Err: ErrNoDocumentService}
		}

		doc, err := v.documentService.Get(v.ctx, id)
		if err != nil {
			return messages.DocumentContentLoaded{Err: err}
		}
		content, err := v.documentService.GetContent(v.ctx, id)
		return messages.DocumentContentLoaded{Document: doc, Content: content, Err: err}
	}
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentContentLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.document = msg.Document
		v.content = msg.Content
		v.wrapContent()
		v.err = nil
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		back := v.back
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	}

	return v, nil
}

// wrapContent wraps the content to fit the view width. Lines are cut on
// rune boundaries.
func (v *View) wrapContent() {
	if v.content == "" {
		v.lines = nil
		return
	}

	contentWidth := max(v.width-4, 20)

	rawLines := strings.Split(v.content, "\n")
	v.lines = make([]string, 0, len(rawLines))

	for _, line := range rawLines {
		runes := []rune(line)
		for len(runes) > contentWidth {
			v.lines = append(v.lines, string(runes[:contentWidth]))
			runes = runes[contentWidth:]
		}
		v.lines = append(v.lines, string(runes))
	}
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// title, separator, help and padding
	return max(v.height-6, 1)
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document Content"
	if v.document != nil {
		title = fmt.Sprintf("%s  (%s, %s, %d chunks)",
			v.document.Filename, v.document.Format, v.document.Category, v.document.ChunkCount)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading content..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No content)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visibleLines := v.visibleLines()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visibleLines; i++ {
		b.WriteString(v.styles.Normal.Render(v.lines[i]))
		b.WriteString("\n")
	}

	if len(v.lines) > visibleLines {
		b.WriteString("\n")
		percentage := 0
		if v.maxScrollOffset() > 0 {
			percentage = v.scrollOffset * 100 / v.maxScrollOffset()
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage,
			v.scrollOffset+1,
			min(v.scrollOffset+visibleLines, len(v.lines)),
			len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
}

// DocumentID returns the id of the document being shown.
func (v *View) DocumentID() string {
	return v.documentID
}

// Document returns the current document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Content returns the document content.
func (v *View) Content() string {
	return v.content
}

// Lines returns the wrapped content lines.
func (v *View) Lines() []string {
	return v.lines
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Back returns the view esc returns to.
func (v *View) Back() messages.ViewType {
	return v.back
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
