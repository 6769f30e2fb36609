// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docbase/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// ContextBuilt carries the context bundle assembled for a query.
type ContextBuilt struct {
	Bundle *domain.ContextBundle
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewDocuments lists indexed documents.
	ViewDocuments
	// ViewDocContent shows the reconstructed text of a document.
	ViewDocContent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the documents of a category ("" for all).
type DocumentsLoaded struct {
	Category  string
	Documents []domain.Document
	Err       error
}

// DocumentSelected signals a document was chosen for reading. Back is the
// view to return to.
type DocumentSelected struct {
	DocumentID string
	Back       ViewType
}

// DocumentContentLoaded carries a document and its reconstructed text.
type DocumentContentLoaded struct {
	Document *domain.Document
	Content  string
	Err      error
}

// DocumentDeleted signals a document was removed from the index.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}
