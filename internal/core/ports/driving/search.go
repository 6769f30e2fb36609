package driving

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// SearchService provides ranked lexical search over indexed chunks.
type SearchService interface {
	Search(ctx context.Context, query string, limit int, filter domain.DocumentFilter) ([]domain.SearchResult, error)
}

// ContextService assembles grounding context for the answering collaborator.
type ContextService interface {
	// BuildContext returns whole chunks, ranked, whose total length does not
	// exceed budgetChars, drawn from at most maxDocuments documents.
	// An empty bundle means nothing relevant was found.
	BuildContext(ctx context.Context, query string, budgetChars, maxDocuments int) (*domain.ContextBundle, error)
}

// AnswerService answers questions grounded in the indexed documents.
type AnswerService interface {
	Ask(ctx context.Context, question string, history []domain.Turn, caller domain.Caller) (*Answer, error)
}

// Answer is the collaborator's reply together with the context it was given.
type Answer struct {
	Text    string
	Context *domain.ContextBundle
}
