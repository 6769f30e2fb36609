package driven

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// Completer is the answering collaborator: an opaque function from a
// question, its grounding context and the conversation so far to answer
// text. Retries, if any, belong to the implementation.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest carries everything the collaborator receives.
type CompletionRequest struct {
	// Question is the user's query.
	Question string

	// Context is the rendered context bundle; empty when nothing matched.
	Context string

	// Sources lists the filenames the context was drawn from.
	Sources []string

	// History holds prior turns, oldest first.
	History []domain.Turn

	// Caller identifies the asker.
	Caller domain.Caller
}
