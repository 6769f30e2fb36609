package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
	"github.com/custodia-labs/docbase/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerService grounds questions in retrieved context and hands them to
// the completion collaborator.
type AnswerService struct {
	contexts     driving.ContextService
	completer    driven.Completer
	budgetChars  int
	maxDocuments int
}

// NewAnswerService creates a new answer service.
func NewAnswerService(
	contexts driving.ContextService,
	completer driven.Completer,
	budgetChars, maxDocuments int,
) *AnswerService {
	return &AnswerService{
		contexts:     contexts,
		completer:    completer,
		budgetChars:  budgetChars,
		maxDocuments: maxDocuments,
	}
}

// Ask builds context for question and returns the collaborator's answer.
// An empty context is passed through; the collaborator decides how to say
// that nothing relevant was found.
func (s *AnswerService) Ask(
	ctx context.Context, question string, history []domain.Turn, caller domain.Caller,
) (*driving.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	bundle, err := s.contexts.BuildContext(ctx, question, s.budgetChars, s.maxDocuments)
	if err != nil {
		return nil, err
	}

	logger.Section("Answer")
	logger.Debug("Context: %d entries, %d chars, %d prior turns",
		len(bundle.Entries), bundle.TotalChars, len(history))

	text, err := s.completer.Complete(ctx, driven.CompletionRequest{
		Question: question,
		Context:  bundle.Render(),
		Sources:  bundle.Sources(),
		History:  history,
		Caller:   caller,
	})
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	return &driving.Answer{Text: text, Context: bundle}, nil
}
