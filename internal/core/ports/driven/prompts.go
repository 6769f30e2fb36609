package driven

// PromptStore provides access to prompt templates for the answering
// collaborator. Implementations may load prompts from files or embed them
// in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswerSystem is the system prompt sent ahead of the context
	// passages. It has no format placeholders.
	PromptAnswerSystem = "answer_system"
)

// DefaultAnswerSystemPrompt is used when no prompt store is configured or
// the store cannot supply PromptAnswerSystem.
const DefaultAnswerSystemPrompt = `You are an assistant answering questions about an organisation's internal documents.
Answer in the language of the question. Use only the numbered context passages below and
name the documents you relied on. If the context is empty or does not contain the answer,
say that no relevant information was found in the documents.`

// PromptStoreAware is an optional interface for adapters whose prompts can
// be customised by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the adapter uses its built-in defaults.
	SetPromptStore(store PromptStore)
}
