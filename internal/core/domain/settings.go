package domain

import (
	"fmt"
	"runtime"
)

// Default settings values.
const (
	DefaultChunkSize       = 4000
	DefaultChunkOverlap    = 200
	DefaultMinFill         = 0.5
	DefaultBudgetChars     = 8000
	DefaultMaxDocuments    = 5
	DefaultCandidateFactor = 4
	DefaultMaxFileBytes    = 64 << 20
	DefaultAnswerBaseURL   = "https://api.openai.com/v1"
	DefaultAnswerModel     = "gpt-4o-mini"
)

// AppSettings holds the complete application configuration.
type AppSettings struct {
	// DataDir holds the index database. Empty means ~/.docbase.
	DataDir   string
	Verbose   bool
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Ingest    IngestSettings
	Answer    AnswerSettings
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	// MaxSize is the maximum chunk length in characters.
	MaxSize int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int

	// MinFill is the fraction of a window a boundary-snapped chunk must fill.
	MinFill float64
}

// RetrievalSettings configures context assembly.
type RetrievalSettings struct {
	// BudgetChars is the default context budget in characters.
	BudgetChars int

	// MaxDocuments is the default number of distinct source documents.
	MaxDocuments int

	// CandidateFactor multiplies MaxDocuments to size the candidate search.
	CandidateFactor int
}

// IngestSettings configures the ingestion pipeline.
type IngestSettings struct {
	// Workers bounds parallel file ingestion in a batch.
	Workers int

	// MaxFileBytes rejects larger files; 0 disables the cap.
	MaxFileBytes int64

	// SkipHidden skips dot-files and dot-directories in batch walks.
	SkipHidden bool
}

// AnswerSettings configures the chat completion endpoint used to answer
// questions. Any OpenAI-compatible endpoint works, including a local Ollama.
type AnswerSettings struct {
	BaseURL string
	Model   string

	// APIKey is read from the environment only and never persisted.
	APIKey string
}

// DefaultAppSettings returns the default configuration.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			MaxSize: DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
			MinFill: DefaultMinFill,
		},
		Retrieval: RetrievalSettings{
			BudgetChars:     DefaultBudgetChars,
			MaxDocuments:    DefaultMaxDocuments,
			CandidateFactor: DefaultCandidateFactor,
		},
		Ingest: IngestSettings{
			Workers:      runtime.NumCPU(),
			MaxFileBytes: DefaultMaxFileBytes,
			SkipHidden:   true,
		},
		Answer: AnswerSettings{
			BaseURL: DefaultAnswerBaseURL,
			Model:   DefaultAnswerModel,
		},
	}
}

// Validate checks that the settings can work together. Chunking problems
// are reported as *ChunkingError; other problems wrap ErrInvalidInput.
func (s *AppSettings) Validate() error {
	c := s.Chunking
	if err := ValidateChunking(c.MaxSize, c.Overlap); err != nil {
		return err
	}
	if c.MinFill <= 0 || c.MinFill > 1 {
		return &ChunkingError{MaxChunkSize: c.MaxSize, OverlapSize: c.Overlap, Reason: "min fill must be in (0, 1]"}
	}

	r := s.Retrieval
	if r.BudgetChars <= 0 {
		return fmt.Errorf("%w: retrieval budget must be positive", ErrInvalidInput)
	}
	if r.MaxDocuments <= 0 {
		return fmt.Errorf("%w: retrieval max documents must be positive", ErrInvalidInput)
	}
	if r.CandidateFactor <= 0 {
		return fmt.Errorf("%w: retrieval candidate factor must be positive", ErrInvalidInput)
	}

	if s.Ingest.Workers <= 0 {
		return fmt.Errorf("%w: ingest workers must be positive", ErrInvalidInput)
	}
	if s.Ingest.MaxFileBytes < 0 {
		return fmt.Errorf("%w: ingest max file bytes must not be negative", ErrInvalidInput)
	}
	return nil
}

// ValidateChunking checks a chunk size and overlap pair.
func ValidateChunking(maxSize, overlap int) error {
	switch {
	case maxSize <= 0:
		return &ChunkingError{MaxChunkSize: maxSize, OverlapSize: overlap, Reason: "chunk size must be positive"}
	case overlap < 0:
		return &ChunkingError{MaxChunkSize: maxSize, OverlapSize: overlap, Reason: "overlap must not be negative"}
	case overlap >= maxSize:
		return &ChunkingError{MaxChunkSize: maxSize, OverlapSize: overlap, Reason: "overlap must be smaller than chunk size"}
	}
	return nil
}
