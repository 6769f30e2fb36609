package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Extraction kinds.

	// ErrUnsupportedFormat indicates the declared format is outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrCorruptInput indicates the parser for a format could not decode the bytes.
	ErrCorruptInput = errors.New("corrupt input")

	// Chunking kinds.

	// ErrInvalidConfiguration indicates chunk size and overlap cannot work together.
	// It is only ever raised while validating configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// Index kinds.

	// ErrWriteConflict indicates a concurrent writer held the index.
	ErrWriteConflict = errors.New("write conflict")

	// ErrStorageUnavailable indicates the index could not be reached at all.
	// Callers may retry the whole operation.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ExtractionError reports why a document could not be turned into text.
type ExtractionError struct {
	// Kind is ErrUnsupportedFormat or ErrCorruptInput.
	Kind error

	// Format is the format that was attempted.
	Format Format

	// Err is the underlying parser error, if any.
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %v", e.Format, e.Kind)
	}
	return fmt.Sprintf("extract %s: %v: %v", e.Format, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ExtractionError) Unwrap() []error {
	return unwrapPair(e.Kind, e.Err)
}

// Unsupported builds an ExtractionError for a format outside the supported set.
func Unsupported(f Format) *ExtractionError {
	return &ExtractionError{Kind: ErrUnsupportedFormat, Format: f}
}

// Corrupt builds an ExtractionError for undecodable input.
func Corrupt(f Format, err error) *ExtractionError {
	return &ExtractionError{Kind: ErrCorruptInput, Format: f, Err: err}
}

// ChunkingError reports an unusable chunker configuration.
type ChunkingError struct {
	MaxChunkSize int
	OverlapSize  int
	Reason       string
}

func (e *ChunkingError) Error() string {
	return fmt.Sprintf("chunking: %v: %s (max=%d, overlap=%d)",
		ErrInvalidConfiguration, e.Reason, e.MaxChunkSize, e.OverlapSize)
}

// Unwrap returns ErrInvalidConfiguration.
func (e *ChunkingError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IndexError reports a failure of the index store.
type IndexError struct {
	// Kind is ErrWriteConflict or ErrStorageUnavailable.
	Kind error

	// Op names the store operation, e.g. "index" or "search".
	Op string

	// Err is the driver error.
	Err error
}

func (e *IndexError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("index %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("index %s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause.
func (e *IndexError) Unwrap() []error {
	return unwrapPair(e.Kind, e.Err)
}

// IngestionFailure attaches the offending filename to an extraction,
// chunking or index error.
type IngestionFailure struct {
	Filename string
	Err      error
}

func (e *IngestionFailure) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Filename, e.Err)
}

// Unwrap returns the wrapped error.
func (e *IngestionFailure) Unwrap() error {
	return e.Err
}

// Error kind names used in reports.
const (
	KindUnsupportedFormat    = "UnsupportedFormat"
	KindCorruptInput         = "CorruptInput"
	KindInvalidConfiguration = "InvalidConfiguration"
	KindWriteConflict        = "WriteConflict"
	KindStorageUnavailable   = "StorageUnavailable"
	KindInvalidInput         = "InvalidInput"
	KindNotFound             = "NotFound"
	KindUnknown              = "Unknown"
)

// KindOf names the taxonomy kind carried by err.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, ErrCorruptInput):
		return KindCorruptInput
	case errors.Is(err, ErrInvalidConfiguration):
		return KindInvalidConfiguration
	case errors.Is(err, ErrWriteConflict):
		return KindWriteConflict
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorageUnavailable
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}

func unwrapPair(kind, cause error) []error {
	errs := make([]error, 0, 2)
	if kind != nil {
		errs = append(errs, kind)
	}
	if cause != nil {
		errs = append(errs, cause)
	}
	return errs
}
