package driving

import (
	"context"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// IngestService turns files into indexed documents.
type IngestService interface {
	// IngestFile extracts, chunks and indexes a single file. On failure
	// the error is an *domain.IngestionFailure naming the file.
	IngestFile(ctx context.Context, path, category string) (*domain.IngestResult, error)

	// Ingest indexes in-memory content.
	Ingest(ctx context.Context, upload domain.Upload) (*domain.IngestResult, error)

	// IngestBatch walks a directory tree and ingests every regular file.
	// Per-file failures are recorded in the report, never returned.
	// The error is non-nil only when the root itself cannot be walked.
	IngestBatch(ctx context.Context, root, category string) (*domain.BatchReport, error)

	// RemoveFile drops the document previously ingested from path. When
	// path was a directory, documents ingested from below it go too.
	// Removing a path that was never ingested is not an error.
	RemoveFile(ctx context.Context, path string) error
}
