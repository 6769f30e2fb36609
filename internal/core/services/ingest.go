package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
	"github.com/custodia-labs/docbase/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// documentNamespace seeds deterministic document ids.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://docbase.local/documents"))

// DocumentID derives the stable id of a document from its location, so
// re-ingesting the same file replaces its previous chunks.
func DocumentID(key string) string {
	return uuid.NewSHA1(documentNamespace, []byte(key)).String()
}

// IngestOptions tunes the ingestion pipeline.
type IngestOptions struct {
	// Workers bounds parallel file processing in a batch. Zero means one.
	Workers int

	// MaxFileBytes rejects larger files. Zero disables the cap.
	MaxFileBytes int64

	// SkipHidden skips dot-files and dot-directories in batch walks.
	SkipHidden bool
}

// IngestOptionsFrom builds ingestion options from application settings.
func IngestOptionsFrom(settings *domain.AppSettings) IngestOptions {
	return IngestOptions{
		Workers:      settings.Ingest.Workers,
		MaxFileBytes: settings.Ingest.MaxFileBytes,
		SkipHidden:   settings.Ingest.SkipHidden,
	}
}

// IngestService runs the extract, chunk and index pipeline.
type IngestService struct {
	extractor driven.Extractor
	chunker   driven.Chunker
	index     driven.IndexStore
	opts      IngestOptions
	locks     *keyedMutex
	now       func() time.Time
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	extractor driven.Extractor,
	chunker driven.Chunker,
	index driven.IndexStore,
	opts IngestOptions,
) *IngestService {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &IngestService{
		extractor: extractor,
		chunker:   chunker,
		index:     index,
		opts:      opts,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// IngestFile extracts, chunks and indexes a single file.
func (s *IngestService) IngestFile(ctx context.Context, path, category string) (*domain.IngestResult, error) {
	res := s.ingestPath(ctx, path, filepath.Base(path), category)
	if res.Err != nil {
		return nil, res.Err
	}
	return &res, nil
}

// Ingest indexes in-memory content.
func (s *IngestService) Ingest(ctx context.Context, upload domain.Upload) (*domain.IngestResult, error) {
	if strings.TrimSpace(upload.Filename) == "" {
		return nil, fmt.Errorf("%w: upload has no filename", domain.ErrInvalidInput)
	}
	res := s.ingest(ctx, upload, upload.Filename)
	if res.Err != nil {
		return nil, res.Err
	}
	return &res, nil
}

// RemoveFile drops the document ingested from path, or every document
// ingested from below it when path was a directory.
func (s *IngestService) RemoveFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	id := DocumentID(documentKey(domain.Upload{Path: abs}))

	if err := s.removeDocument(ctx, id); err != nil {
		return err
	}
	logger.Debug("Removed %s (id %s)", abs, id)

	// A removed directory takes every document below it along.
	docs, err := s.index.ListDocuments(ctx, domain.DocumentFilter{})
	if err != nil {
		return err
	}
	prefix := abs + string(filepath.Separator)
	for i := range docs {
		if !strings.HasPrefix(docs[i].Path, prefix) {
			continue
		}
		if err := s.removeDocument(ctx, docs[i].ID); err != nil {
			return err
		}
		logger.Debug("Removed %s (id %s)", docs[i].Path, docs[i].ID)
	}
	return nil
}

func (s *IngestService) removeDocument(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.index.Remove(ctx, id)
}

// batchFile is a file found while walking a batch root.
type batchFile struct {
	path string
	rel  string
}

// IngestBatch walks root and ingests every regular file in parallel.
func (s *IngestService) IngestBatch(ctx context.Context, root, category string) (*domain.BatchReport, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, root)
	}

	logger.Section("Batch Ingest")
	logger.Debug("Root: %s, category: %q, workers: %d", root, category, s.opts.Workers)

	files, walkFailures := s.collect(root)
	logger.Debug("Found %d files", len(files))

	results := make([]domain.IngestResult, len(files))
	pool, err := ants.NewPool(s.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.ingestPath(ctx, f.path, f.rel, category)
		})
		if err != nil {
			wg.Done()
			results[i] = failed(f.rel, domain.FormatUnknown, err)
		}
	}
	wg.Wait()

	report := &domain.BatchReport{}
	for _, res := range append(walkFailures, results...) {
		if res.Err != nil {
			logger.Warn("Failed %s: %v", res.Filename, res.Err)
		}
		report.Record(res)
	}

	logger.Info("Batch complete: %d processed, %d indexed, %d failed",
		report.TotalProcessed, report.Successful, report.Failed)
	return report, nil
}

// collect lists the regular files under root in walk order. Entries that
// cannot be read are returned as failures.
func (s *IngestService) collect(root string) ([]batchFile, []domain.IngestResult) {
	var files []batchFile
	var failures []domain.IngestResult

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if err != nil {
			if path == root {
				return err
			}
			failures = append(failures, failed(rel, domain.FormatUnknown, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path != root && s.opts.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, batchFile{path: path, rel: rel})
		}
		return nil
	})
	return files, failures
}

// ingestPath reads a file from disk and ingests it under the given name.
func (s *IngestService) ingestPath(ctx context.Context, path, name, category string) domain.IngestResult {
	abs, err := filepath.Abs(path)
	if err != nil {
		return failed(name, domain.FormatUnknown, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return failed(name, domain.FormatUnknown, err)
	}
	if !info.Mode().IsRegular() {
		return failed(name, domain.FormatUnknown,
			fmt.Errorf("%w: not a regular file", domain.ErrInvalidInput))
	}
	if err := s.checkSize(info.Size()); err != nil {
		return failed(name, domain.FormatUnknown, err)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return failed(name, domain.FormatUnknown, err)
	}

	return s.ingest(ctx, domain.Upload{
		Filename: filepath.Base(abs),
		Path:     abs,
		Category: category,
		Content:  content,
	}, name)
}

// ingest runs the pipeline on one upload. name identifies the file in
// the result and in any failure.
func (s *IngestService) ingest(ctx context.Context, upload domain.Upload, name string) domain.IngestResult {
	if err := ctx.Err(); err != nil {
		return failed(name, upload.Format, err)
	}
	if err := s.checkSize(int64(len(upload.Content))); err != nil {
		return failed(name, upload.Format, err)
	}

	format := upload.Format
	if format == domain.FormatUnknown {
		format = s.extractor.Detect(upload.Filename, upload.Content)
	}
	logger.Debug("Extracting %s as %s", name, format)

	text, err := s.extractor.Extract(upload.Content, format)
	if err != nil {
		return failed(name, format, err)
	}

	id := upload.DocumentID
	if id == "" {
		id = DocumentID(documentKey(upload))
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	chunks := s.chunker.Chunk(id, text)
	doc := &domain.Document{
		ID:         id,
		Filename:   upload.Filename,
		Path:       upload.Path,
		Format:     format,
		Category:   upload.Category,
		SizeBytes:  int64(len(upload.Content)),
		UploadedAt: s.now().UTC(),
	}
	if err := s.index.Index(ctx, doc, chunks); err != nil {
		return failed(name, format, err)
	}

	logger.Debug("Indexed %s: %d chunks (id %s)", name, len(chunks), id)
	return domain.IngestResult{
		Filename:   name,
		DocumentID: id,
		Format:     format,
		ChunkCount: len(chunks),
	}
}

func (s *IngestService) checkSize(size int64) error {
	if s.opts.MaxFileBytes > 0 && size > s.opts.MaxFileBytes {
		return fmt.Errorf("%w: file is %d bytes, limit is %d", domain.ErrInvalidInput, size, s.opts.MaxFileBytes)
	}
	return nil
}

// documentKey is the identity a document id is derived from.
func documentKey(upload domain.Upload) string {
	if upload.Path != "" {
		return "file://" + filepath.ToSlash(upload.Path)
	}
	return "upload:" + upload.Filename
}

func failed(name string, format domain.Format, err error) domain.IngestResult {
	return domain.IngestResult{
		Filename: name,
		Format:   format,
		Err:      &domain.IngestionFailure{Filename: name, Err: err},
	}
}
