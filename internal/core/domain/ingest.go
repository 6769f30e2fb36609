package domain

// Upload is an in-memory document handed to the ingestion pipeline.
type Upload struct {
	// DocumentID is optional; when empty it is derived from Path or Filename.
	DocumentID string

	// Filename is the display name, used for extension-based format detection.
	Filename string

	// Path is the location the content was read from, if any.
	Path string

	// Format overrides detection when set.
	Format Format

	// Category is the grouping label to store with the document.
	Category string

	// Content is the raw document bytes.
	Content []byte
}

// IngestResult is the outcome of ingesting a single file.
type IngestResult struct {
	// Filename identifies the file, relative to the batch root for batches.
	Filename string

	// DocumentID is set on success.
	DocumentID string

	// Format is the resolved format (may be unknown on failure).
	Format Format

	// ChunkCount is the number of chunks indexed.
	ChunkCount int

	// Err is nil on success.
	Err error
}

// Success reports whether the file was indexed.
func (r IngestResult) Success() bool {
	return r.Err == nil
}

// FileFailure describes a failed file in a batch report.
type FileFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// FileSuccess describes an indexed file in a batch report.
type FileSuccess struct {
	File       string `json:"file"`
	DocumentID string `json:"document_id"`
	Format     Format `json:"format"`
	ChunkCount int    `json:"chunk_count"`
}

// BatchReport summarises a directory ingestion. A batch always completes
// and reports every file it encountered.
type BatchReport struct {
	TotalProcessed int           `json:"total_processed"`
	Successful     int           `json:"successful"`
	Failed         int           `json:"failed"`
	Succeeded      []FileSuccess `json:"succeeded"`
	Failures       []FileFailure `json:"failures"`
}

// Record adds a file outcome to the report.
func (r *BatchReport) Record(res IngestResult) {
	r.TotalProcessed++
	if res.Success() {
		r.Successful++
		r.Succeeded = append(r.Succeeded, FileSuccess{
			File:       res.Filename,
			DocumentID: res.DocumentID,
			Format:     res.Format,
			ChunkCount: res.ChunkCount,
		})
		return
	}
	r.Failed++
	r.Failures = append(r.Failures, FileFailure{
		File:  res.Filename,
		Error: res.Err.Error(),
		Kind:  KindOf(res.Err),
	})
}
