package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/lexical"
)

const documentColumns = `d.id, d.filename, d.path, d.format, d.category, d.size_bytes, d.uploaded_at, d.chunk_count`

// Index stores doc and atomically replaces its chunks.
func (s *Store) Index(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	doc.ChunkCount = len(chunks)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("index", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, filename, path, format, category, size_bytes, uploaded_at, chunk_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			path = excluded.path,
			format = excluded.format,
			category = excluded.category,
			size_bytes = excluded.size_bytes,
			uploaded_at = excluded.uploaded_at,
			chunk_count = excluded.chunk_count
	`, doc.ID, doc.Filename, doc.Path, string(doc.Format), doc.Category, doc.SizeBytes,
		doc.UploadedAt.UnixNano(), doc.ChunkCount)
	if err != nil {
		return classify("index", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", doc.ID); err != nil {
		return classify("index", err)
	}

	if len(chunks) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chunks (document_id, ordinal, content, terms, start_offset, end_offset)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return classify("index", err)
		}
		defer stmt.Close()

		for _, c := range chunks {
			terms := strings.Join(lexical.Tokenize(c.Content), " ")
			if _, err := stmt.ExecContext(ctx, doc.ID, c.Ordinal, c.Content, terms, c.Start, c.End); err != nil {
				return classify("index", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("index", err)
	}
	return nil
}

// Search finds chunks sharing at least one term with query. The full-text
// index only narrows the candidates: every match is scored and ordered by
// the lexical package, since bm25 ordering disagrees with it on long chunks.
func (s *Store) Search(ctx context.Context, query string, limit int, filter domain.DocumentFilter) ([]domain.SearchResult, error) {
	q := lexical.NewQuery(query)
	if q.IsEmpty() {
		return nil, nil
	}

	// One statement, so the result reflects a single snapshot.
	var b strings.Builder
	b.WriteString(`
		SELECT c.ordinal, c.content, c.start_offset, c.end_offset, ` + documentColumns + `
		FROM chunks_fts
		JOIN chunks c ON c.id = chunks_fts.rowid
		JOIN documents d ON d.id = c.document_id
		WHERE chunks_fts MATCH ?`)
	args := []any{matchExpression(q.Terms())}
	if filter.Category != "" {
		b.WriteString(" AND d.category = ?")
		args = append(args, filter.Category)
	}
	if filter.DocumentID != "" {
		b.WriteString(" AND d.id = ?")
		args = append(args, filter.DocumentID)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, classify("search", err)
	}
	defer rows.Close()

	var candidates []domain.SearchResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.SearchResult
		if err := scanChunkWithDocument(rows, &r.Chunk, &r.Document); err != nil {
			return nil, classify("search", err)
		}
		candidates = append(candidates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("search", err)
	}

	return lexical.Rank(q, candidates, limit), nil
}

// Remove deletes a document; its chunks follow through the foreign key
// cascade within the same statement.
func (s *Store) Remove(ctx context.Context, documentID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", documentID); err != nil {
		return classify("remove", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents d WHERE d.id = ?`, id)

	var doc domain.Document
	if err := scanDocument(row, &doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify("get", err)
	}
	return &doc, nil
}

// ListDocuments returns documents passing the filter, newest first.
func (s *Store) ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents d WHERE 1 = 1`
	var args []any
	if filter.Category != "" {
		query += " AND d.category = ?"
		args = append(args, filter.Category)
	}
	if filter.DocumentID != "" {
		query += " AND d.id = ?"
		args = append(args, filter.DocumentID)
	}
	query += " ORDER BY d.uploaded_at DESC, d.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, classify("list", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list", err)
	}
	return docs, nil
}

// GetChunks returns a document's chunks in ordinal order.
func (s *Store) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, content, start_offset, end_offset
		FROM chunks WHERE document_id = ?
		ORDER BY ordinal
	`, documentID)
	if err != nil {
		return nil, classify("chunks", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		c := domain.Chunk{DocumentID: documentID}
		if err := rows.Scan(&c.Ordinal, &c.Content, &c.Start, &c.End); err != nil {
			return nil, classify("chunks", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("chunks", err)
	}
	return chunks, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner, doc *domain.Document) error {
	var format string
	var uploadedAt int64
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.Path, &format, &doc.Category,
		&doc.SizeBytes, &uploadedAt, &doc.ChunkCount); err != nil {
		return err
	}
	doc.Format = domain.Format(format)
	doc.UploadedAt = time.Unix(0, uploadedAt).UTC()
	return nil
}

func scanChunkWithDocument(row scanner, c *domain.Chunk, doc *domain.Document) error {
	var format string
	var uploadedAt int64
	if err := row.Scan(&c.Ordinal, &c.Content, &c.Start, &c.End,
		&doc.ID, &doc.Filename, &doc.Path, &format, &doc.Category,
		&doc.SizeBytes, &uploadedAt, &doc.ChunkCount); err != nil {
		return err
	}
	c.DocumentID = doc.ID
	doc.Format = domain.Format(format)
	doc.UploadedAt = time.Unix(0, uploadedAt).UTC()
	return nil
}

// matchExpression builds an FTS5 query matching any of the terms.
func matchExpression(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " OR ")
}
