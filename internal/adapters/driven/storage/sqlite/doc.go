// Package sqlite provides the SQLite-backed index store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Documents and chunks live in ordinary tables; an FTS5
// virtual table over each chunk's lexical terms serves candidate lookup,
// and candidates are re-ranked with the lexical package so the SQLite and
// in-memory stores order results identically.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.docbase/index.db
//
// # Consistency
//
// Re-indexing a document (upsert, delete old chunks, insert new chunks)
// runs in one transaction and every search is a single statement, so a
// search never observes a mix of old and new chunks.
package sqlite
