package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sqlitedrv "modernc.org/sqlite" // SQLite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// DatabaseFile is the name of the index database inside the data directory.
const DatabaseFile = "index.db"

// DefaultBusyTimeout is how long a writer waits for the database lock
// before failing with domain.ErrWriteConflict.
const DefaultBusyTimeout = 5 * time.Second

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store is the SQLite-backed index store. It is opened once, shared by
// every service and closed at shutdown.
type Store struct {
	db          *sql.DB
	path        string
	busyTimeout time.Duration
}

// Option configures the store.
type Option func(*Store)

// WithBusyTimeout sets how long a writer waits for a competing writer.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// NewStore opens (creating if needed) the index database in dataDir.
// If dataDir is empty, defaults to ~/.docbase.
func NewStore(dataDir string, opts ...Option) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docbase")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, &domain.IndexError{Kind: domain.ErrStorageUnavailable, Op: "open", Err: err}
	}

	s := &Store{
		path:        filepath.Join(dataDir, DatabaseFile),
		busyTimeout: DefaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	// WAL lets searches run while a document is being re-indexed; immediate
	// transactions take the write lock up front so the busy timeout applies.
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate",
		s.path, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, classify("open", err)
	}
	s.db = db

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, classify("migrate", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// classify wraps a driver error in a *domain.IndexError. Lock contention
// is a write conflict; anything else means the store could not do its job.
// Context cancellation is returned unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	kind := domain.ErrStorageUnavailable
	var sqliteErr *sqlitedrv.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			kind = domain.ErrWriteConflict
		}
	}
	return &domain.IndexError{Kind: kind, Op: op, Err: err}
}
