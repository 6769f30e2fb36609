// Package watcher keeps the index in step with a directory tree: files
// that are created or edited are re-ingested and files that disappear are
// removed from the index.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docbase/internal/core/ports/driving"
	"github.com/custodia-labs/docbase/internal/logger"
)

// DefaultDebounce is how long a path must stay quiet before it is processed.
// Editors often write a file several times in quick succession.
const DefaultDebounce = 300 * time.Millisecond

// ChangeType classifies a filesystem change.
type ChangeType int

const (
	// ChangeUpsert means the file was created or modified.
	ChangeUpsert ChangeType = iota

	// ChangeDelete means the file was removed or renamed away.
	ChangeDelete

	// ChangeDirectory means a directory appeared and must be walked.
	ChangeDirectory
)

// Change is a pending action for a path.
type Change struct {
	Type ChangeType
	Path string
}

// Watcher re-ingests changed files under a root directory.
type Watcher struct {
	root       string
	category   string
	ingest     driving.IngestService
	debounce   time.Duration
	skipHidden bool
	initial    bool

	mu      sync.Mutex
	pending map[string]Change
	timers  map[string]*time.Timer
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is processed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithSkipHidden ignores dot-files and dot-directories.
func WithSkipHidden(skip bool) Option {
	return func(w *Watcher) {
		w.skipHidden = skip
	}
}

// WithInitialIngest ingests the whole tree before watching.
func WithInitialIngest(initial bool) Option {
	return func(w *Watcher) {
		w.initial = initial
	}
}

// New creates a watcher for root. Ingested documents get category.
func New(root, category string, ingest driving.IngestService, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", abs)
	}

	w := &Watcher{
		root:     abs,
		category: category,
		ingest:   ingest,
		debounce: DefaultDebounce,
		pending:  make(map[string]Change),
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string {
	return w.root
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}

	if w.initial {
		w.ingestTree(ctx, w.root)
	}

	ready := make(chan string)
	done := make(chan struct{})
	defer func() {
		close(done)
		w.stopTimers()
	}()

	logger.Info("Watching %s", w.root)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopped watching %s", w.root)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			change := w.handleFsEvent(event)
			if change == nil {
				continue
			}
			if change.Type == ChangeDirectory {
				if err := w.addTree(fsw, change.Path); err != nil {
					logger.Error("watch %s: %v", change.Path, err)
				}
			}
			w.schedule(*change, ready, done)

		case path := <-ready:
			if change, ok := w.take(path); ok {
				w.apply(ctx, change)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: %v", err)
		}
	}
}

// handleFsEvent converts a filesystem event into a change, or nil when
// the event is irrelevant.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	if w.skipHidden && w.isHidden(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{Type: ChangeDelete, Path: event.Name}

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			// Gone again before we looked.
			return &Change{Type: ChangeDelete, Path: event.Name}
		}
		if info.IsDir() {
			if event.Has(fsnotify.Create) {
				return &Change{Type: ChangeDirectory, Path: event.Name}
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return &Change{Type: ChangeUpsert, Path: event.Name}
	}
	return nil
}

// schedule records change for its path and (re)starts the debounce timer.
// The latest change for a path wins.
func (w *Watcher) schedule(change Change, ready chan<- string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[change.Path] = change
	if t, ok := w.timers[change.Path]; ok {
		t.Stop()
	}
	w.timers[change.Path] = time.AfterFunc(w.debounce, func() {
		select {
		case ready <- change.Path:
		case <-done:
		}
	})
}

func (w *Watcher) take(path string) (Change, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	change, ok := w.pending[path]
	delete(w.pending, path)
	delete(w.timers, path)
	return change, ok
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// apply performs a debounced change.
func (w *Watcher) apply(ctx context.Context, change Change) {
	switch change.Type {
	case ChangeUpsert:
		res, err := w.ingest.IngestFile(ctx, change.Path, w.category)
		if err != nil {
			logger.Error("%v", err)
			return
		}
		logger.Info("Indexed %s (%d chunks)", w.rel(change.Path), res.ChunkCount)

	case ChangeDelete:
		if err := w.ingest.RemoveFile(ctx, change.Path); err != nil {
			logger.Error("remove %s: %v", w.rel(change.Path), err)
			return
		}
		logger.Info("Removed %s", w.rel(change.Path))

	case ChangeDirectory:
		w.ingestTree(ctx, change.Path)
	}
}

// ingestTree batch-ingests a directory and logs the outcome.
func (w *Watcher) ingestTree(ctx context.Context, dir string) {
	report, err := w.ingest.IngestBatch(ctx, dir, w.category)
	if err != nil {
		logger.Error("ingest %s: %v", w.rel(dir), err)
		return
	}
	for _, f := range report.Failures {
		logger.Error("ingest %s: %s", f.File, f.Error)
	}
	logger.Info("Indexed %d of %d files under %s", report.Successful, report.TotalProcessed, w.rel(dir))
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.skipHidden && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// isHidden reports whether any element of path below the root starts
// with a dot.
func (w *Watcher) isHidden(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}

func (w *Watcher) rel(path string) string {
	if rel, err := filepath.Rel(w.root, path); err == nil {
		return rel
	}
	return path
}
