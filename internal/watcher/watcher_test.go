package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

// recordingIngest is a driving.IngestService that records calls.
type recordingIngest struct {
	mu       sync.Mutex
	ingested []string
	removed  []string
	batches  []string
}

func (r *recordingIngest) IngestFile(_ context.Context, path, _ string) (*domain.IngestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingested = append(r.ingested, filepath.Base(path))
	return &domain.IngestResult{Filename: filepath.Base(path), ChunkCount: 1}, nil
}

func (r *recordingIngest) Ingest(context.Context, domain.Upload) (*domain.IngestResult, error) {
	return &domain.IngestResult{}, nil
}

func (r *recordingIngest) IngestBatch(_ context.Context, root, _ string) (*domain.BatchReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, filepath.Base(root))
	return &domain.BatchReport{}, nil
}

func (r *recordingIngest) RemoveFile(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, filepath.Base(path))
	return nil
}

func (r *recordingIngest) snapshot() (ingested, removed, batches []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ingested...),
		append([]string(nil), r.removed...),
		append([]string(nil), r.batches...)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	w, err := New(dir, "HR", &recordingIngest{})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(w.Root()))
	assert.Equal(t, DefaultDebounce, w.debounce)

	_, err = New(filepath.Join(dir, "missing"), "", &recordingIngest{})
	assert.Error(t, err)

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = New(file, "", &recordingIngest{})
	assert.Error(t, err)
}

func TestHandleFsEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	hidden := filepath.Join(dir, ".hidden.txt")
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0644))
	missing := filepath.Join(dir, "removed.txt")

	w, err := New(dir, "", &recordingIngest{}, WithSkipHidden(true))
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		expected *Change
	}{
		{"create file", file, fsnotify.Create, &Change{ChangeUpsert, file}},
		{"write file", file, fsnotify.Write, &Change{ChangeUpsert, file}},
		{"remove file", missing, fsnotify.Remove, &Change{ChangeDelete, missing}},
		{"rename file", missing, fsnotify.Rename, &Change{ChangeDelete, missing}},
		{"write vanished file", missing, fsnotify.Write, &Change{ChangeDelete, missing}},
		{"chmod ignored", file, fsnotify.Chmod, nil},
		{"create directory", sub, fsnotify.Create, &Change{ChangeDirectory, sub}},
		{"write directory ignored", sub, fsnotify.Write, nil},
		{"hidden file ignored", hidden, fsnotify.Create, nil},
		{"hidden removal ignored", hidden, fsnotify.Remove, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := w.handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.expected, change)
		})
	}
}

func TestIsHidden(t *testing.T) {
	w := &Watcher{root: "/data/docs"}
	assert.True(t, w.isHidden("/data/docs/.git/config"))
	assert.True(t, w.isHidden("/data/docs/a/.draft.md"))
	assert.False(t, w.isHidden("/data/docs/a/report.md"))
	assert.False(t, w.isHidden("/data/.docs-root-is-not-checked"), "paths outside the root use ..")
}

func TestRun_ReactsToChanges(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(existing, []byte("köhnə"), 0644))

	ingest := &recordingIngest{}
	w, err := New(dir, "", ingest, WithDebounce(20*time.Millisecond), WithInitialIngest(true), WithSkipHidden(true))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, _, batches := ingest.snapshot()
		return len(batches) == 1
	}, 2*time.Second, 10*time.Millisecond, "initial ingest")

	// Several writes in a row collapse into one ingestion.
	created := filepath.Join(dir, "new.md")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(created, []byte("# Yeni"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swap"), []byte("x"), 0644))
	require.NoError(t, os.Remove(existing))

	require.Eventually(t, func() bool {
		ingested, removed, _ := ingest.snapshot()
		return len(ingested) >= 1 && len(removed) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	ingested, removed, _ := ingest.snapshot()
	assert.Equal(t, []string{"new.md"}, ingested)
	assert.Equal(t, []string{"existing.txt"}, removed)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_NewDirectoryIsWalked(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}
	w, err := New(dir, "", ingest, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Give the watcher time to register the root.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "arxiv"), 0755))

	require.Eventually(t, func() bool {
		_, _, batches := ingest.snapshot()
		return len(batches) == 1 && batches[0] == "arxiv"
	}, 2*time.Second, 10*time.Millisecond)
}
