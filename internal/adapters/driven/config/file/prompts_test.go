package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

func TestPromptStore_ImplementsInterface(t *testing.T) {
	var _ driven.PromptStore = (*PromptStore)(nil)
}

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	// no I/O before the first Load
	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docbase", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)

	for _, f := range []string{"answer_system.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAnswerSystem)

	require.NoError(t, err)
	assert.Equal(t, driven.DefaultAnswerSystemPrompt, prompt)
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "Cavabı yalnız sənədlərə əsasən ver."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_system.txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAnswerSystem)

	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Load_EmptyFileUsesDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_system.txt"), []byte("  \n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAnswerSystem)

	require.NoError(t, err)
	assert.Equal(t, driven.DefaultAnswerSystemPrompt, prompt)
}

func TestPromptStore_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, _ = store.Load(driven.PromptAnswerSystem)
	require.NoError(t, os.Remove(filepath.Join(dir, "answer_system.txt")))
	store.Reload()

	prompt, err := store.Load(driven.PromptAnswerSystem)

	require.NoError(t, err)
	assert.Equal(t, driven.DefaultAnswerSystemPrompt, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nonexistent_prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent_prompt")
}

func TestPromptStore_CacheAndReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_system.txt"), []byte("modified"), 0600))

	cached, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	assert.Equal(t, "modified", fresh)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]string, goroutines)
	errs := make([]error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = store.Load(driven.PromptAnswerSystem)
		}()
	}
	wg.Wait()

	for i := range goroutines {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	custom := "pre-existing custom prompt"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_system.txt"), []byte(custom), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("mine"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	_, _ = store.Load(driven.PromptAnswerSystem)

	data, err := os.ReadFile(filepath.Join(dir, "answer_system.txt"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(readme))
}
