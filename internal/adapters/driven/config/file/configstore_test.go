package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.NoFileExists(t, store.Path(), "nothing written until Set or Save")
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docbase", "config.toml"), store.Path())
}

func TestNewConfigStoreAt_NestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "docbase.toml")

	store, err := NewConfigStoreAt(path)

	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	assert.DirExists(t, filepath.Dir(path))
}

func TestConfigStore_LoadsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
data_dir = "/srv/docbase"
verbose = true

[chunking]
max_size = 1200
overlap = 100
min_fill = 0.6

[ingest]
max_file_bytes = 1048576
skip_hidden = false
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/docbase", store.GetString("data_dir"))
	assert.True(t, store.GetBool("verbose"))
	assert.Equal(t, 1200, store.GetInt("chunking.max_size"))
	assert.Equal(t, 100, store.GetInt("chunking.overlap"))
	assert.InDelta(t, 0.6, store.GetFloat("chunking.min_fill"), 1e-9)
	assert.Equal(t, 1048576, store.GetInt("ingest.max_file_bytes"))

	skip, ok := store.Get("ingest.skip_hidden")
	assert.True(t, ok)
	assert.Equal(t, false, skip)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("name", "docbase"))
	require.NoError(t, store.Set("count", 42))
	require.NoError(t, store.Set("ratio", 0.25))
	require.NoError(t, store.Set("enabled", true))

	assert.Equal(t, "docbase", store.GetString("name"))
	assert.Equal(t, 42, store.GetInt("count"))
	assert.Equal(t, 42.0, store.GetFloat("count"), "integers convert to float")
	assert.Equal(t, 0.25, store.GetFloat("ratio"))
	assert.True(t, store.GetBool("enabled"))

	// Wrong types and missing keys yield zero values.
	assert.Empty(t, store.GetString("count"))
	assert.Zero(t, store.GetInt("name"))
	assert.Zero(t, store.GetFloat("name"))
	assert.False(t, store.GetBool("name"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("chunking.max_size", 2000))
	require.NoError(t, store1.Set("chunking.min_fill", 0.75))
	require.NoError(t, store1.Set("verbose", true))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 2000, store2.GetInt("chunking.max_size"))
	assert.Equal(t, 0.75, store2.GetFloat("chunking.min_fill"))
	assert.True(t, store2.GetBool("verbose"))

	raw, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[chunking]", "nested keys are saved as tables")
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("verbose", true))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[chunking\nmax_size = "), 0600))

	_, err := NewConfigStore(tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.toml")
}

func TestConfigStore_SetConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("chunking", 1))
	assert.Error(t, store.Set("chunking.max_size", 100))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "workers" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 7, store.GetInt("workers7"))
}

func TestUnflattenMap(t *testing.T) {
	nested, err := unflattenMap(map[string]any{
		"verbose":            true,
		"chunking.max_size":  100,
		"retrieval.x.y.deep": "v",
	})
	require.NoError(t, err)

	assert.Equal(t, true, nested["verbose"])
	assert.Equal(t, map[string]any{"max_size": 100}, nested["chunking"])
	assert.Equal(t, map[string]any{"x": map[string]any{"y": map[string]any{"deep": "v"}}}, nested["retrieval"])

	assert.Equal(t, map[string]any{
		"verbose":            true,
		"chunking.max_size":  100,
		"retrieval.x.y.deep": "v",
	}, flattenMap(nested, ""))
}
