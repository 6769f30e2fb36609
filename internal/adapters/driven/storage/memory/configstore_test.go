package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("data_dir", "/tmp/docbase"))
	require.NoError(t, store.Set("chunking.max_size", 1200))
	require.NoError(t, store.Set("ingest.max_file_bytes", int64(1024)))
	require.NoError(t, store.Set("chunking.min_fill", 0.7))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "/tmp/docbase", store.GetString("data_dir"))
	assert.Equal(t, 1200, store.GetInt("chunking.max_size"))
	assert.Equal(t, 1024, store.GetInt("ingest.max_file_bytes"))
	assert.Equal(t, 0.7, store.GetFloat("chunking.min_fill"))
	assert.Equal(t, 1200.0, store.GetFloat("chunking.max_size"))
	assert.True(t, store.GetBool("verbose"))
}

func TestConfigStore_MissingAndWrongTypes(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("verbose", "yes"))

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)

	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("verbose"))
	assert.Zero(t, store.GetFloat("verbose"))
	assert.False(t, store.GetBool("verbose"))
}

func TestConfigStore_Overwrite(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("retrieval.max_documents", 5))
	require.NoError(t, store.Set("retrieval.max_documents", 8))
	assert.Equal(t, 8, store.GetInt("retrieval.max_documents"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("ingest.workers", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("ingest.workers")
		}()
	}
	wg.Wait()

	_, ok := store.Get("ingest.workers")
	assert.True(t, ok)
}
