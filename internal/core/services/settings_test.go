package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docbase/internal/core/domain"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func newTestSettings(t *testing.T, vars map[string]string) (*SettingsService, *memory.ConfigStore) {
	t.Helper()
	store := memory.NewConfigStore()
	return NewSettingsService(store, WithEnvLookup(env(vars))), store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service, _ := newTestSettings(t, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	assert.Equal(t, service.GetDefaults(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	service, store := newTestSettings(t, nil)
	require.NoError(t, store.Set("data_dir", "/srv/docbase"))
	require.NoError(t, store.Set("chunking.max_size", 1200))
	require.NoError(t, store.Set("chunking.min_fill", 0.75))
	require.NoError(t, store.Set("retrieval.max_documents", 3))
	require.NoError(t, store.Set("ingest.max_file_bytes", 1024))
	require.NoError(t, store.Set("ingest.skip_hidden", false))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "/srv/docbase", settings.DataDir)
	assert.Equal(t, 1200, settings.Chunking.MaxSize)
	assert.Equal(t, 0.75, settings.Chunking.MinFill)
	assert.Equal(t, 3, settings.Retrieval.MaxDocuments)
	assert.Equal(t, int64(1024), settings.Ingest.MaxFileBytes)
	assert.False(t, settings.Ingest.SkipHidden)
	assert.Equal(t, domain.DefaultChunkOverlap, settings.Chunking.Overlap, "unset keys keep defaults")
}

func TestSettingsService_Get_EnvironmentOverridesFile(t *testing.T) {
	service, store := newTestSettings(t, map[string]string{
		"DOCBASE_CHUNK_SIZE":    "800",
		"DOCBASE_CHUNK_OVERLAP": " 40 ",
		"DOCBASE_WORKERS":       "2",
		"DOCBASE_VERBOSE":       "true",
		"DOCBASE_DATA_DIR":      "",
		"DOCBASE_API_KEY":       "sk-test",
	})
	require.NoError(t, store.Set("chunking.max_size", 1200))
	require.NoError(t, store.Set("data_dir", "/from/file"))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 800, settings.Chunking.MaxSize)
	assert.Equal(t, 40, settings.Chunking.Overlap)
	assert.Equal(t, 2, settings.Ingest.Workers)
	assert.True(t, settings.Verbose)
	assert.Equal(t, "/from/file", settings.DataDir, "empty variables are ignored")
	assert.Equal(t, "sk-test", settings.Answer.APIKey)
}

func TestSettingsService_Get_BadEnvironmentValue(t *testing.T) {
	service, _ := newTestSettings(t, map[string]string{"DOCBASE_CHUNK_SIZE": "big"})

	_, err := service.Get()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "DOCBASE_CHUNK_SIZE")
}

func TestSettingsService_Set(t *testing.T) {
	t.Run("parses and stores typed value", func(t *testing.T) {
		service, store := newTestSettings(t, nil)

		require.NoError(t, service.Set("chunking.overlap", "150"))
		require.NoError(t, service.Set("chunking.min_fill", "0.6"))
		require.NoError(t, service.Set("verbose", "true"))

		v, ok := store.Get("chunking.overlap")
		require.True(t, ok)
		assert.Equal(t, 150, v)

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, 150, settings.Chunking.Overlap)
		assert.Equal(t, 0.6, settings.Chunking.MinFill)
		assert.True(t, settings.Verbose)
	})

	t.Run("unknown key", func(t *testing.T) {
		service, _ := newTestSettings(t, nil)
		err := service.Set("search.mode", "hybrid")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("api key is environment only", func(t *testing.T) {
		service, store := newTestSettings(t, nil)
		err := service.Set("answer.api_key", "sk-secret")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, ok := store.Get("answer.api_key")
		assert.False(t, ok)
	})

	t.Run("unparsable value", func(t *testing.T) {
		service, _ := newTestSettings(t, nil)
		err := service.Set("ingest.workers", "many")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid chunking is rejected and not stored", func(t *testing.T) {
		service, store := newTestSettings(t, nil)

		err := service.Set("chunking.overlap", "5000")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		_, ok := store.Get("chunking.overlap")
		assert.False(t, ok)
	})
}

func TestSettingsService_Save(t *testing.T) {
	service, store := newTestSettings(t, nil)
	settings := domain.DefaultAppSettings()
	settings.DataDir = "/tmp/docbase"
	settings.Retrieval.BudgetChars = 500

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
	_, ok := store.Get("answer.api_key")
	assert.False(t, ok, "api key is never persisted")

	v, ok := store.Get("retrieval.budget_chars")
	require.True(t, ok)
	assert.Equal(t, 500, v)
}

func TestSettingsService_Save_RejectsInvalid(t *testing.T) {
	service, store := newTestSettings(t, nil)
	settings := domain.DefaultAppSettings()
	settings.Chunking.MaxSize = 0

	err := service.Save(&settings)

	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	_, ok := store.Get("chunking.max_size")
	assert.False(t, ok)
}

func TestSettingsService_Validate(t *testing.T) {
	service, store := newTestSettings(t, nil)
	require.NoError(t, service.Validate())

	require.NoError(t, store.Set("chunking.max_size", 100))
	require.NoError(t, store.Set("chunking.overlap", 100))

	err := service.Validate()
	require.Error(t, err)
	var chunkErr *domain.ChunkingError
	assert.ErrorAs(t, err, &chunkErr)
}

func TestSettingsService_Keys(t *testing.T) {
	service, _ := newTestSettings(t, nil)

	keys := service.Keys()

	assert.Len(t, keys, 13)
	assert.NotContains(t, keys, "answer.api_key")
	assert.Equal(t, "data_dir", keys[0])
	assert.Contains(t, keys, "retrieval.candidate_factor")

	keys[0] = "mutated"
	assert.Equal(t, "data_dir", service.Keys()[0])
}
