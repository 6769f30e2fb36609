package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir         = "data_dir"
	keyVerbose         = "verbose"
	keyChunkSize       = "chunking.max_size"
	keyChunkOverlap    = "chunking.overlap"
	keyChunkMinFill    = "chunking.min_fill"
	keyBudgetChars     = "retrieval.budget_chars"
	keyMaxDocuments    = "retrieval.max_documents"
	keyCandidateFactor = "retrieval.candidate_factor"
	keyWorkers         = "ingest.workers"
	keyMaxFileBytes    = "ingest.max_file_bytes"
	keySkipHidden      = "ingest.skip_hidden"
	keyAnswerBaseURL   = "answer.base_url"
	keyAnswerModel     = "answer.model"

	// keyAnswerAPIKey is settable from the environment only.
	keyAnswerAPIKey = "answer.api_key"
)

// settingKeys is the display order of every recognised key.
var settingKeys = []string{
	keyDataDir, keyVerbose,
	keyChunkSize, keyChunkOverlap, keyChunkMinFill,
	keyBudgetChars, keyMaxDocuments, keyCandidateFactor,
	keyWorkers, keyMaxFileBytes, keySkipHidden,
	keyAnswerBaseURL, keyAnswerModel,
}

// envOverrides maps environment variables to the keys they override.
var envOverrides = []struct {
	env string
	key string
}{
	{"DOCBASE_DATA_DIR", keyDataDir},
	{"DOCBASE_VERBOSE", keyVerbose},
	{"DOCBASE_CHUNK_SIZE", keyChunkSize},
	{"DOCBASE_CHUNK_OVERLAP", keyChunkOverlap},
	{"DOCBASE_BUDGET_CHARS", keyBudgetChars},
	{"DOCBASE_MAX_DOCUMENTS", keyMaxDocuments},
	{"DOCBASE_WORKERS", keyWorkers},
	{"DOCBASE_ANSWER_MODEL", keyAnswerModel},
	{"DOCBASE_API_KEY", keyAnswerAPIKey},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// SettingsOption configures the settings service.
type SettingsOption func(*SettingsService)

// WithEnvLookup replaces os.LookupEnv, mainly for tests.
func WithEnvLookup(lookup func(string) (string, bool)) SettingsOption {
	return func(s *SettingsService) {
		s.lookupEnv = lookup
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, opts ...SettingsOption) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves the effective application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	fields := settingFields(&settings)

	for _, key := range settingKeys {
		s.load(fields[key], key)
	}

	for _, o := range envOverrides {
		raw, ok := s.lookupEnv(o.env)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := assign(fields[o.key], raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, o.env, err)
		}
	}

	return &settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	fields := settingFields(settings)
	for _, key := range settingKeys {
		if err := s.configStore.Set(key, deref(fields[key])); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set parses value for key and persists it if the result is valid.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	field, ok := settingFields(settings)[key]
	if !ok || !slices.Contains(settingKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := assign(field, value); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, deref(field)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks the effective settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys lists the recognised setting keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Path returns the config file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// load copies a stored value into field when the key is present.
func (s *SettingsService) load(field any, key string) {
	if _, ok := s.configStore.Get(key); !ok {
		return
	}
	switch p := field.(type) {
	case *string:
		*p = s.configStore.GetString(key)
	case *int:
		*p = s.configStore.GetInt(key)
	case *int64:
		*p = int64(s.configStore.GetInt(key))
	case *float64:
		*p = s.configStore.GetFloat(key)
	case *bool:
		*p = s.configStore.GetBool(key)
	}
}

// settingFields binds each key to the field it controls.
func settingFields(st *domain.AppSettings) map[string]any {
	return map[string]any{
		keyDataDir:         &st.DataDir,
		keyVerbose:         &st.Verbose,
		keyChunkSize:       &st.Chunking.MaxSize,
		keyChunkOverlap:    &st.Chunking.Overlap,
		keyChunkMinFill:    &st.Chunking.MinFill,
		keyBudgetChars:     &st.Retrieval.BudgetChars,
		keyMaxDocuments:    &st.Retrieval.MaxDocuments,
		keyCandidateFactor: &st.Retrieval.CandidateFactor,
		keyWorkers:         &st.Ingest.Workers,
		keyMaxFileBytes:    &st.Ingest.MaxFileBytes,
		keySkipHidden:      &st.Ingest.SkipHidden,
		keyAnswerBaseURL:   &st.Answer.BaseURL,
		keyAnswerModel:     &st.Answer.Model,
		keyAnswerAPIKey:    &st.Answer.APIKey,
	}
}

// assign parses raw into the field's type.
func assign(field any, raw string) error {
	raw = strings.TrimSpace(raw)
	switch p := field.(type) {
	case *string:
		*p = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*p = v
	case *int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*p = v
	default:
		return fmt.Errorf("unsupported field type %T", field)
	}
	return nil
}

func deref(field any) any {
	switch p := field.(type) {
	case *string:
		return *p
	case *int:
		return *p
	case *int64:
		return *p
	case *float64:
		return *p
	case *bool:
		return *p
	}
	return nil
}
