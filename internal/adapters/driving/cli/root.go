// Package cli provides the docbase command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/adapters/driven/completer/openai"
	"github.com/custodia-labs/docbase/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docbase/internal/chunker"
	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/core/ports/driving"
	"github.com/custodia-labs/docbase/internal/core/services"
	"github.com/custodia-labs/docbase/internal/extractors"
	"github.com/custodia-labs/docbase/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	cfgFile   string
	verbose   bool
	ephemeral bool
)

// Services used by the commands. They are wired in PersistentPreRunE.
var (
	settingsService driving.SettingsService
	ingestService   driving.IngestService
	searchService   driving.SearchService
	contextService  driving.ContextService
	answerService   driving.AnswerService
	documentService driving.DocumentService

	appSettings *domain.AppSettings
	indexStore  driven.IndexStore

	// answerErr explains why answerService is nil.
	answerErr error
)

// wire builds the services before a command runs. Tests replace it.
var wire = wireServices

var rootCmd = &cobra.Command{
	Use:   "docbase",
	Short: "Ingest documents and retrieve grounded context",
	Long: `docbase turns a folder of office documents into a searchable index.

It extracts text from PDF, DOCX, XLSX, HTML, Markdown and plain text files,
splits it into overlapping chunks and stores them in a local SQLite full-text
index. Queries return ranked chunks or a character-budgeted context bundle
ready to hand to an AI assistant.`,
	SilenceUsage:       true,
	PersistentPreRunE:  func(cmd *cobra.Command, _ []string) error { return wire(cmd) },
	PersistentPostRunE: func(*cobra.Command, []string) error { return closeIndex() },
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.docbase/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "use an in-memory index that is discarded on exit")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion overrides the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func wireServices(cmd *cobra.Command) error {
	// version and help need nothing wired.
	if cmd == versionCmd || cmd.Name() == "help" {
		return nil
	}

	store, err := openConfigStore()
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings := services.NewSettingsService(store)

	current, err := settings.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if verbose {
		current.Verbose = true
	}
	logger.SetVerbose(current.Verbose)

	if err := current.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// settings commands only need the config file.
	settingsService = settings
	appSettings = current
	if isSettingsCommand(cmd) {
		return nil
	}

	index, err := openIndex(current)
	if err != nil {
		return err
	}
	indexStore = index

	chunks, err := chunker.New(current.Chunking.MaxSize, current.Chunking.Overlap,
		chunker.WithMinFill(current.Chunking.MinFill))
	if err != nil {
		return err
	}

	contexts := services.NewContextService(index, current.Retrieval.CandidateFactor)
	ingestService = services.NewIngestService(extractors.New(), chunks, index, services.IngestOptionsFrom(current))
	searchService = services.NewSearchService(index)
	contextService = contexts
	documentService = services.NewDocumentService(index)

	answerService, answerErr = nil, nil
	completer, err := openai.New(openai.Config{
		APIKey:  current.Answer.APIKey,
		BaseURL: current.Answer.BaseURL,
		Model:   current.Answer.Model,
	})
	if err != nil {
		answerErr = err
		logger.Debug("answering disabled: %v", err)
		return nil
	}
	if prompts, err := openPromptStore(); err == nil {
		completer.SetPromptStore(prompts)
	} else {
		logger.Debug("using built-in prompts: %v", err)
	}
	answerService = services.NewAnswerService(contexts, completer,
		current.Retrieval.BudgetChars, current.Retrieval.MaxDocuments)
	return nil
}

func openConfigStore() (*file.ConfigStore, error) {
	if cfgFile != "" {
		return file.NewConfigStoreAt(cfgFile)
	}
	return file.NewConfigStore("")
}

// openPromptStore keeps prompt files next to the config file.
func openPromptStore() (*file.PromptStore, error) {
	if cfgFile != "" {
		return file.NewPromptStore(filepath.Join(filepath.Dir(cfgFile), file.PromptDirName))
	}
	return file.NewPromptStore("")
}

func openIndex(settings *domain.AppSettings) (driven.IndexStore, error) {
	if ephemeral {
		logger.Debug("using in-memory index")
		return memory.NewIndexStore(), nil
	}
	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	logger.Debug("index: %s", store.Path())
	return store, nil
}

func closeIndex() error {
	if indexStore == nil {
		return nil
	}
	err := indexStore.Close()
	indexStore = nil
	return err
}

func isSettingsCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == settingsCmd {
			return true
		}
	}
	return false
}

// currentSettings returns the loaded settings, or defaults when none were
// loaded.
func currentSettings() domain.AppSettings {
	if appSettings != nil {
		return *appSettings
	}
	return domain.DefaultAppSettings()
}

// errNotConfigured reports a service the command needs but was not wired.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
