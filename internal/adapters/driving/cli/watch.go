package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/watcher"
)

var (
	watchCategory string
	watchInitial  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep a directory indexed",
	Long: `Watches a directory and keeps the index in step with it: edited and new
files are re-ingested, deleted files are removed. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchCategory, "category", "c", "", "category to store with the documents")
	watchCmd.Flags().BoolVar(&watchInitial, "initial", true, "ingest the whole directory before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}

	w, err := watcher.New(args[0], watchCategory, ingestService,
		watcher.WithInitialIngest(watchInitial),
		watcher.WithSkipHidden(currentSettings().Ingest.SkipHidden),
	)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Root())
	return w.Run(cmd.Context())
}
