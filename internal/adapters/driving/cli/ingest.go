package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

var (
	ingestCategory string
	ingestJSON     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index a file or directory",
	Long: `Extracts, chunks and indexes a single file, or every file under a directory.

Re-ingesting a file replaces its previous content. A directory ingest never
stops at the first bad file: every file is reported as indexed or failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCategory, "category", "c", "", "category to store with the documents")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	if info.IsDir() {
		report, err := ingestService.IngestBatch(cmd.Context(), path, ingestCategory)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		if ingestJSON {
			return printJSON(cmd, report)
		}
		printBatchReport(cmd, report)
		return nil
	}

	res, err := ingestService.IngestFile(cmd.Context(), path, ingestCategory)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	if ingestJSON {
		return printJSON(cmd, domain.FileSuccess{
			File:       res.Filename,
			DocumentID: res.DocumentID,
			Format:     res.Format,
			ChunkCount: res.ChunkCount,
		})
	}
	cmd.Printf("Indexed %s (%s, %d chunks)\n", res.Filename, res.Format, res.ChunkCount)
	cmd.Printf("  ID: %s\n", res.DocumentID)
	return nil
}

func printBatchReport(cmd *cobra.Command, report *domain.BatchReport) {
	cmd.Printf("Processed %d files: %d indexed, %d failed\n",
		report.TotalProcessed, report.Successful, report.Failed)

	if len(report.Succeeded) > 0 {
		cmd.Println()
		for _, s := range report.Succeeded {
			cmd.Printf("  ok    %s (%s, %d chunks)\n", s.File, s.Format, s.ChunkCount)
		}
	}
	if len(report.Failures) > 0 {
		cmd.Println()
		for _, f := range report.Failures {
			cmd.Printf("  fail  %s [%s] %s\n", f.File, f.Kind, f.Error)
		}
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
