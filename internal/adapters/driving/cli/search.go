package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

var (
	searchLimit    int
	searchCategory string
	searchDocument string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Ranks indexed chunks by how many query terms they contain and how often.
Chunks containing the whole query as a phrase rank higher.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "only search documents in this category")
	searchCmd.Flags().StringVar(&searchDocument, "document", "", "only search this document")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNotConfigured("search")
	}

	filter := domain.DocumentFilter{
		Category:   searchCategory,
		DocumentID: searchDocument,
	}
	results, err := searchService.Search(cmd.Context(), args[0], searchLimit, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		// Format: [N] filename #ordinal (score)
		cmd.Printf("  [%d] %s #%d (%.2f)\n", i+1, r.Document.Filename, r.Chunk.Ordinal, r.Score)
		if r.Document.Category != "" {
			cmd.Printf("      Category: %s\n", r.Document.Category)
		}
		cmd.Printf("      Matched: %s\n", strings.Join(r.MatchedTerms, ", "))
		cmd.Printf("      %s\n", snippet(r.Chunk.Content, 160))
		cmd.Println()
	}
	return nil
}

// snippet collapses whitespace and truncates s to at most n characters.
func snippet(s string, n int) string {
	runes := []rune(strings.Join(strings.Fields(s), " "))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
