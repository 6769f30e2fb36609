package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	contextBudget  int
	contextMaxDocs int
	contextJSON    bool
)

var contextCmd = &cobra.Command{
	Use:   "context [query]",
	Short: "Build grounding context for a query",
	Long: `Assembles the most relevant chunks for a query under a character budget,
drawing on at most --max-docs distinct documents. The output is what an
AI assistant would be given to answer the query.`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().IntVarP(&contextBudget, "budget", "b", 0, "character budget (default from settings)")
	contextCmd.Flags().IntVarP(&contextMaxDocs, "max-docs", "d", 0, "maximum distinct documents (default from settings)")
	contextCmd.Flags().BoolVar(&contextJSON, "json", false, "output the bundle as JSON")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	if contextService == nil {
		return errNotConfigured("context")
	}

	retrieval := currentSettings().Retrieval
	budget := contextBudget
	if !cmd.Flags().Changed("budget") {
		budget = retrieval.BudgetChars
	}
	maxDocs := contextMaxDocs
	if !cmd.Flags().Changed("max-docs") {
		maxDocs = retrieval.MaxDocuments
	}

	bundle, err := contextService.BuildContext(cmd.Context(), args[0], budget, maxDocs)
	if err != nil {
		return fmt.Errorf("build context failed: %w", err)
	}

	if contextJSON {
		return printJSON(cmd, bundle)
	}
	if bundle.IsEmpty() {
		cmd.Println("No relevant context found.")
		return nil
	}

	cmd.Println(bundle.Render())
	cmd.Println()
	cmd.Printf("%d chunks, %d/%d characters\n", len(bundle.Entries), bundle.TotalChars, bundle.Budget)
	return nil
}
