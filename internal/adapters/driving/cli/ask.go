package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

var (
	askName string
	askRole string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed documents",
	Long: `Builds grounding context for the question and sends it to the configured
chat completion endpoint.

The endpoint is set with answer.base_url and answer.model; the API key is
read from DOCBASE_API_KEY. Any OpenAI-compatible server works, including a
local Ollama (answer.base_url = http://localhost:11434/v1).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askName, "name", "", "name of the person asking")
	askCmd.Flags().StringVar(&askRole, "role", "", "role of the person asking")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		if answerErr != nil {
			return fmt.Errorf("answering not available: %w", answerErr)
		}
		return errNotConfigured("answer")
	}

	caller := domain.Caller{Name: askName, Role: askRole}
	answer, err := answerService.Ask(cmd.Context(), strings.Join(args, " "), nil, caller)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	if !answer.Context.IsEmpty() {
		cmd.Println()
		cmd.Printf("Sources: %s\n", strings.Join(answer.Context.Sources(), ", "))
	}
	return nil
}
