package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/adapters/driving/tui"
)

// runProgram runs the bubbletea program. Replaced in tests.
var runProgram = func(app *tui.App) error {
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for docbase.

The TUI searches the indexed documents, shows the grounding context built
for a query, and lets you read or delete indexed documents.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Search / Select
  c        - Toggle context for the last query
  x        - Delete document (documents view)
  Esc      - Back
  q        - Quit (menu)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in TUI: %v", r)
		}
	}()

	ports := tui.NewPorts(searchService, contextService, documentService, currentSettings().Retrieval)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
