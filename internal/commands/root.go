package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"outlay/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "outlay",
		Short:   "Personal expense ledger with audit history and budgets",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAddCommand(),
		newListCommand(),
		newUpdateCommand(),
		newDeleteCommand(),
		newRestoreCommand(),
		newPurgeCommand(),
		newHistoryCommand(),
		newBudgetCommand(),
		newReportCommand(),
		newTrendCommand(),
		newExportCommand(),
		newCategoriesCommand(),
		newKeygenCommand(),
	)

	return rootCmd
}
