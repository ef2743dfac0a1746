package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"outlay/internal/cli"
)

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Soft-delete an expense",
		Long:  "Soft-delete an expense. The row is hidden from listings and totals but kept on disk; restore it with 'outlay restore'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := cli.RootContext()
			defer cancel()

			res, err := a.ledger.SoftDelete(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted expense #%d (restore with 'outlay restore %d')\n", id, id)
			printAlerts(cmd.OutOrStdout(), res.Evaluation)
			return nil
		},
	}
}

func newRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore ID",
		Short: "Bring back a soft-deleted expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := cli.RootContext()
			defer cancel()

			res, err := a.ledger.Restore(ctx, id)
			if err != nil {
				return err
			}
			e := res.Expense
			fmt.Fprintf(cmd.OutOrStdout(), "Restored expense #%d: %s %s, %s, %s\n",
				e.ID, e.Amount.StringFixed(2), e.Currency, e.Category, e.Date)
			printAlerts(cmd.OutOrStdout(), res.Evaluation)
			return nil
		},
	}
}

func newPurgeCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge ID",
		Short: "Permanently remove an expense",
		Long:  "Permanently remove an expense row. The audit history survives the purge. This cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("purge is permanent; rerun with --yes to confirm")
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := cli.RootContext()
			defer cancel()

			if err := a.ledger.HardDelete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged expense #%d (audit history kept)\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the permanent removal")

	return cmd
}
