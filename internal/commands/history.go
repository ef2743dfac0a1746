package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"outlay/internal/cli"
	"outlay/internal/core"
)

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Show the audit trail of an expense",
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

			entries, err := a.ledger.History(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No history for expense #%d\n", id)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tACTION\tAMOUNT\tCURR\tDATE\tSTATE")
			for _, h := range entries {
				snap := h.After
				if snap == nil {
					snap = h.Before
				}
				state := "live"
				switch {
				case h.Action == core.ActionHardDelete:
					state = "purged"
				case snap.Deleted:
					state = "deleted"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					h.Timestamp.Format("2006-01-02 15:04:05"), h.Action,
					snap.Amount.StringFixed(2), snap.Currency, snap.Date, state)
			}
			tw.Flush()
			return nil
		},
	}
}
