package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"outlay/internal/budget"
	"outlay/internal/cli"
	"outlay/internal/core"
)

func newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report [MONTH]",
		Short: "Per-category totals for a month",
		Long:  "Per-category totals for a month (default: the current one), with the budget signal where a budget exists.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := core.Today().YearMonth()
			if len(args) == 1 {
				var err error
				if month, err = core.ParseMonth(args[0]); err != nil {
					return err
				}
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := cli.RootContext()
			defer cancel()

			totals, err := a.query.MonthlyTotals(ctx, month)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(totals) == 0 {
				fmt.Fprintf(out, "No expenses recorded for %s\n", month)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tTOTAL\tBUDGET")
			for _, t := range totals {
				status := "-"
				if ev, err := a.monitor.Evaluate(ctx, t.Category, month); err == nil && ev.Signal != budget.SignalNone {
					status = fmt.Sprintf("%s of %s (%s)", ev.Spent.StringFixed(2), ev.Limit.StringFixed(2), ev.Signal)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Category, t.Total.StringFixed(2), status)
			}
			fmt.Fprintf(tw, "TOTAL\t%s\t\n", core.GrandTotal(totals).StringFixed(2))
			tw.Flush()
			return nil
		},
	}
}

func newTrendCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Daily spending for the last days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := cli.RootContext()
			defer cancel()

			points, err := a.query.Trend(ctx, days)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTOTAL")
			for _, p := range points {
				fmt.Fprintf(tw, "%s\t%s\n", p.Date, p.Total.StringFixed(2))
			}
			tw.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "how many trailing days to cover")

	return cmd
}
