package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"outlay/internal/budget"
	"outlay/internal/cli"
	"outlay/internal/core"
)

func newBudgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Set and check monthly category budgets",
	}
	cmd.AddCommand(newBudgetSetCommand(), newBudgetStatusCommand())
	return cmd
}

func newBudgetSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set CATEGORY MONTH LIMIT",
		Short: "Create or replace a budget for a category and month",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := core.ParseMonth(args[1])
			if err != nil {
				return err
			}
			limit, err := core.ParseAmount(args[2])
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

			b, err := a.monitor.Set(ctx, args[0], month, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget set: %s %s limit %s\n",
				b.Category, b.Month, b.Limit.StringFixed(2))

			ev, err := a.monitor.Evaluate(ctx, b.Category, month)
			if err == nil {
				printAlerts(cmd.OutOrStdout(), ev)
			}
			return nil
		},
	}
}

func newBudgetStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status CATEGORY [MONTH]",
		Short: "Grade current spending against a budget",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := core.Today().YearMonth()
			if len(args) == 2 {
				var err error
				if month, err = core.ParseMonth(args[1]); err != nil {
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

			ev, err := a.monitor.Evaluate(ctx, args[0], month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ev.Signal == budget.SignalNone {
				fmt.Fprintf(out, "%s %s: spent %s, no budget set\n",
					ev.Category, ev.Month, ev.Spent.StringFixed(2))
				return nil
			}
			percent := ev.Spent.Mul(decimal.NewFromInt(100)).DivRound(ev.Limit, 0)
			fmt.Fprintf(out, "%s %s: spent %s of %s (%s%%) %s\n",
				ev.Category, ev.Month, ev.Spent.StringFixed(2),
				ev.Limit.StringFixed(2), percent, ev.Signal)
			return nil
		},
	}
}
