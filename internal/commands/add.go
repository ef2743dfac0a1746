package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"outlay/internal/cli"
	"outlay/internal/core"
	"outlay/internal/ledger"
)

func newAddCommand() *cobra.Command {
	var category string
	var currency string
	var note string
	var dateStr string

	cmd := &cobra.Command{
		Use:   "add AMOUNT",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[0])
			if err != nil {
				return err
			}
			date := core.Today()
			if dateStr != "" {
				if date, err = core.ParseDate(dateStr); err != nil {
					return err
				}
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if currency == "" {
				currency = a.cfg.Currency
			}

			ctx, cancel := cli.RootContext()
			defer cancel()

			res, err := a.ledger.Add(ctx, ledger.AddParams{
				Category: category,
				Amount:   amount,
				Currency: currency,
				Note:     note,
				Date:     date,
			})
			if err != nil {
				return err
			}

			e := res.Expense
			fmt.Fprintf(cmd.OutOrStdout(), "Saved expense #%d: %s %s, %s, %s\n",
				e.ID, e.Amount.StringFixed(2), e.Currency, e.Category, e.Date)
			printAlerts(cmd.OutOrStdout(), res.Evaluation)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "Other", "expense category")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (defaults to OUTLAY_CURRENCY)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "free-form note")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "date as YYYY-MM-DD (defaults to today)")

	return cmd
}
