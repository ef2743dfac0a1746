package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"outlay/internal/cli"
	"outlay/internal/core"
	"outlay/internal/ledger"
)

func newUpdateCommand() *cobra.Command {
	var amountStr string
	var category string
	var currency string
	var note string
	var dateStr string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an expense",
		Long:  "Change fields of an expense. Only flags you pass are touched; pass --note \"\" to clear the note.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var p ledger.UpdateParams
			if cmd.Flags().Changed("amount") {
				amount, err := core.ParseAmount(amountStr)
				if err != nil {
					return err
				}
				p.Amount = &amount
			}
			if cmd.Flags().Changed("category") {
				p.Category = &category
			}
			if cmd.Flags().Changed("currency") {
				p.Currency = &currency
			}
			if cmd.Flags().Changed("note") {
				p.Note = &note
			}
			if cmd.Flags().Changed("date") {
				date, err := core.ParseDate(dateStr)
				if err != nil {
					return err
				}
				p.Date = &date
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := cli.RootContext()
			defer cancel()

			res, err := a.ledger.Update(ctx, id, p)
			if err != nil {
				return err
			}

			e := res.Expense
			fmt.Fprintf(cmd.OutOrStdout(), "Updated expense #%d: %s %s, %s, %s\n",
				e.ID, e.Amount.StringFixed(2), e.Currency, e.Category, e.Date)
			printAlerts(cmd.OutOrStdout(), res.Evaluations...)
			return nil
		},
	}

	cmd.Flags().StringVar(&amountStr, "amount", "", "new amount")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")
	cmd.Flags().StringVar(&currency, "currency", "", "new currency code")
	cmd.Flags().StringVarP(&note, "note", "n", "", "new note")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "new date as YYYY-MM-DD")

	return cmd
}
