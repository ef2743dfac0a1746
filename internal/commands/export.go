package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"outlay/internal/cli"
	"outlay/internal/core"
	"outlay/internal/export"
)

// exportBatch caps how many rows one export fetches.
const exportBatch = 10000

func newExportCommand() *cobra.Command {
	var flags filterFlags
	var format string
	var outPath string
	var withChart bool
	var chartDays int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write matching expenses to an Excel or PDF file",
		Long:  "Write matching expenses to an Excel or PDF file. Takes the same filters as list; encrypted notes are revealed for the file, or replaced with a placeholder when they cannot be.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.build()
			if err != nil {
				return err
			}
			if format != "excel" && format != "pdf" {
				return fmt.Errorf("%w: format must be excel or pdf", core.ErrValidation)
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			f.Page = 1
			f.PerPage = exportBatch

			ctx, cancel := cli.RootContext()
			defer cancel()

			res, err := a.query.List(ctx, f)
			if err != nil {
				return err
			}

			rows := make([]export.Row, 0, len(res.Items))
			for _, e := range res.Items {
				rows = append(rows, export.Row{
					ID:       e.ID,
					Amount:   e.Amount,
					Currency: e.Currency,
					Category: e.Category,
					Date:     e.Date.String(),
					Note:     a.query.DisplayNote(e.Note),
				})
			}

			switch format {
			case "excel":
				if outPath == "" {
					outPath = export.DefaultExcelName(time.Now())
				}
				if err := export.WriteExcel(outPath, rows); err != nil {
					return err
				}
			case "pdf":
				if outPath == "" {
					outPath = export.DefaultPDFName(time.Now())
				}
				var chartPNG []byte
				if withChart {
					points, err := a.query.Trend(ctx, chartDays)
					if err != nil {
						return err
					}
					if chartPNG, err = export.TrendPNG(points); err != nil {
						return err
					}
				}
				if err := export.WritePDF(outPath, rows, chartPNG); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d expenses to %s\n", len(rows), outPath)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "excel", "output format: excel or pdf")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (defaults to a timestamped name)")
	cmd.Flags().BoolVar(&withChart, "chart", false, "add a spending trend page to the PDF")
	cmd.Flags().IntVar(&chartDays, "chart-days", 30, "days the trend chart covers")

	return cmd
}
