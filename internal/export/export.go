// Package export renders expense listings to spreadsheet and PDF
// files, optionally with a spending trend chart.
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"outlay/internal/core"
)

// Row is one line of an export. Note carries display text: callers
// reveal encrypted notes (or substitute a placeholder) before handing
// rows over, so this package never sees key material.
type Row struct {
	ID       int64
	Amount   decimal.Decimal
	Currency string
	Category string
	Date     string
	Note     string
}

// DefaultExcelName returns a timestamped file name for an Excel
// export.
func DefaultExcelName(now time.Time) string {
	return fmt.Sprintf("expenses_export_%s.xlsx", now.Format("20060102_150405"))
}

// DefaultPDFName returns a timestamped file name for a PDF report.
func DefaultPDFName(now time.Time) string {
	return fmt.Sprintf("expenses_report_%s.pdf", now.Format("20060102_150405"))
}

func requireRows(rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: nothing to export", core.ErrValidation)
	}
	return nil
}
