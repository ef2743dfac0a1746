package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"outlay/internal/core"
)

// WritePDF saves rows as an A4 report. A non-nil chartPNG is embedded
// on its own page; a chart-only report with no rows is allowed.
func WritePDF(path string, rows []Row, chartPNG []byte) error {
	if len(rows) == 0 && chartPNG == nil {
		return fmt.Errorf("%w: nothing to export", core.ErrValidation)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	title := fmt.Sprintf("Expense Report - %s", time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	if len(rows) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(15, 8, "ID", "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, "Amount", "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, "Curr", "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 8, "Category", "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, "Date", "1", 0, "", false, 0, "")
		pdf.CellFormat(55, 8, "Note", "1", 1, "", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, r := range rows {
			pdf.CellFormat(15, 8, fmt.Sprintf("%d", r.ID), "1", 0, "", false, 0, "")
			pdf.CellFormat(30, 8, r.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(25, 8, r.Currency, "1", 0, "", false, 0, "")
			pdf.CellFormat(40, 8, tr(clip(r.Category, 20)), "1", 0, "", false, 0, "")
			pdf.CellFormat(25, 8, r.Date, "1", 0, "", false, 0, "")
			pdf.CellFormat(55, 8, tr(clip(r.Note, 40)), "1", 1, "", false, 0, "")
		}
	}

	if chartPNG != nil {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("trend", opts, bytes.NewReader(chartPNG))
		pdf.AddPage()
		pdf.ImageOptions("trend", 15, 25, 180, 0, false, opts, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("save pdf: %w", err)
	}
	return nil
}

// clip shortens s to at most n runes so table cells keep their width.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
