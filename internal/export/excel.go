package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Expenses"

var excelHeaders = []string{"ID", "Amount", "Currency", "Category", "Date", "Note"}

// WriteExcel saves rows as an .xlsx workbook with one sheet.
func WriteExcel(path string, rows []Row) error {
	if err := requireRows(rows); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), excelSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	for i, h := range excelHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(excelSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for idx, r := range rows {
		row := idx + 2
		f.SetCellValue(excelSheet, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(excelSheet, fmt.Sprintf("B%d", row), r.Amount.InexactFloat64())
		f.SetCellValue(excelSheet, fmt.Sprintf("C%d", row), r.Currency)
		f.SetCellValue(excelSheet, fmt.Sprintf("D%d", row), r.Category)
		f.SetCellValue(excelSheet, fmt.Sprintf("E%d", row), r.Date)
		f.SetCellValue(excelSheet, fmt.Sprintf("F%d", row), r.Note)
	}

	f.SetColWidth(excelSheet, "A", "A", 8)
	f.SetColWidth(excelSheet, "B", "B", 12)
	f.SetColWidth(excelSheet, "C", "C", 10)
	f.SetColWidth(excelSheet, "D", "D", 18)
	f.SetColWidth(excelSheet, "E", "E", 12)
	f.SetColWidth(excelSheet, "F", "F", 40)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save excel: %w", err)
	}
	return nil
}
