package xlsx

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WriteFile creates a new .xlsx file from the given workbook data.
// Cells that parse as numbers are stored as numeric cells.
func WriteFile(wb *Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range wb.Sheets {
		sheetName := sheet.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			// Rename default sheet
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
				return fmt.Errorf("could not rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return fmt.Errorf("could not create sheet %q: %w", sheetName, err)
			}
		}

		for rowIdx, row := range sheet.Rows {
			for colIdx, cell := range row {
				if cell == "" {
					continue
				}
				cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					return fmt.Errorf("invalid cell coordinates: %w", err)
				}
				var value any = cell
				if n, err := strconv.ParseFloat(cell, 64); err == nil {
					value = n
				}
				if err := f.SetCellValue(sheetName, cellName, value); err != nil {
					return fmt.Errorf("could not set cell %s: %w", cellName, err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}

	return nil
}
