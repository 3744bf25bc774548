// Package xlsx provides reading and writing capabilities for .xlsx (Excel) files.
package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// Sheet represents a single worksheet's data.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// Workbook represents a parsed Excel file with all its sheets.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// ReadFile reads an .xlsx file and returns its structured data.
func ReadFile(path string) (*Workbook, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readWorkbook(f)
}

// ReadBytes reads an .xlsx file from a byte slice and returns its structured data.
func ReadBytes(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data: %w", err)
	}
	defer f.Close()

	return readWorkbook(f)
}

// SheetNames returns the worksheet names in workbook order.
func SheetNames(path string) ([]string, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// ListSheets is SheetNames for interactive callers: any failure is reported
// to diag and yields an empty list. A nil diag writes to stderr.
func ListSheets(path string, diag io.Writer) []string {
	if diag == nil {
		diag = os.Stderr
	}
	names, err := SheetNames(path)
	if err != nil {
		fmt.Fprintf(diag, "Error reading Excel file: %v\n", err)
		return []string{}
	}
	return names
}

// ReadSheet returns the rows of a single worksheet using unformatted cell values.
func ReadSheet(path, name string) (*Sheet, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(name); idx < 0 {
		return nil, fmt.Errorf("sheet %q not found — available sheets: %v", name, f.GetSheetList())
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
	}
	return &Sheet{Name: name, Rows: rows}, nil
}

func open(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	return f, nil
}

func readWorkbook(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}

	return wb, nil
}

// GetSheet returns a specific sheet by name. Returns an error if the sheet is not found.
func (wb *Workbook) GetSheet(name string) (*Sheet, error) {
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], nil
		}
	}

	available := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		available[i] = s.Name
	}
	return nil, fmt.Errorf("sheet %q not found — available sheets: %v", name, available)
}

// RowCount returns the total number of data rows (excluding empty rows).
func (s *Sheet) RowCount() int {
	count := 0
	for _, row := range s.Rows {
		for _, cell := range row {
			if cell != "" {
				count++
				break
			}
		}
	}
	return count
}

// ColumnCount returns the width of the widest row.
func (s *Sheet) ColumnCount() int {
	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
