package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// RawTable is worksheet data as read: a header row followed by data rows.
// It converts with an implicit numeric row index.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// FromRows splits worksheet rows into a header and data rows. Trailing
// empty rows are dropped and short rows are padded to the header width.
func FromRows(rows [][]string) RawTable {
	if len(rows) == 0 {
		return RawTable{}
	}

	header := headerNames(rows[0])
	data := rows[1:]
	for len(data) > 0 && blank(data[len(data)-1]) {
		data = data[:len(data)-1]
	}

	width := len(header)
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(header) < width {
		header = append(header, fmt.Sprintf("Unnamed: %d", len(header)))
	}

	padded := make([][]string, len(data))
	for i, row := range data {
		r := make([]string, width)
		copy(r, row)
		padded[i] = r
	}
	return RawTable{Header: header, Rows: padded}
}

// Table implements Source. Non-numeric columns are dropped.
func (r RawTable) Table() (*Table, error) {
	if len(r.Rows) == 0 {
		return nil, ErrEmpty
	}

	t := &Table{IndexName: RawIndexName, Index: make([]string, len(r.Rows))}
	for i := range r.Rows {
		t.Index[i] = strconv.Itoa(i)
	}

	for j, name := range r.Header {
		cells := make([]string, len(r.Rows))
		for i, row := range r.Rows {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		if col, ok := numericColumn(name, cells); ok {
			t.Columns = append(t.Columns, col)
		}
	}

	if len(t.Columns) == 0 {
		return nil, ErrNoNumericColumns
	}
	return t, nil
}

func (RawTable) isSource() {}

// PivotColumn is one entry of a PivotSource.
type PivotColumn struct {
	Name  string
	Cells []string
}

// PivotSource is a dictionary of columns pre-aggregated by category.
// It converts by indexing on CategoryColumn.
type PivotSource struct {
	Columns []PivotColumn
}

// PivotFromRows builds a pivot source from a header row and data rows.
func PivotFromRows(rows [][]string) PivotSource {
	raw := FromRows(rows)
	p := PivotSource{Columns: make([]PivotColumn, len(raw.Header))}
	for j, name := range raw.Header {
		cells := make([]string, len(raw.Rows))
		for i, row := range raw.Rows {
			cells[i] = row[j]
		}
		p.Columns[j] = PivotColumn{Name: name, Cells: cells}
	}
	return p
}

// Table implements Source.
func (p PivotSource) Table() (*Table, error) {
	var category *PivotColumn
	for i := range p.Columns {
		if p.Columns[i].Name == CategoryColumn {
			category = &p.Columns[i]
			break
		}
	}
	if category == nil {
		return nil, fmt.Errorf("%w: pivot data has no %q column", ErrMissingCategoryColumn, CategoryColumn)
	}
	if len(category.Cells) == 0 {
		return nil, ErrEmpty
	}

	index := make([]string, len(category.Cells))
	for i, c := range category.Cells {
		index[i] = strings.TrimSpace(c)
	}
	if err := checkUnique(index); err != nil {
		return nil, err
	}

	t := &Table{IndexName: CategoryColumn, Index: index}
	names := make(map[string]bool)
	for _, pc := range p.Columns {
		if pc.Name == CategoryColumn {
			continue
		}
		if names[pc.Name] {
			return nil, fmt.Errorf("duplicate column %q", pc.Name)
		}
		names[pc.Name] = true
		if len(pc.Cells) != len(index) {
			return nil, fmt.Errorf("column %q has %d values, expected %d", pc.Name, len(pc.Cells), len(index))
		}
		if col, ok := numericColumn(pc.Name, pc.Cells); ok {
			t.Columns = append(t.Columns, col)
		}
	}

	if len(t.Columns) == 0 {
		return nil, ErrNoNumericColumns
	}
	return t, nil
}

func (PivotSource) isSource() {}

// headerNames fills blank headers and de-duplicates repeated ones the way
// spreadsheet readers usually do ("Jan", "Jan.1", ...).
func headerNames(row []string) []string {
	names := make([]string, len(row))
	counts := make(map[string]int)
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		// A suffixed name may itself be taken; keep suffixing until free.
		n := counts[h]
		for n > 0 {
			counts[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n)
			n = counts[h]
		}
		counts[h] = 1
		names[i] = h
	}
	return names
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
