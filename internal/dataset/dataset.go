// Package dataset turns worksheet data into the indexed numeric tables that
// charts are drawn from.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// CategoryColumn is the column pivot sources are indexed by.
const CategoryColumn = "Product Line"

// RawIndexName labels the implicit row index of a raw table.
const RawIndexName = "index"

var (
	// ErrMissingCategoryColumn is returned when a pivot source has no category column.
	ErrMissingCategoryColumn = errors.New("category column not found")
	// ErrDuplicateCategory is returned when two pivot rows share a category label.
	ErrDuplicateCategory = errors.New("duplicate category label")
	// ErrNoNumericColumns is returned when nothing in the data can be plotted.
	ErrNoNumericColumns = errors.New("no numeric columns to plot")
	// ErrEmpty is returned for a source without data rows.
	ErrEmpty = errors.New("no data rows")
)

// Column is a named numeric series. Missing values are NaN.
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Table is a dataset indexed by unique row labels.
type Table struct {
	IndexName string   `json:"indexName"`
	Index     []string `json:"index"`
	Columns   []Column `json:"columns"`
}

// Source is a dataset in one of its accepted input shapes: RawTable or PivotSource.
type Source interface {
	// Table converts the source into its canonical indexed form.
	Table() (*Table, error)

	isSource()
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Totals returns the sum of each column, skipping missing values.
func (t *Table) Totals() []float64 {
	totals := make([]float64, len(t.Columns))
	for i, col := range t.Columns {
		present := make(stats.Float64Data, 0, len(col.Values))
		for _, v := range col.Values {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		if len(present) == 0 {
			continue
		}
		sum, err := stats.Sum(present)
		if err != nil {
			continue
		}
		totals[i] = sum
	}
	return totals
}

// numericColumn parses cells into a column. ok is false when any non-blank
// cell is not a number, or when every cell is blank.
func numericColumn(name string, cells []string) (Column, bool) {
	col := Column{Name: name, Values: make([]float64, len(cells))}
	seen := false
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			col.Values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Column{}, false
		}
		col.Values[i] = v
		seen = true
	}
	return col, seen
}

func checkUnique(labels []string) error {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, l)
		}
		seen[l] = true
	}
	return nil
}
