// Package sheets provides the command for inspecting workbook worksheets.
package sheets

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/internal/dataset"
	"github.com/klytics/chartkit/internal/formats/xlsx"
	"github.com/klytics/chartkit/internal/output"
)

// SheetInfo summarizes one worksheet.
type SheetInfo struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// NewCommand returns the sheets command.
func NewCommand() *cobra.Command {
	var pivot bool

	cmd := &cobra.Command{
		Use:   "sheets <file.xlsx|-> [worksheet]",
		Short: "List worksheets, or show the data a chart would be drawn from",
		Long: `Lists the worksheets of an .xlsx file in workbook order, numbered as in the
interactive menu. Given a worksheet name, prints the numeric table the chart
is drawn from, with column totals. Pass '-' to read the workbook from stdin.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			w := output.NewWriter(cmd.OutOrStdout(), output.FormatFor(jsonFlag))

			wb, err := loadWorkbook(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				sheet, err := wb.GetSheet(args[1])
				if err != nil {
					return err
				}
				return showTable(cmd.OutOrStdout(), w, sheet, pivot)
			}
			return listSheets(cmd.OutOrStdout(), w, wb)
		},
	}

	cmd.Flags().BoolVar(&pivot, "pivot", false, `Index the worksheet by "Product Line"`)
	return cmd
}

func loadWorkbook(stdin io.Reader, filePath string) (*xlsx.Workbook, error) {
	if filePath == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read from stdin: %w", err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("no input provided — pass an .xlsx file path or pipe a workbook to stdin")
		}
		return xlsx.ReadBytes(data)
	}
	if !strings.HasSuffix(strings.ToLower(filePath), ".xlsx") {
		return nil, fmt.Errorf("expected an .xlsx file, got %q — use 'chartkit sheets <file.xlsx>'", filePath)
	}
	return xlsx.ReadFile(filePath)
}

func listSheets(out io.Writer, w *output.Writer, wb *xlsx.Workbook) error {
	infos := make([]SheetInfo, len(wb.Sheets))
	for i := range wb.Sheets {
		s := &wb.Sheets[i]
		infos[i] = SheetInfo{Index: i + 1, Name: s.Name, Rows: s.RowCount(), Columns: s.ColumnCount()}
	}

	if w.JSON() {
		return output.PrintJSON(out, "sheets", infos)
	}

	if len(infos) == 0 {
		return w.WriteLn("No worksheets found in the Excel file.")
	}

	color.New(color.Bold, color.FgCyan).Fprintln(out, "Worksheet names:")
	dim := color.New(color.FgHiBlack)
	for _, info := range infos {
		fmt.Fprintf(out, "%d. %s", info.Index, info.Name)
		dim.Fprintf(out, "  (%d rows, %d columns)\n", info.Rows, info.Columns)
	}
	return nil
}

func showTable(out io.Writer, w *output.Writer, sheet *xlsx.Sheet, pivot bool) error {
	var src dataset.Source = dataset.FromRows(sheet.Rows)
	if pivot {
		src = dataset.PivotFromRows(sheet.Rows)
	}
	table, err := src.Table()
	if err != nil {
		return err
	}

	if w.JSON() {
		return output.PrintJSON(out, "sheets", tableJSON(table))
	}

	header := []string{table.IndexName}
	for _, c := range table.Columns {
		header = append(header, c.Name)
	}
	rows := [][]string{header}
	for i, label := range table.Index {
		row := []string{label}
		for _, c := range table.Columns {
			row = append(row, formatValue(c.Values[i]))
		}
		rows = append(rows, row)
	}
	totals := []string{"Total"}
	for _, v := range table.Totals() {
		totals = append(totals, formatValue(v))
	}

	color.New(color.Bold, color.FgCyan).Fprintf(out, "Sheet: %s\n", sheet.Name)
	widths := columnWidths(append(rows, totals))
	printRow(out, rows[0], widths, color.New(color.Bold))
	printSeparator(out, widths)
	for _, row := range rows[1:] {
		printRow(out, row, widths, nil)
	}
	printSeparator(out, widths)
	printRow(out, totals, widths, color.New(color.Bold))
	return nil
}

type tableOutput struct {
	IndexName string                `json:"indexName"`
	Index     []string              `json:"index"`
	Columns   map[string][]*float64 `json:"columns"`
	Order     []string              `json:"order"`
	Totals    map[string]float64    `json:"totals"`
}

// tableJSON encodes missing values as null, which encoding/json cannot do for NaN.
func tableJSON(t *dataset.Table) tableOutput {
	out := tableOutput{
		IndexName: t.IndexName,
		Index:     t.Index,
		Columns:   make(map[string][]*float64, len(t.Columns)),
		Totals:    make(map[string]float64, len(t.Columns)),
	}
	totals := t.Totals()
	for i, c := range t.Columns {
		values := make([]*float64, len(c.Values))
		for j, v := range c.Values {
			if !math.IsNaN(v) {
				v := v
				values[j] = &v
			}
		}
		out.Columns[c.Name] = values
		out.Order = append(out.Order, c.Name)
		out.Totals[c.Name] = totals[i]
	}
	return out
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for j, cell := range row {
			for len(widths) <= j {
				widths = append(widths, 3)
			}
			if n := utf8.RuneCountInString(cell); n > widths[j] {
				widths[j] = n
			}
		}
	}
	for i := range widths {
		if widths[i] > 40 {
			widths[i] = 40
		}
	}
	return widths
}

func printSeparator(out io.Writer, widths []int) {
	dim := color.New(color.FgHiBlack)
	dim.Fprint(out, "  ")
	for j, w := range widths {
		if j > 0 {
			dim.Fprint(out, "+-")
		}
		dim.Fprint(out, strings.Repeat("-", w+1))
	}
	dim.Fprintln(out)
}

func printRow(out io.Writer, row []string, widths []int, style *color.Color) {
	fmt.Fprint(out, "  ")
	for j := range widths {
		if j > 0 {
			fmt.Fprint(out, "| ")
		}
		cell := ""
		if j < len(row) {
			cell = row[j]
		}
		cell = truncate(cell, widths[j])
		padded := cell + strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell)+1)
		if style != nil {
			style.Fprint(out, padded)
		} else {
			fmt.Fprint(out, padded)
		}
	}
	fmt.Fprintln(out)
}

// truncate shortens cell to width runes, marking the cut with "~".
func truncate(cell string, width int) string {
	if utf8.RuneCountInString(cell) <= width {
		return cell
	}
	return string([]rune(cell)[:width-1]) + "~"
}
