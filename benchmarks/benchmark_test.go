package benchmarks

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/dataset"
	"github.com/klytics/chartkit/internal/formats/pptx"
	"github.com/klytics/chartkit/internal/formats/xlsx"
)

var sampleXlsx = filepath.Join("..", "testdata", "sales.xlsx")

func salesRows(products, weeks int) [][]string {
	header := []string{dataset.CategoryColumn}
	for w := 1; w <= weeks; w++ {
		header = append(header, fmt.Sprintf("Week %d", w))
	}
	rows := [][]string{header}
	for p := 1; p <= products; p++ {
		row := []string{fmt.Sprintf("Product %d", p)}
		for w := 1; w <= weeks; w++ {
			row = append(row, fmt.Sprintf("%d", p*10+w))
		}
		rows = append(rows, row)
	}
	return rows
}

// --- XLSX Benchmarks ---

func BenchmarkXlsxRead(b *testing.B) {
	if _, err := os.Stat(sampleXlsx); os.IsNotExist(err) {
		b.Skip("sales.xlsx not found (go run testdata/generate_fixtures.go)")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xlsx.ReadSheet(sampleXlsx, "Jan"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkXlsxListSheets(b *testing.B) {
	path := filepath.Join(b.TempDir(), "sales.xlsx")
	wb := &xlsx.Workbook{}
	for _, m := range []string{"Jan", "Feb", "Mar", "Apr"} {
		wb.Sheets = append(wb.Sheets, xlsx.Sheet{Name: m, Rows: salesRows(5, 4)})
	}
	if err := xlsx.WriteFile(wb, path); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if names := xlsx.ListSheets(path, nil); len(names) != 4 {
			b.Fatalf("got %d sheets", len(names))
		}
	}
}

// --- Dataset Benchmarks ---

func BenchmarkPivotTable(b *testing.B) {
	src := dataset.PivotFromRows(salesRows(200, 12))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := src.Table(); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Chart Benchmarks ---

func benchmarkChart(b *testing.B, k chart.Kind) {
	table, err := dataset.PivotFromRows(salesRows(6, 8)).Table()
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fig, err := chart.Build(table, k)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := chart.PNG(fig); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkChartLine(b *testing.B) { benchmarkChart(b, chart.Line) }
func BenchmarkChartBar(b *testing.B)  { benchmarkChart(b, chart.Bar) }
func BenchmarkChartPie(b *testing.B)  { benchmarkChart(b, chart.Pie) }

// --- PPTX Benchmarks ---

func BenchmarkDeckAppend(b *testing.B) {
	table, err := dataset.PivotFromRows(salesRows(4, 4)).Table()
	if err != nil {
		b.Fatal(err)
	}
	fig, err := chart.Build(table, chart.Bar)
	if err != nil {
		b.Fatal(err)
	}
	img, err := chart.PNG(fig)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d := pptx.New()
		for j := 0; j < 10; j++ {
			if err := d.AddPictureSlide("Bar Chart", img, pptx.ChartPlacement); err != nil {
				b.Fatal(err)
			}
		}
		if _, err := d.Bytes(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeckReload(b *testing.B) {
	data, err := pptx.New().Bytes()
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pptx.Parse(data); err != nil {
			b.Fatal(err)
		}
	}
}
