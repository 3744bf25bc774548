package chart

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/klytics/chartkit/internal/dataset"
)

func abTable() *dataset.Table {
	return &dataset.Table{
		IndexName: dataset.CategoryColumn,
		Index:     []string{"X", "Y"},
		Columns: []dataset.Column{
			{Name: "A", Values: []float64{1, 2}},
			{Name: "B", Values: []float64{3, 4}},
		},
	}
}

func TestParseOption(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"1", Line},
		{"2", Bar},
		{" 3 ", Pie},
	}
	for _, tt := range tests {
		got, err := ParseOption(tt.in)
		if err != nil {
			t.Errorf("ParseOption(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOption(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "0", "4", "pie", "1.0"} {
		if _, err := ParseOption(bad); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("ParseOption(%q) = %v, want ErrInvalidOption", bad, err)
		}
	}
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() || k.Title() == "" || k.Slug() == "" {
			t.Errorf("kind %d is missing a name", int(k))
		}
	}
	if Kind(0).Valid() || Kind(4).Valid() {
		t.Error("out-of-range kinds should be invalid")
	}
	if Bar.Title() != "Bar Chart" {
		t.Errorf("Bar title = %q", Bar.Title())
	}
}

func TestImagePath(t *testing.T) {
	got := ImagePath("images", "Jan", Bar)
	if got != filepath.Join("images", "Jan_bar.png") {
		t.Errorf("ImagePath = %q", got)
	}
}

func TestMenu(t *testing.T) {
	want := "1 for Line Chart, 2 for Bar Chart, 3 for Pie Chart"
	if got := Menu(); got != want {
		t.Errorf("Menu() = %q, want %q", got, want)
	}
}

func TestBuildBar(t *testing.T) {
	fig, err := Build(abTable(), Bar)
	if err != nil {
		t.Fatal(err)
	}

	if len(fig.Categories) != 2 || len(fig.Series) != 2 {
		t.Fatalf("expected 2 groups x 2 series, got %d x %d", len(fig.Categories), len(fig.Series))
	}
	if fig.YLabel != "Sum of Values" || fig.LegendTitle != "Month" {
		t.Errorf("bar labels = %q / %q", fig.YLabel, fig.LegendTitle)
	}
	if fig.XLabelRotation != 0 {
		t.Errorf("bar labels should not be rotated, got %v", fig.XLabelRotation)
	}
	if fig.Width != 10 || fig.Height != 6 {
		t.Errorf("bar size = %vx%v", fig.Width, fig.Height)
	}
}

func TestBuildLine(t *testing.T) {
	fig, err := Build(abTable(), Line)
	if err != nil {
		t.Fatal(err)
	}

	if fig.XLabel != dataset.CategoryColumn || fig.YLabel != "Values" {
		t.Errorf("line labels = %q / %q", fig.XLabel, fig.YLabel)
	}
	if fig.XLabelRotation != 45 || !fig.Markers {
		t.Errorf("line rotation = %v, markers = %v", fig.XLabelRotation, fig.Markers)
	}
	if fig.Width != 8 || fig.Height != 6 {
		t.Errorf("line size = %vx%v", fig.Width, fig.Height)
	}
}

func TestBuildPie(t *testing.T) {
	fig, err := Build(abTable(), Pie)
	if err != nil {
		t.Fatal(err)
	}

	if len(fig.Slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(fig.Slices))
	}
	var total float64
	for _, s := range fig.Slices {
		total += s.Percent
	}
	if math.Abs(total-100) > 0.1 {
		t.Errorf("percentages sum to %v", total)
	}
	if fig.Slices[0].PercentLabel() != "30.0%" {
		t.Errorf("slice A label = %q", fig.Slices[0].PercentLabel())
	}
	if fig.XLabel != "" || fig.YLabel != "" {
		t.Error("pie should have no axis labels")
	}
}

func TestBuildPieRejectsEmptyTotals(t *testing.T) {
	tbl := &dataset.Table{
		Index:   []string{"X"},
		Columns: []dataset.Column{{Name: "A", Values: []float64{0}}},
	}
	if _, err := Build(tbl, Pie); !errors.Is(err, ErrEmptyPie) {
		t.Errorf("expected ErrEmptyPie, got %v", err)
	}

	tbl.Columns = append(tbl.Columns, dataset.Column{Name: "B", Values: []float64{-1}})
	if _, err := Build(tbl, Pie); !errors.Is(err, ErrEmptyPie) {
		t.Errorf("expected ErrEmptyPie for negative total, got %v", err)
	}
}

func TestBuildInvalidKind(t *testing.T) {
	if _, err := Build(abTable(), Kind(9)); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}
}

func TestDrawProducesPNG(t *testing.T) {
	tbl := abTable()
	tbl.Columns[1].Values[0] = math.NaN()

	for _, k := range Kinds {
		t.Run(k.Slug(), func(t *testing.T) {
			fig, err := Build(tbl, k)
			if err != nil {
				t.Fatal(err)
			}
			data, err := PNG(fig)
			if err != nil {
				t.Fatalf("PNG failed: %v", err)
			}
			cfg, err := png.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("output is not a PNG: %v", err)
			}
			if cfg.Width <= cfg.Height {
				t.Errorf("expected landscape image, got %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}
