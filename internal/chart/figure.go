package chart

import (
	"errors"
	"fmt"
	"math"

	"github.com/klytics/chartkit/internal/dataset"
)

// ErrEmptyPie is returned when column totals cannot form a pie.
var ErrEmptyPie = errors.New("pie chart needs non-negative column totals with a positive sum")

// Series is one plotted column.
type Series struct {
	Name   string
	Values []float64
}

// Slice is one wedge of a pie chart.
type Slice struct {
	Label   string
	Value   float64
	Percent float64
}

// PercentLabel formats the slice share to one decimal place.
func (s Slice) PercentLabel() string {
	return fmt.Sprintf("%.1f%%", s.Percent)
}

// Figure is a fully resolved chart, ready to draw. Sizes are in inches.
type Figure struct {
	Kind   Kind
	Title  string
	Width  float64
	Height float64

	XLabel string
	YLabel string
	// XLabelRotation is in degrees.
	XLabelRotation float64
	Grid           bool
	Markers        bool
	LegendTitle    string

	Categories []string
	Series     []Series
	Slices     []Slice
}

// Build applies the layout policy for k to a table.
func Build(t *dataset.Table, k Kind) (*Figure, error) {
	switch k {
	case Line:
		return &Figure{
			Kind:           Line,
			Title:          k.Title(),
			Width:          8,
			Height:         6,
			XLabel:         t.IndexName,
			YLabel:         "Values",
			XLabelRotation: 45,
			Grid:           true,
			Markers:        true,
			Categories:     t.Index,
			Series:         seriesOf(t),
		}, nil
	case Bar:
		return &Figure{
			Kind:        Bar,
			Title:       k.Title(),
			Width:       10,
			Height:      6,
			XLabel:      t.IndexName,
			YLabel:      "Sum of Values",
			Grid:        true,
			LegendTitle: "Month",
			Categories:  t.Index,
			Series:      seriesOf(t),
		}, nil
	case Pie:
		slices, err := slicesOf(t)
		if err != nil {
			return nil, err
		}
		return &Figure{
			Kind:   Pie,
			Title:  k.Title(),
			Width:  8,
			Height: 6,
			Slices: slices,
		}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidOption, k)
}

func seriesOf(t *dataset.Table) []Series {
	series := make([]Series, len(t.Columns))
	for i, col := range t.Columns {
		series[i] = Series{Name: col.Name, Values: col.Values}
	}
	return series
}

func slicesOf(t *dataset.Table) ([]Slice, error) {
	totals := t.Totals()
	var sum float64
	for _, v := range totals {
		if v < 0 || math.IsInf(v, 0) {
			return nil, ErrEmptyPie
		}
		sum += v
	}
	if sum <= 0 {
		return nil, ErrEmptyPie
	}

	slices := make([]Slice, len(totals))
	for i, v := range totals {
		slices[i] = Slice{
			Label:   t.Columns[i].Name,
			Value:   v,
			Percent: v / sum * 100,
		}
	}
	return slices, nil
}
