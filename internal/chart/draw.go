package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pieDPI converts the figure size in inches to pixels for the pie renderer.
const pieDPI = 100

// PNG draws the figure and returns the encoded image.
func PNG(fig *Figure) ([]byte, error) {
	var buf bytes.Buffer
	if err := Draw(&buf, fig); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Draw writes the figure to w as PNG.
func Draw(w io.Writer, fig *Figure) error {
	switch fig.Kind {
	case Line:
		p, err := linePlot(fig)
		if err != nil {
			return err
		}
		return writePlot(w, p, fig)
	case Bar:
		p, err := barPlot(fig)
		if err != nil {
			return err
		}
		return writePlot(w, p, fig)
	case Pie:
		return drawPie(w, fig)
	}
	return fmt.Errorf("%w: %v", ErrInvalidOption, fig.Kind)
}

func newPlot(fig *Figure) *plot.Plot {
	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	if fig.Grid {
		p.Add(plotter.NewGrid())
	}
	p.Legend.Top = true
	return p
}

func linePlot(fig *Figure) (*plot.Plot, error) {
	p := newPlot(fig)

	for i, s := range fig.Series {
		pts := make(plotter.XYs, 0, len(s.Values))
		for j, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(j), Y: v})
		}
		if len(pts) == 0 {
			continue
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("could not plot series %q: %w", s.Name, err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		points.GlyphStyle.Color = plotutil.Color(i)
		if fig.Markers {
			points.GlyphStyle.Shape = draw.CircleGlyph{}
			points.GlyphStyle.Radius = vg.Points(3)
		} else {
			points.GlyphStyle.Radius = 0
		}

		p.Add(line, points)
		p.Legend.Add(s.Name, line, points)
	}

	nominalX(p, fig)
	return p, nil
}

func barPlot(fig *Figure) (*plot.Plot, error) {
	p := newPlot(fig)
	if fig.LegendTitle != "" {
		p.Legend.Add(fig.LegendTitle)
	}

	n := len(fig.Series)
	if n == 0 {
		nominalX(p, fig)
		return p, nil
	}

	// Keep every group inside its category slot.
	slot := vg.Length(fig.Width-2) * vg.Inch / vg.Length(max(len(fig.Categories), 1))
	width := min(vg.Points(20), slot*0.8/vg.Length(n))

	for i, s := range fig.Series {
		values := make(plotter.Values, len(s.Values))
		for j, v := range s.Values {
			if !math.IsNaN(v) {
				values[j] = v
			}
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, fmt.Errorf("could not plot series %q: %w", s.Name, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * width

		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}

	nominalX(p, fig)
	return p, nil
}

func nominalX(p *plot.Plot, fig *Figure) {
	p.NominalX(fig.Categories...)
	if fig.XLabelRotation != 0 {
		p.X.Tick.Label.Rotation = fig.XLabelRotation * math.Pi / 180
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
}

func writePlot(w io.Writer, p *plot.Plot, fig *Figure) error {
	wt, err := p.WriterTo(vg.Length(fig.Width)*vg.Inch, vg.Length(fig.Height)*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("could not create %s image: %w", fig.Kind, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("could not encode %s image: %w", fig.Kind, err)
	}
	return nil
}

func drawPie(w io.Writer, fig *Figure) error {
	values := make([]gochart.Value, 0, len(fig.Slices))
	for _, s := range fig.Slices {
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %s", s.Label, s.PercentLabel()),
			Value: s.Value,
		})
	}

	pie := gochart.PieChart{
		Title:  fig.Title,
		Width:  int(fig.Width * pieDPI),
		Height: int(fig.Height * pieDPI),
		DPI:    pieDPI,
		Values: values,
	}
	if err := pie.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("could not render pie chart: %w", err)
	}
	return nil
}
