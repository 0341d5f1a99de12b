package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	barBlue   = color.RGBA{R: 0x4E, G: 0x79, B: 0xA7, A: 0xFF}
	barOrange = color.RGBA{R: 0xF2, G: 0x8E, B: 0x2B, A: 0xFF}
)

// SaveRangeChart draws the share of leads per score range as a PNG bar chart.
func SaveRangeChart(s Summary, path string) error {
	labels := s.RangeLabels[:]
	return saveBarChart(path, "Percentage of leads by score range", "Leads (%)", labels, s.RangePercent[:], barBlue)
}

// SaveSourceChart draws the average lead score per lead source. It is a
// no-op when the table has no lead sources.
func SaveSourceChart(s Summary, path string) (bool, error) {
	if len(s.ScoreBySource) == 0 {
		return false, nil
	}
	labels := make([]string, len(s.ScoreBySource))
	values := make([]float64, len(s.ScoreBySource))
	for i, g := range s.ScoreBySource {
		labels[i], values[i] = g.Key, g.Value
	}
	err := saveBarChart(path, "Average Lead Score by Lead Source", "Average Lead Score", labels, values, barOrange)
	return err == nil, err
}

func saveBarChart(path, title, yLabel string, labels []string, values []float64, c color.Color) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(22))
	if err != nil {
		return fmt.Errorf("%s: %w", title, err)
	}
	bars.Color = c
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
