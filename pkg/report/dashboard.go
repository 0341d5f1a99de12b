package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteDashboard renders the summary as a single HTML page of charts.
func WriteDashboard(w io.Writer, s Summary, title string) error {
	page := components.NewPage()
	page.PageTitle = title

	page.AddCharts(rangePie(s))
	if len(s.ScoreBySource) > 0 {
		page.AddCharts(groupBar("Average Lead Score by Lead Source", "lead score", s.ScoreBySource))
	}
	if len(s.RevenueBySource) > 0 {
		page.AddCharts(groupPie("Average Revenue per Customer by Lead Source", s.RevenueBySource))
	}
	if len(s.ScoreByIndustry) > 0 {
		page.AddCharts(groupBar("Average Lead Score by Industry", "lead score", s.ScoreByIndustry))
	}
	if len(s.RevenueByIndustry) > 0 {
		page.AddCharts(groupBar("Average Revenue Per Customer by Industry (SEK)", "revenue", s.RevenueByIndustry))
	}
	if len(s.ScoreByCity) > 0 {
		page.AddCharts(groupBar("Average Lead Score by City", "lead score", s.ScoreByCity))
	}
	return page.Render(w)
}

func rangePie(s Summary) *charts.Pie {
	items := make([]opts.PieData, 0, RangeCount)
	for i, label := range s.RangeLabels {
		if s.RangePercent[i] == 0 {
			continue
		}
		items = append(items, opts.PieData{Name: label, Value: round1(s.RangePercent[i])})
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Percentage of leads by score range", Subtitle: fmt.Sprintf("%d leads", s.Leads)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("score range", items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}%"}),
	)
	return pie
}

func groupPie(title string, groups []Group) *charts.Pie {
	items := make([]opts.PieData, len(groups))
	for i, g := range groups {
		items[i] = opts.PieData{Name: g.Key, Value: math.Round(g.Value)}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("revenue", items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

func groupBar(title, series string, groups []Group) *charts.Bar {
	keys := make([]string, len(groups))
	data := make([]opts.BarData, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
		data[i] = opts.BarData{Value: math.Round(g.Value*100) / 100}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(keys).AddSeries(series, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
