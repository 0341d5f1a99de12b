package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifacts lists the files one Render call produced.
type Artifacts struct {
	RangeChart  string
	SourceChart string // empty without lead sources
	Dashboard   string
	PDF         string
}

// Render writes the charts, dashboard and PDF for s into dir. The PDF is
// named after the report day, e.g. "19 October 2026 Report.pdf".
func Render(s Summary, dir string, day time.Time) (Artifacts, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifacts{}, err
	}
	title := day.Format("02 January 2006") + " Report"
	a := Artifacts{
		RangeChart: filepath.Join(dir, "lead_score_ranges.png"),
		Dashboard:  filepath.Join(dir, "dashboard.html"),
		PDF:        filepath.Join(dir, title+".pdf"),
	}

	if err := SaveRangeChart(s, a.RangeChart); err != nil {
		return Artifacts{}, err
	}
	sourcePath := filepath.Join(dir, "leadscore_by_source_bar.png")
	ok, err := SaveSourceChart(s, sourcePath)
	if err != nil {
		return Artifacts{}, err
	}
	if ok {
		a.SourceChart = sourcePath
	}

	f, err := os.Create(a.Dashboard)
	if err != nil {
		return Artifacts{}, err
	}
	if err := WriteDashboard(f, s, title); err != nil {
		f.Close()
		return Artifacts{}, fmt.Errorf("dashboard: %w", err)
	}
	if err := f.Close(); err != nil {
		return Artifacts{}, err
	}

	if err := writePDF(a.PDF, title, s, pdfCharts{rangeChart: a.RangeChart, sourceChart: a.SourceChart}); err != nil {
		return Artifacts{}, err
	}
	return a, nil
}
