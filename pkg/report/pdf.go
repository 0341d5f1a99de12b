package report

import (
	"fmt"
	"math"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const leadScoreBlurb = "Lead Score is a 0-1 metric that ranks existing customers by future revenue potential, " +
	"dynamically combining their likelihood of buying again (Purchase Score) and their historical " +
	"spending level (Lifetime Value) to help prioritize retention, reactivation, and upselling efforts."

// pdfCharts are optional chart images embedded in the document.
type pdfCharts struct {
	rangeChart  string
	sourceChart string
}

// writePDF lays out the summary in the order of the printed report.
func writePDF(path, title string, s Summary, c pdfCharts) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	sek := message.NewPrinter(language.English)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")

	if c.rangeChart != "" {
		image(pdf, c.rangeChart, 30, 150)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, leadScoreBlurb, "", "L", false)

	pdf.Ln(4)
	heading(pdf, tr, "Percentage of Leads by Score Range:")
	for i, label := range s.RangeLabels {
		line(pdf, tr, fmt.Sprintf("%s: %.1f%%", label, s.RangePercent[i]))
	}

	scoreSection := func(name string, groups []Group) {
		if len(groups) == 0 {
			return
		}
		pdf.Ln(2)
		heading(pdf, tr, name)
		for _, g := range groups {
			line(pdf, tr, fmt.Sprintf("%s: %.2f", g.Key, g.Value))
		}
	}
	revenueSection := func(name string, groups []Group) {
		if len(groups) == 0 {
			return
		}
		pdf.Ln(2)
		heading(pdf, tr, name)
		for _, g := range groups {
			line(pdf, tr, sek.Sprintf("%s: %d SEK", g.Key, int64(math.Round(g.Value))))
		}
	}

	scoreSection("Average Lead Score by Industry:", s.ScoreByIndustry)
	revenueSection("Average Revenue Per Customer by Industry:", s.RevenueByIndustry)
	scoreSection("Average Lead Score by City:", s.ScoreByCity)
	revenueSection("Average Revenue Per Customer by City:", s.RevenueByCity)
	if c.sourceChart != "" {
		pdf.Ln(2)
		image(pdf, c.sourceChart, 25, 160)
	}
	scoreSection("Average Lead Score by Lead Source:", s.ScoreBySource)
	revenueSection("Average Revenue Per Customer by Lead Source:", s.RevenueBySource)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
}

func line(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.CellFormat(0, 6, tr(text), "", 1, "L", false, 0, "")
}

func image(pdf *fpdf.Fpdf, path string, x, w float64) {
	pdf.ImageOptions(path, x, pdf.GetY(), w, 0, true, fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
}
