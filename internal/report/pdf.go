// Package report renders a processed dashboard into downloadable artifacts:
// a categorized CSV and a paginated PDF summary. Layout is cosmetic; the
// only hard contract is that every number comes straight from the dashboard
// aggregates and that text is sanitized before insertion.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/ignite/studio-insights/internal/analytics"
	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/pipeline"
)

var categoryTitles = map[classify.Category]string{
	classify.CategoryVideo:      "Videos",
	classify.CategoryShort:      "Shorts",
	classify.CategoryLiveStream: "Live Streams",
}

// RenderPDF produces the PDF report bytes for one dashboard.
func RenderPDF(d *pipeline.Dashboard) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Channel Growth Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "YouTube Growth Strategy Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	if d.FileName != "" {
		pdf.Cell(0, 6, sanitizeText(fmt.Sprintf("Source: %s", d.FileName)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", d.CreatedAt.Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	writeSummaryTable(pdf, d)
	writeChannelTotals(pdf, d)
	writeRankings(pdf, d)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummaryTable(pdf *fpdf.Fpdf, d *pipeline.Dashboard) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Category Performance")
	pdf.Ln(10)

	colWidths := []float64{38, 22, 28, 32, 32, 24}
	headers := []string{"Category", "Count", "Views", "Subscribers", "Watch (hrs)", "CTR %"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, cat := range classify.Categories {
		agg := d.Summary.Category(cat)
		cells := []string{
			categoryTitles[cat],
			fmt.Sprintf("%d", agg.Count),
			fmt.Sprintf("%.0f", agg.Views),
			fmt.Sprintf("%.0f", agg.Subscribers),
			fmt.Sprintf("%.1f", agg.WatchTimeHours),
			fmt.Sprintf("%.2f", agg.WeightedCTR),
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writeChannelTotals(pdf *fpdf.Fpdf, d *pipeline.Dashboard) {
	pdf.SetFont("Helvetica", "", 10)
	source := "summed from rows (no Total row in export)"
	if d.Summary.TotalRowPresent {
		source = "from export Total row"
	}
	pdf.Cell(0, 6, fmt.Sprintf("Channel subscribers: %.0f (%s)", d.Summary.ChannelSubscribers, source))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Other subscribers: %.0f", d.Summary.OtherSubscribers))
	pdf.Ln(6)

	for _, w := range d.Summary.Warnings {
		pdf.SetTextColor(180, 0, 0)
		pdf.Cell(0, 6, sanitizeText("Warning: "+w))
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}
	pdf.Ln(4)
}

func writeRankings(pdf *fpdf.Fpdf, d *pipeline.Dashboard) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Top and Bottom Performers (by views)")
	pdf.Ln(10)

	top := analytics.TopN(d.Rows, analytics.MetricViews, 5)
	bottom := analytics.BottomN(d.Rows, analytics.MetricViews, 5)

	writeRankList(pdf, "Top 5", top)
	writeRankList(pdf, "Bottom 5", bottom)
}

func writeRankList(pdf *fpdf.Fpdf, label string, rows []classify.Row) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, label)
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range rows {
		line := fmt.Sprintf("%d. %s - %.0f views", i+1, sanitizeText(r.Title), r.Views)
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}
	pdf.Ln(3)
}
