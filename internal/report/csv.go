package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/ignite/studio-insights/internal/pipeline"
)

// RenderCSV writes the classified table back out as CSV: the semantic
// columns plus the derived category. This is the processed export a user
// downloads, not a round-trip of the original file.
func RenderCSV(d *pipeline.Dashboard) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"title", "publish_date", "content_type", "category",
		"views", "subscribers", "watch_time_hours", "impressions", "click_through_rate",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range d.Rows {
		rec := []string{
			r.Title,
			r.PublishDate,
			r.ContentType,
			string(r.Category),
			formatNum(r.Views),
			formatNum(r.Subscribers),
			formatNum(r.WatchTimeHours),
			formatNum(r.Impressions),
			formatNum(r.ClickThroughRate),
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
