package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/studio-insights/internal/analytics"
	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/ingest"
	"github.com/ignite/studio-insights/internal/pipeline"
)

func testDashboard() *pipeline.Dashboard {
	rows := []classify.Row{
		{ContentRow: ingest.ContentRow{Title: "first video", Views: 1000, Subscribers: 50, WatchTimeHours: 12.5}, Category: classify.CategoryVideo},
		{ContentRow: ingest.ContentRow{Title: "a short #tag", Views: 5000, Subscribers: 30}, Category: classify.CategoryShort},
	}
	return &pipeline.Dashboard{
		ID:        "dash-test",
		FileName:  "Table data.csv",
		CreatedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Rows:      rows,
		Summary:   analytics.Summarize(rows, nil),
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain title", "plain title"},
		{"émigré café", "émigré café"},            // Latin-1 passes through
		{"rocket \U0001F680 launch", "rocket  launch"}, // emoji dropped
		{"日本語 title", " title"},
		{"tab\tand\nnewline", "tab\tand\nnewline"},
		{"bell\x07char", "bellchar"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeText(tt.in))
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(testDashboard())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	// A PDF always starts with the magic header.
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderCSV(t *testing.T) {
	data, err := RenderCSV(testDashboard())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows

	assert.Equal(t, "title", records[0][0])
	assert.Equal(t, "category", records[0][3])
	assert.Equal(t, "first video", records[1][0])
	assert.Equal(t, "video", records[1][3])
	assert.Equal(t, "1000", records[1][4])
	assert.Equal(t, "12.5", records[1][6])
	assert.Equal(t, "short", records[2][3])
}
