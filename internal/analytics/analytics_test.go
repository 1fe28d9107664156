package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/ingest"
)

func row(cat classify.Category, title string, views, subs, imps, ctr float64) classify.Row {
	return classify.Row{
		ContentRow: ingest.ContentRow{
			Title: title, Views: views, Subscribers: subs,
			Impressions: imps, ClickThroughRate: ctr,
		},
		Category: cat,
	}
}

func TestAggregateWeightedCTR(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryVideo, "a", 100, 10, 1000, 4.0),
		row(classify.CategoryVideo, "b", 200, 20, 3000, 8.0),
		row(classify.CategoryShort, "c", 50, 5, 500, 2.0),
	}

	agg := Aggregate(rows, classify.CategoryVideo)
	assert.Equal(t, 2, agg.Count)
	assert.Equal(t, float64(300), agg.Views)
	assert.Equal(t, float64(30), agg.Subscribers)
	assert.Equal(t, float64(4000), agg.Impressions)
	// (4*1000 + 8*3000) / 4000 = 7.0
	assert.InDelta(t, 7.0, agg.WeightedCTR, 1e-9)
}

func TestAggregateZeroImpressions(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryShort, "a", 10, 1, 0, 5.0),
	}
	agg := Aggregate(rows, classify.CategoryShort)
	assert.Zero(t, agg.WeightedCTR)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	rows := []classify.Row{row(classify.CategoryVideo, "a", 1, 2, 3, 4)}
	before := rows[0]
	_ = Aggregate(rows, classify.CategoryVideo)
	assert.Equal(t, before, rows[0])
}

func TestSummarizeWithTotalRow(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryVideo, "a", 100, 100, 0, 0),
		row(classify.CategoryShort, "b", 50, 200, 0, 0),
		row(classify.CategoryLiveStream, "c", 20, 50, 0, 0),
	}
	total := &ingest.ContentRow{Subscribers: 500}

	s := Summarize(rows, total)
	assert.True(t, s.TotalRowPresent)
	assert.Equal(t, float64(500), s.ChannelSubscribers)
	// Other = 500 - (100+200+50) = 150; categories + other == channel total.
	assert.Equal(t, float64(150), s.OtherSubscribers)
	var catSum float64
	for _, agg := range s.Categories {
		catSum += agg.Subscribers
	}
	assert.Equal(t, s.ChannelSubscribers, catSum+s.OtherSubscribers)
	assert.Empty(t, s.Warnings)
}

func TestSummarizeWithoutTotalRow(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryVideo, "a", 100, 30, 0, 0),
		row(classify.CategoryShort, "b", 50, 70, 0, 0),
	}
	s := Summarize(rows, nil)
	assert.False(t, s.TotalRowPresent)
	assert.Equal(t, float64(100), s.ChannelSubscribers)
	assert.Zero(t, s.OtherSubscribers)
}

func TestSummarizeNegativeOtherIsFlaggedNotClamped(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryVideo, "a", 100, 400, 0, 0),
	}
	total := &ingest.ContentRow{Subscribers: 300}

	s := Summarize(rows, total)
	assert.Equal(t, float64(-100), s.OtherSubscribers)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0], "negative")
}

func TestTopNBottomN(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryVideo, "mid", 50, 0, 0, 0),
		row(classify.CategoryVideo, "best", 100, 0, 0, 0),
		row(classify.CategoryVideo, "worst", 10, 0, 0, 0),
	}

	top := TopN(rows, MetricViews, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "best", top[0].Title)
	assert.Equal(t, "mid", top[1].Title)

	bottom := BottomN(rows, MetricViews, 2)
	require.Len(t, bottom, 2)
	assert.Equal(t, "worst", bottom[0].Title)
}

func TestTopNSmallInput(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryVideo, "a", 1, 0, 0, 0),
		row(classify.CategoryVideo, "b", 2, 0, 0, 0),
		row(classify.CategoryVideo, "c", 3, 0, 0, 0),
	}
	assert.Len(t, TopN(rows, MetricViews, 5), 3)
	assert.Len(t, BottomN(rows, MetricViews, 5), 3)
}

func TestRankingStableOnTies(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryVideo, "first", 10, 0, 0, 0),
		row(classify.CategoryVideo, "second", 10, 0, 0, 0),
		row(classify.CategoryVideo, "third", 10, 0, 0, 0),
	}
	top := TopN(rows, MetricViews, 3)
	assert.Equal(t, "first", top[0].Title)
	assert.Equal(t, "second", top[1].Title)
	assert.Equal(t, "third", top[2].Title)
}

func TestRankingDoesNotMutateInput(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryVideo, "a", 1, 0, 0, 0),
		row(classify.CategoryVideo, "b", 9, 0, 0, 0),
	}
	_ = TopN(rows, MetricViews, 1)
	assert.Equal(t, "a", rows[0].Title)
}

func TestFilters(t *testing.T) {
	rows := []classify.Row{
		row(classify.CategoryVideo, "a", 600, 0, 0, 0),
		row(classify.CategoryShort, "b", 400, 0, 0, 0),
	}
	assert.Len(t, FilterCategory(rows, classify.CategoryShort), 1)
	assert.Len(t, FilterMinViews(rows, 500), 1)
	assert.Empty(t, FilterMinViews(rows, 1000))
}

func TestFilterYear(t *testing.T) {
	date := func(y int) time.Time { return time.Date(y, time.June, 1, 0, 0, 0, 0, time.UTC) }
	rows := []classify.Row{
		{ContentRow: ingest.ContentRow{Title: "old", Views: 100, PublishedAt: date(2024)}},
		{ContentRow: ingest.ContentRow{Title: "fresh", Views: 200, PublishedAt: date(2025)}},
		{ContentRow: ingest.ContentRow{Title: "undated", Views: 300}},
	}

	got := FilterYear(rows, 2025)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Title)

	// Rows without a parsed date never match a year filter.
	assert.Empty(t, FilterYear(rows, 2023))
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	assert.NoError(t, err)
	assert.Equal(t, MetricViews, m)

	_, err = ParseMetric("velocity")
	assert.Error(t, err)
}
