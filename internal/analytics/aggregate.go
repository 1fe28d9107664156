// Package analytics derives per-category summaries and rankings from a
// classified row set. Everything here is a pure fold: recomputed on demand,
// never cached across uploads, never mutating input rows.
package analytics

import (
	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/ingest"
)

// CategoryAggregate is the ephemeral per-category summary.
type CategoryAggregate struct {
	Category       classify.Category `json:"category"`
	Count          int               `json:"count"`
	Views          float64           `json:"views"`
	Subscribers    float64           `json:"subscribers"`
	WatchTimeHours float64           `json:"watch_time_hours"`
	Impressions    float64           `json:"impressions"`
	// WeightedCTR is the impressions-weighted mean click-through rate,
	// Σ(CTR·impressions)/Σimpressions, zero when impressions sum to zero.
	WeightedCTR float64 `json:"weighted_ctr"`
}

// Aggregate computes the summary for one category over a classified row set.
func Aggregate(rows []classify.Row, cat classify.Category) CategoryAggregate {
	agg := CategoryAggregate{Category: cat}
	var ctrWeighted float64
	for _, r := range rows {
		if r.Category != cat {
			continue
		}
		agg.Count++
		agg.Views += r.Views
		agg.Subscribers += r.Subscribers
		agg.WatchTimeHours += r.WatchTimeHours
		agg.Impressions += r.Impressions
		ctrWeighted += r.ClickThroughRate * r.Impressions
	}
	if agg.Impressions > 0 {
		agg.WeightedCTR = ctrWeighted / agg.Impressions
	}
	return agg
}

// ChannelSummary ties the per-category aggregates to the channel-level
// figures from the synthetic Total row.
type ChannelSummary struct {
	Categories []CategoryAggregate `json:"categories"`

	// ChannelSubscribers is the channel-level subscriber total: the Total
	// row's figure when one was present, otherwise the sum over all rows.
	ChannelSubscribers float64 `json:"channel_subscribers"`
	// TotalRowPresent records which of those two sources applied.
	TotalRowPresent bool `json:"total_row_present"`

	// OtherSubscribers is ChannelSubscribers minus the per-category sums —
	// subscribers attributable to no content row (channel page, old
	// content). The channel total may legitimately be smaller than the
	// per-row sum, making this negative; the raw value is kept and flagged
	// rather than silently clamped.
	OtherSubscribers float64 `json:"other_subscribers"`

	// Warnings carries data-quality conditions the display layer must
	// surface (currently only the negative-other case).
	Warnings []string `json:"warnings,omitempty"`
}

// Summarize computes all category aggregates plus channel totals. total is
// the coerced Total row, nil when the export had none.
func Summarize(rows []classify.Row, total *ingest.ContentRow) ChannelSummary {
	s := ChannelSummary{Categories: make([]CategoryAggregate, 0, len(classify.Categories))}

	var categorized float64
	for _, cat := range classify.Categories {
		agg := Aggregate(rows, cat)
		categorized += agg.Subscribers
		s.Categories = append(s.Categories, agg)
	}

	if total != nil {
		s.ChannelSubscribers = total.Subscribers
		s.TotalRowPresent = true
	} else {
		for _, r := range rows {
			s.ChannelSubscribers += r.Subscribers
		}
	}

	s.OtherSubscribers = s.ChannelSubscribers - categorized
	if s.OtherSubscribers < 0 {
		s.Warnings = append(s.Warnings,
			"per-category subscriber sum exceeds the channel total; \"Other\" is negative")
	}
	return s
}

// Category returns the aggregate for one category from the summary.
func (s ChannelSummary) Category(cat classify.Category) CategoryAggregate {
	for _, agg := range s.Categories {
		if agg.Category == cat {
			return agg
		}
	}
	return CategoryAggregate{Category: cat}
}
