package analytics

import (
	"fmt"
	"sort"

	"github.com/ignite/studio-insights/internal/classify"
)

// Metric names a numeric role usable as a sort key.
type Metric string

const (
	MetricViews          Metric = "views"
	MetricSubscribers    Metric = "subscribers"
	MetricWatchTimeHours Metric = "watch_time_hours"
	MetricImpressions    Metric = "impressions"
	MetricCTR            Metric = "ctr"
)

// ParseMetric validates a metric name from a query or config.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricViews, MetricSubscribers, MetricWatchTimeHours, MetricImpressions, MetricCTR:
		return Metric(s), nil
	case "":
		return MetricViews, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

func metricValue(r classify.Row, m Metric) float64 {
	switch m {
	case MetricSubscribers:
		return r.Subscribers
	case MetricWatchTimeHours:
		return r.WatchTimeHours
	case MetricImpressions:
		return r.Impressions
	case MetricCTR:
		return r.ClickThroughRate
	default:
		return r.Views
	}
}

func sorted(rows []classify.Row, m Metric, descending bool) []classify.Row {
	out := make([]classify.Row, len(rows))
	copy(out, rows)
	// Stable sort: ties keep original row order.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := metricValue(out[i], m), metricValue(out[j], m)
		if descending {
			return a > b
		}
		return a < b
	})
	return out
}

// TopN returns the n rows with the highest metric value, descending. Fewer
// than n rows returns everything available.
func TopN(rows []classify.Row, m Metric, n int) []classify.Row {
	out := sorted(rows, m, true)
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// BottomN returns the n rows with the lowest metric value, ascending.
func BottomN(rows []classify.Row, m Metric, n int) []classify.Row {
	out := sorted(rows, m, false)
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// FilterCategory keeps only rows of one category.
func FilterCategory(rows []classify.Row, cat classify.Category) []classify.Row {
	var out []classify.Row
	for _, r := range rows {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}

// FilterYear keeps only rows published in the given calendar year. Rows
// whose publish date never parsed carry the zero time and are excluded, so
// a focal-year summary cannot silently mix in undated rows.
func FilterYear(rows []classify.Row, year int) []classify.Row {
	var out []classify.Row
	for _, r := range rows {
		if !r.PublishedAt.IsZero() && r.PublishedAt.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// FilterMinViews keeps only rows at or above a view floor. Used before CTR
// rankings so a 2-view clip with a lucky click-through cannot top the list.
func FilterMinViews(rows []classify.Row, min float64) []classify.Row {
	var out []classify.Row
	for _, r := range rows {
		if r.Views >= min {
			out = append(out, r)
		}
	}
	return out
}
