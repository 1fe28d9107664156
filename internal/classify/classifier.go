// Package classify assigns every content row to exactly one category:
// video, short, or live stream. Classification is a pure function of one
// row's Title/Duration/ContentType fields; no ordering dependency, no state.
package classify

import (
	"fmt"
	"strings"

	"github.com/ignite/studio-insights/internal/ingest"
)

// Category is the mutually exclusive per-row content bucket.
type Category string

const (
	CategoryVideo      Category = "video"
	CategoryShort      Category = "short"
	CategoryLiveStream Category = "live_stream"
)

// Categories lists all categories in display order.
var Categories = []Category{CategoryVideo, CategoryShort, CategoryLiveStream}

// TieBreak selects which title heuristic runs first when a declared content
// type is absent. A title carrying both a hashtag and a live keyword
// ("#gaming diablo stream") classifies differently under the two orders, so
// this is explicit policy rather than a hardcoded choice.
type TieBreak string

const (
	// TieBreakHashtagFirst checks the "#" shorts convention before live
	// keywords. This is the default.
	TieBreakHashtagFirst TieBreak = "hashtag_first"
	// TieBreakLiveKeywordFirst checks live keywords before the hashtag.
	TieBreakLiveKeywordFirst TieBreak = "live_keyword_first"
)

// ParseTieBreak validates a configured tie-break name.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case TieBreakHashtagFirst, TieBreakLiveKeywordFirst:
		return TieBreak(s), nil
	case "":
		return TieBreakHashtagFirst, nil
	}
	return "", fmt.Errorf("unknown tie-break policy %q", s)
}

// defaultLiveKeywords flag a title as a live stream when the declared
// content type is unavailable.
var defaultLiveKeywords = []string{
	"live!", "watchalong", "stream", "let's play", "d&d", "diablo",
	"ready player nerd",
}

// DefaultShortMaxSeconds is the duration cutoff below which an untyped,
// untagged row is considered a short.
const DefaultShortMaxSeconds = 60

// Options configures a Classifier. Zero values select the defaults.
type Options struct {
	LiveKeywords    []string
	ShortMaxSeconds float64
	TieBreak        TieBreak
}

// Classifier buckets rows by declared type, title heuristics, and duration.
type Classifier struct {
	liveKeywords    []string
	shortMaxSeconds float64
	tieBreak        TieBreak
}

func NewClassifier(opts Options) *Classifier {
	c := &Classifier{
		liveKeywords:    opts.LiveKeywords,
		shortMaxSeconds: opts.ShortMaxSeconds,
		tieBreak:        opts.TieBreak,
	}
	if len(c.liveKeywords) == 0 {
		c.liveKeywords = defaultLiveKeywords
	}
	if c.shortMaxSeconds == 0 {
		c.shortMaxSeconds = DefaultShortMaxSeconds
	}
	if c.tieBreak == "" {
		c.tieBreak = TieBreakHashtagFirst
	}
	return c
}

// Classify assigns one category, first match wins:
//
//  1. declared content type ("short"/"live"/"video" scan) when present —
//     title and duration are ignored entirely in that case;
//  2. title hashtag (shorts convention) and live keywords, in the configured
//     tie-break order;
//  3. duration at or under the short cutoff, when a duration column resolved;
//  4. video, the default bucket. No row is left unclassified.
func (c *Classifier) Classify(row ingest.ContentRow) Category {
	if ct := strings.ToLower(strings.TrimSpace(row.ContentType)); ct != "" {
		switch {
		case strings.Contains(ct, "short"):
			return CategoryShort
		case strings.Contains(ct, "live"):
			return CategoryLiveStream
		default:
			return CategoryVideo
		}
	}

	title := strings.ToLower(row.Title)

	checks := []func() (Category, bool){c.byHashtag(row.Title), c.byLiveKeyword(title)}
	if c.tieBreak == TieBreakLiveKeywordFirst {
		checks[0], checks[1] = checks[1], checks[0]
	}
	for _, check := range checks {
		if cat, ok := check(); ok {
			return cat
		}
	}

	if row.HasDuration && row.Duration <= c.shortMaxSeconds {
		return CategoryShort
	}
	return CategoryVideo
}

func (c *Classifier) byHashtag(title string) func() (Category, bool) {
	return func() (Category, bool) {
		if strings.Contains(title, "#") {
			return CategoryShort, true
		}
		return "", false
	}
}

func (c *Classifier) byLiveKeyword(lowerTitle string) func() (Category, bool) {
	return func() (Category, bool) {
		for _, kw := range c.liveKeywords {
			if strings.Contains(lowerTitle, kw) {
				return CategoryLiveStream, true
			}
		}
		return "", false
	}
}

// Row is a content row with its assigned category. The category is computed
// once and treated as immutable metadata afterward.
type Row struct {
	ingest.ContentRow
	Category Category `json:"category"`
}

// ClassifyAll classifies every row, preserving input order. Re-running on
// the same rows yields the same result.
func (c *Classifier) ClassifyAll(rows []ingest.ContentRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{ContentRow: r, Category: c.Classify(r)}
	}
	return out
}
