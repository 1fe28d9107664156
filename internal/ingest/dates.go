package ingest

import (
	"strings"
	"time"
)

// publishDateLayouts covers the date formats Studio exports use across
// versions and locales. Tried in order.
var publishDateLayouts = []string{
	"Jan 2, 2006",
	"2006-01-02",
	"2 Jan 2006",
	"2006-01-02 15:04:05",
}

// ParsePublishDate parses an export's publish-time cell. An empty or
// unrecognized value yields the zero time, mirroring the numeric coercion
// policy: dates never fail an upload, they just stay unusable for
// date-based filtering.
func ParsePublishDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range publishDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
