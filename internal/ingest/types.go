package ingest

import (
	"errors"
	"time"
)

// Role is a semantic field that may correspond to different literal column
// labels across YouTube Studio export versions.
type Role string

const (
	RoleTitle            Role = "title"
	RolePublishDate      Role = "publish_date"
	RoleDuration         Role = "duration"
	RoleViews            Role = "views"
	RoleSubscribers      Role = "subscribers"
	RoleWatchTimeHours   Role = "watch_time_hours"
	RoleImpressions      Role = "impressions"
	RoleClickThroughRate Role = "click_through_rate"
	RoleContentType      Role = "content_type"
)

// ErrStructuralParse indicates that the export could not be parsed into a
// usable table: undecodable bytes, or a required role (Views, Subscribers)
// missing after resolution. Structural failures are fatal to the upload;
// nothing partial is produced.
var ErrStructuralParse = errors.New("structural parse failure")

// Table is the raw tabular form of an export after header location and
// delimiter detection. Column labels are cleaned header tokens; rows carry
// the original cell text untouched.
type Table struct {
	Columns    []string
	Rows       [][]string
	HeaderLine int  // zero-based line index of the header in the raw export
	Delimiter  rune // detected field delimiter (',' or '\t')
}

// ContentRow is one data row after total-row removal, with numeric roles
// coerced. A zero value in a numeric field may mean "zero" or "unparseable";
// the coercion policy deliberately does not distinguish the two.
type ContentRow struct {
	Title       string `json:"title"`
	PublishDate string `json:"publish_date,omitempty"`
	// PublishedAt is the parsed form of PublishDate; the zero value means
	// the date column was absent or unparseable.
	PublishedAt      time.Time `json:"published_at"`
	ContentType      string    `json:"content_type,omitempty"`
	Duration         float64   `json:"duration,omitempty"`
	Views            float64   `json:"views"`
	Subscribers      float64   `json:"subscribers"`
	WatchTimeHours   float64   `json:"watch_time_hours"`
	Impressions      float64   `json:"impressions"`
	ClickThroughRate float64   `json:"click_through_rate"`

	// HasDuration records whether the Duration role resolved at all, so a
	// genuine 0-second value can be told apart from "no duration column".
	HasDuration bool `json:"has_duration,omitempty"`
}
