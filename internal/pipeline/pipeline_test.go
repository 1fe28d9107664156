package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/ingest"
)

// The canonical end-to-end scenario: 2-line preamble, header on line 2,
// 7 data rows (3 shorts, 2 videos, 2 live streams by declared type) and a
// Total row with 500 subscribers.
const sampleExport = `Channel content breakdown
2026-01-01 - 2026-06-30
Video title,Views,Subscribers,Content type
short a,100,10,Short
short b,120,15,Short
short c,90,5,Short
video a,500,40,Video
video b,300,25,Video
stream a,80,20,Live stream
stream b,60,10,Live stream
Total,"1,250",500,
`

func TestProcessEndToEnd(t *testing.T) {
	p := New(Config{})
	d, err := p.Process("dash-1", "Table data.csv", []byte(sampleExport))
	require.NoError(t, err)

	assert.Equal(t, 2, d.HeaderLine)
	assert.Len(t, d.Rows, 7)
	require.NotNil(t, d.Total)
	assert.Equal(t, float64(500), d.Total.Subscribers)

	shorts := d.Summary.Category(classify.CategoryShort)
	videos := d.Summary.Category(classify.CategoryVideo)
	streams := d.Summary.Category(classify.CategoryLiveStream)

	assert.Equal(t, 3, shorts.Count)
	assert.Equal(t, 2, videos.Count)
	assert.Equal(t, 2, streams.Count)

	// Other = channel total minus categorized sum, exactly.
	s := shorts.Subscribers + videos.Subscribers + streams.Subscribers
	assert.Equal(t, float64(500)-s, d.Summary.OtherSubscribers)
	assert.Equal(t, float64(375), d.Summary.OtherSubscribers)

	// Resolved mapping is exposed for inspection.
	assert.Equal(t, "Views", d.Mapping[ingest.RoleViews])
	assert.Equal(t, "Video title", d.Mapping[ingest.RoleTitle])
}

func TestProcessStructuralFailure(t *testing.T) {
	p := New(Config{})
	_, err := p.Process("dash-2", "broken.csv", []byte("Video title,Duration\na,10\n"))
	require.ErrorIs(t, err, ingest.ErrStructuralParse)
}

func TestProcessReprocessingIsDeterministic(t *testing.T) {
	p := New(Config{})
	a, err := p.Process("x", "f.csv", []byte(sampleExport))
	require.NoError(t, err)
	b, err := p.Process("x", "f.csv", []byte(sampleExport))
	require.NoError(t, err)

	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, a.Summary, b.Summary)
}
