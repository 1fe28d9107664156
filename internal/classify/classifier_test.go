package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/studio-insights/internal/ingest"
)

func TestClassifyDeclaredContentType(t *testing.T) {
	c := NewClassifier(Options{})

	tests := []struct {
		name string
		row  ingest.ContentRow
		want Category
	}{
		{"declared short", ingest.ContentRow{ContentType: "Short"}, CategoryShort},
		{"declared live", ingest.ContentRow{ContentType: "Live stream"}, CategoryLiveStream},
		{"declared video", ingest.ContentRow{ContentType: "Video"}, CategoryVideo},
		{"declared type overrides hashtag title", ingest.ContentRow{ContentType: "Video", Title: "#shorts compilation"}, CategoryVideo},
		{"declared type overrides duration", ingest.ContentRow{ContentType: "Live stream", Duration: 30, HasDuration: true}, CategoryLiveStream},
		{"unknown declared type defaults to video", ingest.ContentRow{ContentType: "Podcast", Title: "#tag"}, CategoryVideo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.row))
		})
	}
}

func TestClassifyTitleHeuristics(t *testing.T) {
	c := NewClassifier(Options{})

	tests := []struct {
		name string
		row  ingest.ContentRow
		want Category
	}{
		{"hashtag means short", ingest.ContentRow{Title: "quick tip #editing"}, CategoryShort},
		{"live keyword", ingest.ContentRow{Title: "Friday night Diablo grind"}, CategoryLiveStream},
		{"watchalong keyword", ingest.ContentRow{Title: "Finale Watchalong with chat"}, CategoryLiveStream},
		{"keyword is case-insensitive", ingest.ContentRow{Title: "LET'S PLAY part 4"}, CategoryLiveStream},
		{"plain title defaults to video", ingest.ContentRow{Title: "My camera setup"}, CategoryVideo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.row))
		})
	}
}

func TestClassifyTieBreakPolicies(t *testing.T) {
	// Title carries both a hashtag and a live keyword; the two policies must
	// disagree on it.
	row := ingest.ContentRow{Title: "#gaming diablo stream highlights"}

	hashtagFirst := NewClassifier(Options{TieBreak: TieBreakHashtagFirst})
	liveFirst := NewClassifier(Options{TieBreak: TieBreakLiveKeywordFirst})

	assert.Equal(t, CategoryShort, hashtagFirst.Classify(row))
	assert.Equal(t, CategoryLiveStream, liveFirst.Classify(row))
}

func TestClassifyDuration(t *testing.T) {
	c := NewClassifier(Options{})

	assert.Equal(t, CategoryShort, c.Classify(ingest.ContentRow{Title: "clip", Duration: 45, HasDuration: true}))
	assert.Equal(t, CategoryShort, c.Classify(ingest.ContentRow{Title: "clip", Duration: 60, HasDuration: true}))
	assert.Equal(t, CategoryVideo, c.Classify(ingest.ContentRow{Title: "clip", Duration: 61, HasDuration: true}))
	// Without a resolved duration column a zero duration means nothing.
	assert.Equal(t, CategoryVideo, c.Classify(ingest.ContentRow{Title: "clip", Duration: 0, HasDuration: false}))
}

func TestClassifyCustomThreshold(t *testing.T) {
	c := NewClassifier(Options{ShortMaxSeconds: 300})
	assert.Equal(t, CategoryShort, c.Classify(ingest.ContentRow{Title: "clip", Duration: 299, HasDuration: true}))
	assert.Equal(t, CategoryVideo, c.Classify(ingest.ContentRow{Title: "clip", Duration: 301, HasDuration: true}))
}

func TestClassifyAllIdempotent(t *testing.T) {
	c := NewClassifier(Options{})
	rows := []ingest.ContentRow{
		{Title: "#short one"},
		{Title: "big stream night"},
		{Title: "regular upload"},
	}

	first := c.ClassifyAll(rows)
	second := c.ClassifyAll(rows)
	assert.Equal(t, first, second)

	assert.Equal(t, CategoryShort, first[0].Category)
	assert.Equal(t, CategoryLiveStream, first[1].Category)
	assert.Equal(t, CategoryVideo, first[2].Category)
}

func TestParseTieBreak(t *testing.T) {
	p, err := ParseTieBreak("")
	assert.NoError(t, err)
	assert.Equal(t, TieBreakHashtagFirst, p)

	p, err = ParseTieBreak("live_keyword_first")
	assert.NoError(t, err)
	assert.Equal(t, TieBreakLiveKeywordFirst, p)

	_, err = ParseTieBreak("nope")
	assert.Error(t, err)
}
