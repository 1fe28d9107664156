package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePublishDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"studio format", "Mar 5, 2025", time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{"iso date", "2024-11-30", time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC)},
		{"day first", "7 Jan 2023", time.Date(2023, time.January, 7, 0, 0, 0, 0, time.UTC)},
		{"iso with time", "2025-02-14 09:30:00", time.Date(2025, time.February, 14, 9, 30, 0, 0, time.UTC)},
		{"surrounding whitespace", "  2024-11-30 ", time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"unrecognized", "next Tuesday", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ParsePublishDate(tt.in).Equal(tt.want))
		})
	}
}
