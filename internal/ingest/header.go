package ingest

import "strings"

// defaultHeaderMarkers are substrings that identify the header line of a
// Studio export. Exports carry a variable number of preamble lines (report
// title, date range, channel name) before the actual column header.
var defaultHeaderMarkers = []string{
	"Views",
	"Video title",
	"Subscribers",
	"Impressions",
	"Content type",
	"Content",
	"Video publish time",
}

// LocateHeader scans lines from the top and returns the index of the first
// line containing any marker. No match returns 0: the first line is treated
// as the header, a silent degrade rather than an error. A marker appearing
// inside a data line before the real header can misdetect; that is an
// accepted limitation of the heuristic.
func LocateHeader(lines []string, markers []string) int {
	if len(markers) == 0 {
		markers = defaultHeaderMarkers
	}
	for i, line := range lines {
		for _, m := range markers {
			if strings.Contains(line, m) {
				return i
			}
		}
	}
	return 0
}
