package ingest

import (
	"encoding/csv"
	"io"
	"strings"
)

// detectDelimiter picks comma vs tab by counting occurrences in the header
// line. Studio exports use commas; some locale variants use tabs.
func detectDelimiter(headerLine string) rune {
	if strings.Count(headerLine, "\t") > strings.Count(headerLine, ",") {
		return '\t'
	}
	return ','
}

// cleanLabel trims surrounding whitespace and stray quote characters from a
// header token.
func cleanLabel(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'")
}

// ParseTable parses decoded export text into a Table. The header is located
// by marker scan, the delimiter auto-detected from the header line, and rows
// parsed permissively: ragged field counts and loose quoting are tolerated,
// no row is rejected at this stage.
func ParseTable(content string, markers []string) (*Table, error) {
	lines := splitLines(content)
	headerIdx := LocateHeader(lines, markers)
	if headerIdx >= len(lines) {
		return &Table{HeaderLine: headerIdx, Delimiter: ','}, nil
	}

	delim := detectDelimiter(lines[headerIdx])

	r := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Permissive mode: skip the unparseable line, keep going.
			continue
		}
		records = append(records, rec)
	}

	t := &Table{HeaderLine: headerIdx, Delimiter: delim}
	if len(records) == 0 {
		return t, nil
	}

	t.Columns = make([]string, len(records[0]))
	for i, c := range records[0] {
		t.Columns[i] = cleanLabel(c)
	}
	t.Rows = records[1:]
	return t, nil
}

// splitLines splits on \n and drops a trailing \r per line, so both Unix and
// Windows exports line up with the same indices.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	// A trailing newline produces one empty phantom line; drop it.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
