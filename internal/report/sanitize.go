package report

import "strings"

// sanitizeText restricts a string to characters the PDF core fonts can
// encode (Latin-1). Unencodable runes are dropped, not escaped — emoji and
// CJK in video titles simply disappear from the report. Control characters
// other than newline are dropped too.
func sanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 0x20:
		case r <= 0xFF:
			b.WriteRune(r)
		}
	}
	return b.String()
}
