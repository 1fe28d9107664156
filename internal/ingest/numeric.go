package ingest

import (
	"strconv"
	"strings"
)

// CoerceNumber converts an export cell to a number: thousands-separator
// commas and a trailing "%" are stripped, then the result is parsed as a
// decimal. Anything that still fails parses to zero — never an error, never
// a missing-value marker. This leniency is deliberate policy: a sum over a
// coerced column is always well-defined, and no unparseable residue can
// reach an aggregate as NaN. Coercion is idempotent.
func CoerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
