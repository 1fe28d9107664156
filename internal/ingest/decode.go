package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DecodeExport turns raw upload bytes into text. Studio exports are UTF-8,
// except some locales which export UTF-16 (with or without a BOM). UTF-8 is
// tried first; on failure UTF-16 is attempted, honoring a BOM when present
// and defaulting to little-endian otherwise (what Studio actually emits).
func DecodeExport(raw []byte) (string, error) {
	// UTF-8 BOM is harmless but would pollute the first header token.
	if trimmed, ok := bytes.CutPrefix(raw, []byte{0xEF, 0xBB, 0xBF}); ok {
		raw = trimmed
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	decoded, err := dec.Bytes(raw)
	if err != nil || !utf8.Valid(decoded) {
		return "", fmt.Errorf("%w: content is neither UTF-8 nor UTF-16", ErrStructuralParse)
	}
	return string(decoded), nil
}
