package logger

import "strings"

// secretKeyHints are substrings of field names whose values must never reach
// the log stream in full.
var secretKeyHints = []string{"key", "secret", "token", "password", "credential"}

// redactValue masks values logged under secret-looking field names, keeping
// a short prefix so distinct credentials remain distinguishable in logs.
func redactValue(key, val string) string {
	lower := strings.ToLower(key)
	for _, hint := range secretKeyHints {
		if strings.Contains(lower, hint) {
			return Redact(val)
		}
	}
	return val
}

// Redact masks a secret, preserving at most the first four characters.
func Redact(val string) string {
	if len(val) <= 4 {
		return "****"
	}
	return val[:4] + "****"
}
