package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeString trims surrounding whitespace, drops control characters other
// than newlines and tabs, and caps the result at maxLen runes.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == utf8.RuneError || (unicode.IsControl(r) && r != '\n' && r != '\t') {
			return -1
		}
		return r
	}, input)
	cleaned = strings.TrimSpace(cleaned)
	if maxLen <= 0 || utf8.RuneCountInString(cleaned) <= maxLen {
		return cleaned
	}
	runes := []rune(cleaned)
	return strings.TrimSpace(string(runes[:maxLen]))
}
