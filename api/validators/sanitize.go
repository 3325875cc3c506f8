package validators

import "strings"

// MaxSearchLength bounds admin search terms (customer names, emails, zips).
const MaxSearchLength = 100

// SanitizeSearch normalizes a free-text admin filter: whitespace runs collapse
// to one space and the result is capped at maxLen runes.
func SanitizeSearch(input string, maxLen int) string {
	collapsed := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 {
		return collapsed
	}
	runes := []rune(collapsed)
	if len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return collapsed
}
