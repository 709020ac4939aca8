package validators

import "strings"

// SanitizeString trims whitespace, strips control characters and enforces a
// maximum length. Used for operator-entered fields (cashier refs, hold
// labels) before they reach the database.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, input)
	cleaned = strings.TrimSpace(cleaned)
	if maxLen > 0 && len(cleaned) > maxLen {
		cleaned = strings.TrimSpace(cleaned[:maxLen])
	}
	return cleaned
}
