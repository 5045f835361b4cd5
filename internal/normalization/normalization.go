package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return normalized
}

// TrimInputString trims whitespace without lowercasing, for values where case
// is meaningful (titles, summaries, URLs).
func TrimInputString(input string) string {
	return strings.TrimSpace(input)
}
