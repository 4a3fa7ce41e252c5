package validate

import (
	"strings"
	"unicode/utf8"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MaxRunes reports whether value fits in limit characters. Limits are
// counted in runes, not bytes, so multibyte names are not over-penalized.
func MaxRunes(value string, limit int) bool {
	return utf8.RuneCountInString(value) <= limit
}

func IntInRange(value, min, max int) bool {
	return value >= min && value <= max
}
