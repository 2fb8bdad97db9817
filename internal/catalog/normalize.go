package catalog

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes an entity name for use as a cache key.
//
// Lowercases, strips punctuation-only separators, and collapses whitespace so
// that "The Beatles", "the  beatles" and "The Beatles " key identically.
func Normalize(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	lowered := strings.ToLower(strings.TrimSpace(name))
	cleaned := cleanSeparators(lowered)

	return strings.Join(strings.Fields(cleaned), " ")
}

// cleanSeparators replaces punctuation used as a word separator with a space,
// keeping characters that carry identity (letters, digits, apostrophes).
func cleanSeparators(input string) string {
	var out strings.Builder
	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			out.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/' || r == '.' || r == ',' || r == '&' || r == '+':
			out.WriteRune(' ')
		}
	}
	return out.String()
}
