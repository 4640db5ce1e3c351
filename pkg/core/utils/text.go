package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var asciiFoldReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"–", "-",
	"—", "-",
)

// NormalizeText lower-cases, strips accents, folds curly quotes and dashes to
// ASCII and collapses runs of whitespace. Concept labels are always compared
// through this function so "Depreciación" and "depreciacion " match.
func NormalizeText(value string) string {
	if value == "" {
		return ""
	}

	decomposed := norm.NFKD.String(value)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	lowered := strings.ToLower(b.String())
	lowered = asciiFoldReplacer.Replace(lowered)
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(lowered, " "))
}

var nonDigitRE = regexp.MustCompile(`\D`)

// NormalizeNIT strips everything but digits from a raw NIT and truncates to
// the 9-digit base number. Inputs with fewer than nine digits are rejected.
func NormalizeNIT(rawNIT string) string {
	cleaned := nonDigitRE.ReplaceAllString(rawNIT, "")
	if len(cleaned) >= 9 {
		return cleaned[:9]
	}
	return ""
}
