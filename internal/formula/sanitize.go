package formula

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Rich-text editors insert non-breaking and typographic spaces that expression
// tokenizers reject.
var separatorsToSpace = runes.Map(func(r rune) rune {
	if r != ' ' && (unicode.IsSpace(r) || r == '\u200b') {
		return ' '
	}
	return r
})

// Sanitize replaces every Unicode space with an ASCII space. That covers the
// editor separators U+00A0, U+2000–U+200B, U+202F, U+205F and U+3000, and also
// ASCII control whitespace such as tab and newline, plus U+0085. It is
// idempotent.
func Sanitize(expression string) string {
	out, _, err := transform.String(separatorsToSpace, expression)
	if err != nil {
		return expression
	}
	return out
}
