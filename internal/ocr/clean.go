package ocr

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const keptPunctuation = ` .,!?;:-()[]"'`

// CleanText normalizes raw OCR output: NFKC folding (ligatures, full-width
// forms), whitespace collapsing, and removal of characters outside letters,
// digits and basic punctuation.
func CleanText(raw string) string {
	folded := norm.NFKC.String(raw)
	collapsed := strings.Join(strings.Fields(folded), " ")

	var b strings.Builder
	b.Grow(len(collapsed))
	for _, r := range collapsed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(keptPunctuation, r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
