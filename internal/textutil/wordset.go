package textutil

import "strings"

// WordSet returns the set of lower-cased, whitespace-delimited words in text.
// Returns nil if the text holds no words.
func WordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// CountWords returns the number of whitespace-delimited words with at least
// minLength runes.
func CountWords(text string, minLength int) int {
	count := 0
	for _, word := range strings.Fields(text) {
		if len([]rune(word)) >= minLength {
			count++
		}
	}
	return count
}

// Truncate shortens text to at most limit runes, appending "..." when cut.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
