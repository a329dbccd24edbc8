package chunker

import (
	"strings"
	"unicode"
)

// Truncate keeps the first maxTokens tokens of text and reports whether
// anything was dropped. Tokens are approximated by whitespace-delimited words
// to avoid heavy dependencies. Unlike re-joining words, the original layout
// (newlines, indentation) is preserved up to the cut. maxTokens <= 0 means
// no limit.
func Truncate(text string, maxTokens int) (string, bool) {
	if maxTokens <= 0 {
		return text, false
	}
	words := 0
	inWord := false
	for i, r := range text {
		if !unicode.IsSpace(r) {
			inWord = true
			continue
		}
		if !inWord {
			continue
		}
		inWord = false
		words++
		if words == maxTokens {
			if strings.TrimSpace(text[i:]) == "" {
				return text, false
			}
			return text[:i], true
		}
	}
	return text, false
}

// CountTokens returns the word-approximated token count of text.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}
