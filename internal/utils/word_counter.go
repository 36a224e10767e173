package utils

import (
	"strings"
	"unicode"
)

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountNonSpace counts the runes in text that are not whitespace.
func CountNonSpace(text string) int {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

// HasMinContent reports whether text has at least min non-whitespace runes.
// Stops counting once the threshold is reached.
func HasMinContent(text string, min int) bool {
	count := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		count++
		if count >= min {
			return true
		}
	}
	return count >= min
}
