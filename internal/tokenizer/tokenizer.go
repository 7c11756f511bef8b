// Package tokenizer prepares Korean and mixed-script term names for matching.
package tokenizer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold applies Unicode full case folding to text.
// A Caser keeps state between calls, so each call builds its own.
func Fold(text string) string {
	return cases.Fold().String(text)
}

// Normalize case-folds text and removes every Unicode whitespace character.
// "피가 모자람" and "피가모자람" normalize to the same string.
func Normalize(text string) string {
	return strings.Join(strings.Fields(Fold(text)), "")
}

// RuneLen returns the number of characters in text.
func RuneLen(text string) int {
	return utf8.RuneCountInString(text)
}

// RuneIndex returns the character offset of the first occurrence of substr in
// text, or -1 when it is absent.
func RuneIndex(text, substr string) int {
	i := strings.Index(text, substr)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(text[:i])
}

// Characters splits text into one string per rune.
func Characters(text string) []string {
	chars := make([]string, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		chars = append(chars, string(r))
	}
	return chars
}
