package domain

import (
	"strings"
	"unicode"
)

// Tokenize splits Latin text into lowercase word tokens for frequency
// counting and difficulty scoring. Punctuation and digits act as
// separators; tokens of length <= 1 and purely numeric tokens are dropped.
func Tokenize(text string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := strings.ToLower(word.String())
		word.Reset()
		if len(w) <= 1 || isNumeric(w) {
			return
		}
		tokens = append(tokens, w)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
