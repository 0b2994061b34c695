package analysis

import (
	"unicode"
	"unicode/utf8"
)

// devanagariDanda is the Devanagari full stop used to end Hindi sentences.
const devanagariDanda = '।'

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', devanagariDanda:
		return true
	}
	return false
}

// SplitSentences splits text after each terminator that is followed by
// whitespace. The terminator stays with the sentence before it and the
// whitespace is dropped. Text without such a boundary, the empty string
// included, comes back as a single element.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if !isTerminator(r) || i >= len(text) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(next) {
			continue
		}
		out = append(out, text[start:i])
		for i < len(text) {
			ws, n := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(ws) {
				break
			}
			i += n
		}
		start = i
	}
	return append(out, text[start:])
}
