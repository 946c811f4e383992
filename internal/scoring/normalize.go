package scoring

import (
	"strings"
)

// punctuationMarks is the set stripped by Normalize and collected by
// ExtractPunctuation.
const punctuationMarks = `.,!?;:'"()[]{}-`

func isPunctuation(r rune) bool {
	return strings.ContainsRune(punctuationMarks, r)
}

// Normalize converts raw input into its comparable form: trim, lowercase
// unless case-sensitive, replace punctuation with spaces unless strict,
// collapse whitespace, trim again.
func Normalize(text string, opts Options) string {
	s := strings.TrimSpace(text)
	if !opts.CaseSensitive {
		s = strings.ToLower(s)
	}
	if !opts.StrictPunctuation {
		s = strings.Map(func(r rune) rune {
			if isPunctuation(r) {
				return ' '
			}
			return r
		}, s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits a normalized string into non-empty words.
func Tokenize(normalized string) []string {
	words := strings.Fields(normalized)
	if words == nil {
		return []string{}
	}
	return words
}

// ExtractPunctuation returns the punctuation marks of raw text in order.
func ExtractPunctuation(raw string) []string {
	var marks []string
	for _, r := range raw {
		if isPunctuation(r) {
			marks = append(marks, string(r))
		}
	}
	return marks
}
