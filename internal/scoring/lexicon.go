package scoring

import (
	"strings"
	"unicode/utf8"
)

// contractions maps informal English forms to their expanded form.
// Lookups are lowercase.
var contractions = map[string]string{
	"don't":     "do not",
	"won't":     "will not",
	"can't":     "cannot",
	"isn't":     "is not",
	"aren't":    "are not",
	"wasn't":    "was not",
	"weren't":   "were not",
	"haven't":   "have not",
	"hasn't":    "has not",
	"hadn't":    "had not",
	"shouldn't": "should not",
	"wouldn't":  "would not",
	"couldn't":  "could not",
	"mustn't":   "must not",
	"needn't":   "need not",
	"i'm":       "i am",
	"you're":    "you are",
	"he's":      "he is",
	"she's":     "she is",
	"it's":      "it is",
	"we're":     "we are",
	"they're":   "they are",
	"i've":      "i have",
	"you've":    "you have",
	"we've":     "we have",
	"they've":   "they have",
	"i'll":      "i will",
	"you'll":    "you will",
	"he'll":     "he will",
	"she'll":    "she will",
	"it'll":     "it will",
	"we'll":     "we will",
	"they'll":   "they will",
}

// commonMisspellings maps frequent misspellings to the intended word.
var commonMisspellings = map[string]string{
	"recieve":    "receive",
	"seperate":   "separate",
	"definately": "definitely",
	"occassion":  "occasion",
	"accomodate": "accommodate",
	"occured":    "occurred",
	"begining":   "beginning",
	"sucessful":  "successful",
}

// ExpandContraction returns the expanded form of a contracted token, or the
// token unchanged (case preserved) when it is not a known contraction.
func ExpandContraction(token string) string {
	if exp, ok := contractions[strings.ToLower(token)]; ok {
		return exp
	}
	return token
}

// KnownMisspelling returns the intended word when token is a common
// misspelling.
func KnownMisspelling(token string) (string, bool) {
	w, ok := commonMisspellings[strings.ToLower(token)]
	return w, ok
}

// ExpandContractions expands every contracted word of raw text. Punctuation
// around a word is kept; the apostrophe inside it is what identifies the
// contraction, so this must run before Normalize strips punctuation.
func ExpandContractions(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		start := strings.IndexFunc(f, func(r rune) bool { return !isEdgePunctuation(r) })
		if start < 0 {
			continue
		}
		end := strings.LastIndexFunc(f, func(r rune) bool { return !isEdgePunctuation(r) })
		_, size := utf8.DecodeRuneInString(f[end:])
		end += size
		if exp, ok := contractions[strings.ToLower(f[start:end])]; ok {
			fields[i] = f[:start] + exp + f[end:]
		}
	}
	return strings.Join(fields, " ")
}

// isEdgePunctuation reports punctuation that may wrap a word, excluding the
// apostrophe so "don't" keeps its shape.
func isEdgePunctuation(r rune) bool {
	return r != '\'' && isPunctuation(r)
}
