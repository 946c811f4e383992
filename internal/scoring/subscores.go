package scoring

// Positional credit for a tolerant (non-exact) match in WordOrderScore.
const partialOrderCredit = 0.7

// WordOrderScore compares tokens position by position over the shorter
// sequence: 1 for an exact match, 0.7 for a tolerant one. Scaled to 0-100;
// 0 when nothing is compared.
func WordOrderScore(user, correct []string, opts Options) float64 {
	n := min(len(user), len(correct))
	if n == 0 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		switch {
		case isExactMatch(user[i], correct[i]):
			total += 1
		case isSimilarWord(user[i], correct[i], opts.SpellingTolerance):
			total += partialOrderCredit
		}
	}
	return total / float64(n) * 100
}

// SpellingScore averages positional similarity over the reference words.
// A missing user word counts as the empty string. 100 with no reference.
func SpellingScore(user, correct []string) float64 {
	if len(correct) == 0 {
		return 100
	}
	var total float64
	for i, c := range correct {
		u := ""
		if i < len(user) {
			u = user[i]
		}
		total += Similarity(u, c)
	}
	return total / float64(len(correct)) * 100
}

// CompletenessScore is the share of reference positions the user filled.
func CompletenessScore(user, correct []string) float64 {
	if len(correct) == 0 {
		return 100
	}
	return float64(min(len(user), len(correct))) / float64(len(correct)) * 100
}

// PunctuationScore compares punctuation marks of the raw strings position by
// position up to the reference's mark count.
func PunctuationScore(rawUser, rawCorrect string) float64 {
	u := ExtractPunctuation(rawUser)
	c := ExtractPunctuation(rawCorrect)
	if len(c) == 0 {
		return 100
	}
	matches := 0
	for i := range c {
		if i < len(u) && u[i] == c[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(c)) * 100
}
