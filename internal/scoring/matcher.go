package scoring

// MatchResult classifies every reference word as exact, partial or missing
// and every unmatched user word as extra.
type MatchResult struct {
	ExactMatches    int
	PartialMatches  int
	MissingWords    []string
	ExtraWords      []string
	MisspelledWords []MisspelledWord
}

// isExactMatch reports tokens equal verbatim or after contraction expansion.
func isExactMatch(user, correct string) bool {
	if user == correct {
		return true
	}
	return ExpandContraction(user) == ExpandContraction(correct)
}

// isSimilarWord is the tolerant comparison used by the second matching pass
// and by the word-order score.
func isSimilarWord(user, correct string, tolerance float64) bool {
	if isExactMatch(user, correct) {
		return true
	}
	if isCommonMisspelling(user, correct) {
		return true
	}
	return Similarity(user, correct) >= 1-tolerance
}

func isCommonMisspelling(user, correct string) bool {
	w, ok := KnownMisspelling(user)
	return ok && (w == correct || ExpandContraction(w) == ExpandContraction(correct))
}

// MatchWords aligns user tokens to reference tokens with two greedy passes
// over the reference in order. Each pass takes the lowest unused user index
// that qualifies, so the result is deterministic but not globally optimal.
func MatchWords(user, correct []string, opts Options) MatchResult {
	res := MatchResult{
		MissingWords:    []string{},
		ExtraWords:      []string{},
		MisspelledWords: []MisspelledWord{},
	}
	usedUser := make([]bool, len(user))
	usedCorrect := make([]bool, len(correct))

	firstUnused := func(pred func(u string) bool) int {
		for i, u := range user {
			if !usedUser[i] && pred(u) {
				return i
			}
		}
		return -1
	}

	for ci, c := range correct {
		ui := firstUnused(func(u string) bool { return isExactMatch(u, c) })
		if ui < 0 {
			continue
		}
		res.ExactMatches++
		usedUser[ui] = true
		usedCorrect[ci] = true
	}

	for ci, c := range correct {
		if usedCorrect[ci] {
			continue
		}
		ui := firstUnused(func(u string) bool { return isSimilarWord(u, c, opts.SpellingTolerance) })
		if ui < 0 {
			continue
		}
		res.PartialMatches++
		res.MisspelledWords = append(res.MisspelledWords, MisspelledWord{
			Correct:    c,
			User:       user[ui],
			Similarity: Similarity(user[ui], c),
			Common:     isCommonMisspelling(user[ui], c),
		})
		usedUser[ui] = true
		usedCorrect[ci] = true
	}

	for ci, c := range correct {
		if !usedCorrect[ci] {
			res.MissingWords = append(res.MissingWords, c)
		}
	}
	for ui, u := range user {
		if !usedUser[ui] {
			res.ExtraWords = append(res.ExtraWords, u)
		}
	}
	return res
}
