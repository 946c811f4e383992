package scoring

// Levenshtein returns the edit distance between a and b, counting runes.
// Insertion, deletion and substitution each cost 1.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Two rolling rows of the DP table.
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// Similarity returns (maxLen - distance) / maxLen in [0,1].
// Two empty strings are identical; one empty string shares nothing.
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 {
		if lb == 0 {
			return 1
		}
		return 0
	}
	if lb == 0 {
		return 0
	}
	maxLen := max(la, lb)
	return float64(maxLen-Levenshtein(a, b)) / float64(maxLen)
}
