package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dotcommander/dictascore/internal/scoring"
)

// RenderScore prints a single score result. Verbose output adds the
// sub-scores and the word-level analysis.
func RenderScore(w io.Writer, r scoring.ScoreResult, verbose bool) {
	colorize := isTerminal(w)
	_, style := scoreIcon(r.Score)
	score := fmt.Sprintf("%d/100 (%s)", r.Score, scoring.TierFromScore(r.Score))
	if colorize {
		score = style.Render(score)
	}
	fmt.Fprintf(w, "Score: %s\n", score)
	fmt.Fprintln(w, r.Feedback)
	if r.Failed() {
		fmt.Fprintf(w, "Error: %s\n", r.Error)
	}

	if !verbose {
		return
	}
	a := r.Analysis
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Words:        %d exact, %d close, of %d (you typed %d)\n",
		a.ExactMatches, a.PartialMatches, a.TotalWords, a.UserWordCount)
	fmt.Fprintf(w, "  Word order:   %.0f\n", a.WordOrderScore)
	fmt.Fprintf(w, "  Spelling:     %.0f\n", a.SpellingScore)
	fmt.Fprintf(w, "  Completeness: %.0f\n", a.CompletenessScore)
	fmt.Fprintf(w, "  Punctuation:  %.0f\n", a.PunctuationScore)
	if len(a.MissingWords) > 0 {
		fmt.Fprintf(w, "  Missing:      %s\n", strings.Join(a.MissingWords, ", "))
	}
	if len(a.ExtraWords) > 0 {
		fmt.Fprintf(w, "  Extra:        %s\n", strings.Join(a.ExtraWords, ", "))
	}
	for _, m := range a.MisspelledWords {
		fmt.Fprintf(w, "  Misspelled:   '%s' → '%s' (%.2f)\n", m.User, m.Correct, m.Similarity)
	}
}
