package scoring

import (
	"fmt"
	"strings"
)

// Stock feedback messages.
const (
	FeedbackNoAnswer = "No answer provided."
	FeedbackPerfect  = "Perfect answer! Excellent work!"
	FeedbackError    = "An error occurred while scoring."
	orderHint        = "Check the word order."
)

// feedbackTiers are checked top-down; the first threshold the score reaches
// picks the base message.
var feedbackTiers = []struct {
	min     int
	message string
}{
	{90, "Almost perfect! Great listening."},
	{80, "Well done! A little more care and it will be perfect."},
	{70, "A decent answer. Try to focus a bit more."},
	{60, "Partially correct. Listen to the sentence once more."},
	{40, "Some parts are correct. Listen to the sentence again slowly."},
	{0, "Try again. Listen carefully."},
}

const (
	maxMissingInFeedback    = 3
	maxMisspelledInFeedback = 2
	maxExtraInFeedback      = 2
	orderHintThreshold      = 70
)

// GenerateFeedback composes the learner-facing message for an analysed answer.
func GenerateFeedback(a AnalysisResult, score int) string {
	if score == 100 {
		return FeedbackPerfect
	}

	parts := []string{tierMessage(score)}

	if n := len(a.MissingWords); n > 0 {
		msg := "Missing words: " + strings.Join(a.MissingWords[:min(n, maxMissingInFeedback)], ", ")
		if n > maxMissingInFeedback {
			msg += " and more"
		}
		parts = append(parts, msg+".")
	}

	if n := len(a.MisspelledWords); n > 0 {
		pairs := make([]string, 0, maxMisspelledInFeedback)
		for _, m := range a.MisspelledWords[:min(n, maxMisspelledInFeedback)] {
			pairs = append(pairs, fmt.Sprintf("'%s' → '%s'", m.User, m.Correct))
		}
		parts = append(parts, "Check spelling: "+strings.Join(pairs, ", ")+".")
	}

	if n := len(a.ExtraWords); n > 0 {
		parts = append(parts, "Unnecessary words: "+strings.Join(a.ExtraWords[:min(n, maxExtraInFeedback)], ", ")+".")
	}

	if a.WordOrderScore < orderHintThreshold {
		parts = append(parts, orderHint)
	}

	return strings.Join(parts, " ")
}

func tierMessage(score int) string {
	for _, t := range feedbackTiers {
		if score >= t.min {
			return t.message
		}
	}
	return feedbackTiers[len(feedbackTiers)-1].message
}
