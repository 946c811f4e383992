package analytics

import (
	"math"

	"github.com/samber/lo"

	"github.com/dotcommander/dictascore/internal/scoring"
)

// Trend labels.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// trendThreshold is the half-to-half average change that counts as a trend.
const trendThreshold = 5.0

// Streaks holds the longest and current runs of correct and incorrect answers.
type Streaks struct {
	MaxCorrect       int `json:"maxCorrectStreak"`
	MaxIncorrect     int `json:"maxIncorrectStreak"`
	CurrentCorrect   int `json:"currentCorrectStreak"`
	CurrentIncorrect int `json:"currentIncorrectStreak"`
}

// History summarises an ordered sequence of results.
type History struct {
	AverageScore float64 `json:"averageScore"`
	Trend        string  `json:"trend"`
	Consistency  float64 `json:"consistency"`
	Improvement  int     `json:"improvement"`
	Streaks      Streaks `json:"streaks"`
}

// AnalyzeHistory returns nil for an empty history.
func AnalyzeHistory(results []scoring.ScoreResult) *History {
	if len(results) == 0 {
		return nil
	}
	scores := Scores(results)
	return &History{
		AverageScore: mean(scores),
		Trend:        Trend(scores),
		Consistency:  Consistency(scores),
		Improvement:  scores[len(scores)-1] - scores[0],
		Streaks:      FindStreaks(results),
	}
}

// Trend compares the mean of the second half of scores with the first half.
// An odd middle element belongs to the second half.
func Trend(scores []int) string {
	if len(scores) < 2 {
		return TrendInsufficientData
	}
	half := len(scores) / 2
	diff := mean(scores[half:]) - mean(scores[:half])
	switch {
	case diff > trendThreshold:
		return TrendImproving
	case diff < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Consistency is 100 minus twice the population standard deviation, floored
// at 0. Fewer than two scores are perfectly consistent.
func Consistency(scores []int) float64 {
	if len(scores) < 2 {
		return 100
	}
	m := mean(scores)
	variance := lo.SumBy(scores, func(s int) float64 {
		d := float64(s) - m
		return d * d
	}) / float64(len(scores))
	return math.Max(0, 100-math.Sqrt(variance)*2)
}

// FindStreaks scans results in order.
func FindStreaks(results []scoring.ScoreResult) Streaks {
	var s Streaks
	for _, r := range results {
		if r.IsCorrect {
			s.CurrentCorrect++
			s.CurrentIncorrect = 0
			s.MaxCorrect = max(s.MaxCorrect, s.CurrentCorrect)
		} else {
			s.CurrentIncorrect++
			s.CurrentCorrect = 0
			s.MaxIncorrect = max(s.MaxIncorrect, s.CurrentIncorrect)
		}
	}
	return s
}

// Metrics are learner performance indicators over a set of results.
type Metrics struct {
	Accuracy    float64 `json:"accuracy"`
	Efficiency  float64 `json:"efficiency"`
	Consistency float64 `json:"consistency"`
	Improvement int     `json:"improvement"`
}

// PerformanceMetrics computes accuracy, consistency and improvement.
// Efficiency (average score per minute) is only computed when secondsSpent
// has one entry per result.
func PerformanceMetrics(results []scoring.ScoreResult, secondsSpent []float64) Metrics {
	var m Metrics
	if len(results) == 0 {
		return m
	}
	scores := Scores(results)
	correct := lo.CountBy(results, func(r scoring.ScoreResult) bool { return r.IsCorrect })
	m.Accuracy = float64(correct) / float64(len(results)) * 100

	if len(secondsSpent) == len(scores) {
		avgTime := lo.Sum(secondsSpent) / float64(len(secondsSpent))
		m.Efficiency = mean(scores) / math.Max(1, avgTime/60)
	}

	m.Consistency = Consistency(scores)
	if len(scores) >= 2 {
		m.Improvement = scores[len(scores)-1] - scores[0]
	}
	return m
}

// Suggestion recommends a scoring option change.
type Suggestion struct {
	Setting string `json:"setting"`
	Value   any    `json:"value"`
	Reason  string `json:"reason"`
}

// SuggestSettings proposes gentler scoring for struggling learners and
// stricter scoring for strong ones.
func SuggestSettings(results []scoring.ScoreResult) []Suggestion {
	suggestions := []Suggestion{}
	if len(results) == 0 {
		return suggestions
	}
	avg := mean(Scores(results))
	if avg < 60 {
		suggestions = append(suggestions,
			Suggestion{Setting: "allowPartialCredit", Value: true, Reason: "Allow partial credit to keep learners motivated."},
			Suggestion{Setting: "spellingTolerance", Value: 0.2, Reason: "Widen the spelling tolerance."},
		)
	}
	if avg > 85 {
		suggestions = append(suggestions,
			Suggestion{Setting: "strictPunctuation", Value: true, Reason: "Grade punctuation strictly to raise the challenge."},
		)
	}
	return suggestions
}
