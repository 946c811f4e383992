// Package analytics summarises batches of scored answers: aggregate
// statistics, score distribution, history trends and per-difficulty
// breakdowns.
package analytics

import (
	"math"

	"github.com/samber/lo"

	"github.com/dotcommander/dictascore/internal/scoring"
)

// Distribution bucket labels, highest first.
const (
	Bucket90 = "90-100"
	Bucket80 = "80-89"
	Bucket70 = "70-79"
	Bucket60 = "60-69"
	Bucket0  = "0-59"
)

// Buckets lists the distribution labels in display order.
var Buckets = []string{Bucket90, Bucket80, Bucket70, Bucket60, Bucket0}

// Distribution counts scores per bucket.
type Distribution map[string]int

// Stats aggregates a set of score results.
type Stats struct {
	TotalQuestions int          `json:"totalQuestions"`
	CorrectAnswers int          `json:"correctAnswers"`
	Accuracy       int          `json:"accuracy"`
	AverageScore   int          `json:"averageScore"`
	HighestScore   int          `json:"highestScore"`
	LowestScore    int          `json:"lowestScore"`
	Distribution   Distribution `json:"scoreDistribution"`
}

// Statistics returns nil for an empty slice.
func Statistics(results []scoring.ScoreResult) *Stats {
	if len(results) == 0 {
		return nil
	}
	scores := Scores(results)
	correct := lo.CountBy(results, func(r scoring.ScoreResult) bool { return r.IsCorrect })
	n := float64(len(results))

	return &Stats{
		TotalQuestions: len(results),
		CorrectAnswers: correct,
		Accuracy:       int(math.Round(float64(correct) / n * 100)),
		AverageScore:   int(math.Round(float64(lo.Sum(scores)) / n)),
		HighestScore:   lo.Max(scores),
		LowestScore:    lo.Min(scores),
		Distribution:   ScoreDistribution(scores),
	}
}

// ScoreDistribution buckets scores into 90-100, 80-89, 70-79, 60-69 and 0-59.
// Every bucket is present, zero or not.
func ScoreDistribution(scores []int) Distribution {
	d := make(Distribution, len(Buckets))
	for _, b := range Buckets {
		d[b] = 0
	}
	for _, s := range scores {
		d[BucketFor(s)]++
	}
	return d
}

// BucketFor returns the distribution label of a score.
func BucketFor(score int) string {
	switch {
	case score >= 90:
		return Bucket90
	case score >= 80:
		return Bucket80
	case score >= 70:
		return Bucket70
	case score >= 60:
		return Bucket60
	default:
		return Bucket0
	}
}

// Scores projects results onto their scores.
func Scores(results []scoring.ScoreResult) []int {
	return lo.Map(results, func(r scoring.ScoreResult, _ int) int { return r.Score })
}

// FinalScore is the rounded mean of the scores, 0 for none.
func FinalScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	return int(math.Round(mean(scores)))
}

// Comparison describes the change between two results of the same item.
type Comparison struct {
	ScoreDifference int  `json:"scoreDifference"`
	AccuracyChange  bool `json:"accuracyChange"`
	Improvement     bool `json:"improvement"`
}

// Compare reports how after differs from before.
func Compare(before, after scoring.ScoreResult) Comparison {
	return Comparison{
		ScoreDifference: after.Score - before.Score,
		AccuracyChange:  after.IsCorrect != before.IsCorrect,
		Improvement:     after.Score > before.Score,
	}
}

func mean(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	return float64(lo.Sum(scores)) / float64(len(scores))
}
