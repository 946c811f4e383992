package analytics

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/dotcommander/dictascore/internal/scoring"
)

// Accuracy thresholds for weak areas and strengths.
const (
	weakAreaAccuracy = 70
	strengthAccuracy = 90
)

// Entry is one question of a test as seen by DifficultyBreakdown. Answered is
// false for questions the learner skipped; they still count toward totals.
type Entry struct {
	Difficulty scoring.Difficulty
	Score      int
	IsCorrect  bool
	Answered   bool
}

// DifficultyStats aggregates the questions of one difficulty.
type DifficultyStats struct {
	Total        int `json:"total"`
	Correct      int `json:"correct"`
	TotalScore   int `json:"totalScore"`
	Accuracy     int `json:"accuracy"`
	AverageScore int `json:"averageScore"`
}

// Area is a difficulty singled out as weak or strong.
type Area struct {
	Difficulty scoring.Difficulty `json:"difficulty"`
	Accuracy   int                `json:"accuracy"`
	Suggestion string             `json:"suggestion,omitempty"`
}

// Breakdown groups a test's questions by difficulty.
type Breakdown struct {
	ByDifficulty map[scoring.Difficulty]*DifficultyStats `json:"byDifficulty"`
	WeakAreas    []Area                                  `json:"weakAreas"`
	Strengths    []Area                                  `json:"strengths"`
}

var difficultyOrder = []scoring.Difficulty{scoring.DifficultyEasy, scoring.DifficultyMedium, scoring.DifficultyHard}

// DifficultyBreakdown computes accuracy and average score per difficulty.
// Entries without a difficulty count as medium. Weak areas (accuracy below
// 70) and strengths (90 or more) are listed easy, medium, hard.
func DifficultyBreakdown(entries []Entry) Breakdown {
	grouped := lo.GroupBy(entries, func(e Entry) scoring.Difficulty {
		if e.Difficulty == "" {
			return scoring.DifficultyMedium
		}
		return e.Difficulty
	})

	b := Breakdown{
		ByDifficulty: make(map[scoring.Difficulty]*DifficultyStats, len(grouped)),
		WeakAreas:    []Area{},
		Strengths:    []Area{},
	}
	for d, group := range grouped {
		answered := lo.Filter(group, func(e Entry, _ int) bool { return e.Answered })
		st := &DifficultyStats{
			Total:      len(group),
			Correct:    lo.CountBy(answered, func(e Entry) bool { return e.IsCorrect }),
			TotalScore: lo.SumBy(answered, func(e Entry) int { return e.Score }),
		}
		st.Accuracy = int(math.Round(float64(st.Correct) / float64(st.Total) * 100))
		st.AverageScore = int(math.Round(float64(st.TotalScore) / float64(st.Total)))
		b.ByDifficulty[d] = st
	}

	for _, d := range orderedDifficulties(b.ByDifficulty) {
		st := b.ByDifficulty[d]
		switch {
		case st.Accuracy < weakAreaAccuracy:
			b.WeakAreas = append(b.WeakAreas, Area{
				Difficulty: d,
				Accuracy:   st.Accuracy,
				Suggestion: "Practise more " + string(d) + " sentences.",
			})
		case st.Accuracy >= strengthAccuracy:
			b.Strengths = append(b.Strengths, Area{Difficulty: d, Accuracy: st.Accuracy})
		}
	}
	return b
}

// orderedDifficulties lists the known labels first, then any others sorted.
func orderedDifficulties(m map[scoring.Difficulty]*DifficultyStats) []scoring.Difficulty {
	known := lo.Filter(difficultyOrder, func(d scoring.Difficulty, _ int) bool {
		_, ok := m[d]
		return ok
	})
	others := lo.Filter(lo.Keys(m), func(d scoring.Difficulty, _ int) bool {
		return !lo.Contains(difficultyOrder, d)
	})
	slices.Sort(others)
	return append(known, others...)
}
