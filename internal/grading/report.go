package grading

import (
	"time"

	"github.com/samber/lo"

	"github.com/dotcommander/dictascore/internal/analytics"
	"github.com/dotcommander/dictascore/internal/baseline"
	"github.com/dotcommander/dictascore/internal/scoring"
)

// Report aggregates a grading run.
type Report struct {
	Sheets       []SheetResult `json:"sheets"`
	TotalSheets  int           `json:"totalSheets"`
	GradedSheets int           `json:"gradedSheets"`
	FailedSheets int           `json:"failedSheets"`
	// Statistics covers every graded item of every sheet.
	Statistics *analytics.Stats `json:"statistics,omitempty"`
	// Distribution buckets the final score of each graded sheet.
	Distribution    analytics.Distribution `json:"distribution"`
	Breakdown       analytics.Breakdown    `json:"breakdown"`
	Suggestions     []analytics.Suggestion `json:"suggestions"`
	BaselineCreated string                 `json:"baselineCreated,omitempty"`
	StartTime       time.Time              `json:"startTime"`
	Duration        time.Duration          `json:"duration"`
}

// NewReport aggregates sheet results, keeping their order.
func NewReport(sheets []SheetResult) *Report {
	graded := lo.Filter(sheets, func(s SheetResult, _ int) bool { return s.Graded() })
	results := lo.FlatMap(graded, func(s SheetResult, _ int) []scoring.ScoreResult { return s.Results() })
	items := lo.FlatMap(graded, func(s SheetResult, _ int) []ItemResult { return s.Items })
	finals := lo.Map(graded, func(s SheetResult, _ int) int { return s.FinalScore })

	return &Report{
		Sheets:       sheets,
		TotalSheets:  len(sheets),
		GradedSheets: len(graded),
		FailedSheets: len(sheets) - len(graded),
		Statistics:   analytics.Statistics(results),
		Distribution: analytics.ScoreDistribution(finals),
		Breakdown:    analytics.DifficultyBreakdown(breakdownEntries(items)),
		Suggestions:  analytics.SuggestSettings(results),
	}
}

// FinalScores returns the final score of each graded sheet.
func (r *Report) FinalScores() []int {
	graded := lo.Filter(r.Sheets, func(s SheetResult, _ int) bool { return s.Graded() })
	return lo.Map(graded, func(s SheetResult, _ int) int { return s.FinalScore })
}

// AverageScore is the rounded mean final score of the graded sheets.
func (r *Report) AverageScore() int {
	return analytics.FinalScore(r.FinalScores())
}

// BaselineEntries lists every graded item of the report for a baseline snapshot.
func BaselineEntries(r *Report) []baseline.Entry {
	var entries []baseline.Entry
	for _, s := range r.Sheets {
		if !s.Graded() {
			continue
		}
		for _, it := range s.Items {
			e := baselineEntry(s.Student, s.Test, it)
			e.Score = it.Result.Score
			e.IsCorrect = it.Result.IsCorrect
			entries = append(entries, e)
		}
	}
	return entries
}

func baselineEntry(student, test string, it ItemResult) baseline.Entry {
	return baseline.Entry{
		Student:   student,
		Test:      test,
		Question:  it.Question,
		Reference: it.Reference,
	}
}
