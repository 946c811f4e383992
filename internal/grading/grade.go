package grading

import (
	"slices"

	"github.com/samber/lo"

	"github.com/dotcommander/dictascore/internal/analytics"
	"github.com/dotcommander/dictascore/internal/scoring"
	"github.com/dotcommander/dictascore/internal/sheet"
	"github.com/dotcommander/dictascore/internal/types"
)

// ItemResult is one graded question.
type ItemResult struct {
	Question   int                   `json:"question"`
	Reference  string                `json:"reference"`
	Answer     string                `json:"answer"`
	Answered   bool                  `json:"answered"`
	Difficulty scoring.Difficulty    `json:"difficulty"`
	TimeSpent  float64               `json:"timeSpent,omitempty"`
	Result     scoring.ScoreResult   `json:"result"`
	Change     *analytics.Comparison `json:"change,omitempty"` // against the baseline
}

// SheetResult is the outcome of grading one answer sheet. A sheet that
// failed validation has Issues and no Items.
type SheetResult struct {
	File            string                  `json:"file"`
	Student         string                  `json:"student,omitempty"`
	StudentID       string                  `json:"studentId,omitempty"`
	Test            string                  `json:"test,omitempty"`
	Items           []ItemResult            `json:"items"`
	FinalScore      int                     `json:"finalScore"`
	CorrectCount    int                     `json:"correctCount"`
	Statistics      *analytics.Stats        `json:"statistics,omitempty"`
	History         *analytics.History      `json:"history,omitempty"`
	Breakdown       analytics.Breakdown     `json:"breakdown"`
	Metrics         analytics.Metrics       `json:"metrics"`
	Suggestions     []analytics.Suggestion  `json:"suggestions"`
	BaselineMatched int                     `json:"baselineMatched,omitempty"`
	Issues          []types.ValidationError `json:"issues,omitempty"`
}

// Graded reports whether the sheet was scored.
func (r SheetResult) Graded() bool {
	return !types.HasErrors(r.Issues) && len(r.Items) > 0
}

// Results returns the score result of every item in order.
func (r SheetResult) Results() []scoring.ScoreResult {
	return lo.Map(r.Items, func(it ItemResult, _ int) scoring.ScoreResult { return it.Result })
}

// GradeSheet scores every item of s in order. Each item sees the scores of
// the items before it, its 1-based position and the item count, so the
// context bonus applies when enabled. Skipped items score as empty answers.
func (o *Orchestrator) GradeSheet(s *sheet.Sheet) SheetResult {
	def := s.DefaultDifficulty(o.cfg.DefaultDifficulty())
	total := len(s.Items)

	res := SheetResult{
		Student:   s.Student,
		StudentID: s.StudentID,
		Test:      s.Test,
		Items:     make([]ItemResult, 0, total),
	}
	previous := make([]int, 0, total)
	for i, it := range s.Items {
		difficulty := it.EffectiveDifficulty(def)
		result := o.scorer.ScoreWithContext(it.AnswerText(), it.Reference, scoring.Context{
			Difficulty:     difficulty,
			PreviousScores: slices.Clone(previous),
			QuestionIndex:  i + 1,
			TotalQuestions: total,
		})
		previous = append(previous, result.Score)
		res.Items = append(res.Items, ItemResult{
			Question:   s.Number(i),
			Reference:  it.Reference,
			Answer:     it.AnswerText(),
			Answered:   it.Answered(),
			Difficulty: difficulty,
			TimeSpent:  it.TimeSpent,
			Result:     result,
		})
	}

	results := res.Results()
	res.FinalScore = analytics.FinalScore(previous)
	res.CorrectCount = lo.CountBy(results, func(r scoring.ScoreResult) bool { return r.IsCorrect })
	res.Statistics = analytics.Statistics(results)
	res.History = analytics.AnalyzeHistory(results)
	res.Breakdown = analytics.DifficultyBreakdown(breakdownEntries(res.Items))
	res.Metrics = analytics.PerformanceMetrics(results, s.TimesSpent())
	res.Suggestions = analytics.SuggestSettings(results)
	return res
}

func breakdownEntries(items []ItemResult) []analytics.Entry {
	return lo.Map(items, func(it ItemResult, _ int) analytics.Entry {
		return analytics.Entry{
			Difficulty: it.Difficulty,
			Score:      it.Result.Score,
			IsCorrect:  it.Result.IsCorrect,
			Answered:   it.Answered,
		}
	})
}
