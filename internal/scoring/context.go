package scoring

import (
	"fmt"
)

// Context carries session history for ScoreWithContext.
type Context struct {
	Difficulty     Difficulty `json:"difficulty,omitempty"`
	PreviousScores []int      `json:"previousScores,omitempty"`
	QuestionIndex  int        `json:"questionIndex,omitempty"`
	TotalQuestions int        `json:"totalQuestions,omitempty"`
}

const (
	strugglingWindow    = 3
	strugglingThreshold = 60.0
	strugglingBonus     = 2
	lateTestProgress    = 0.7
	lateTestBonus       = 1
)

// ContextScorer decorates an Engine with a small encouragement bonus derived
// from the learner's recent scores and position in the test.
type ContextScorer struct {
	engine  *Engine
	enabled bool
}

// NewContextScorer wraps engine. When enabled is false, ScoreWithContext
// returns the engine's result untouched.
func NewContextScorer(engine *Engine, enabled bool) *ContextScorer {
	return &ContextScorer{engine: engine, enabled: enabled}
}

// Engine returns the wrapped engine.
func (s *ContextScorer) Engine() *Engine {
	return s.engine
}

// ScoreWithContext scores the answer and adds the context bonus.
func (s *ContextScorer) ScoreWithContext(userAnswer, correctAnswer string, ctx Context) ScoreResult {
	difficulty := ctx.Difficulty
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	result := s.engine.Score(userAnswer, correctAnswer, difficulty)
	if !s.enabled || result.Failed() {
		return result
	}

	bonus := ContextBonus(ctx)
	if bonus == 0 {
		return result
	}
	result.Score = min(100, result.Score+bonus)
	result.IsCorrect = result.Score == 100
	result.Feedback += fmt.Sprintf(" (context bonus: +%d points)", bonus)
	return result
}

// ContextBonus returns +2 when the mean of the last three previous scores is
// below 60 and +1 once more than 70% of the test is done.
func ContextBonus(ctx Context) int {
	bonus := 0
	if n := len(ctx.PreviousScores); n > 0 {
		recent := ctx.PreviousScores[max(0, n-strugglingWindow):]
		sum := 0
		for _, s := range recent {
			sum += s
		}
		if float64(sum)/float64(len(recent)) < strugglingThreshold {
			bonus += strugglingBonus
		}
	}
	if ctx.QuestionIndex > 0 && ctx.TotalQuestions > 0 {
		if float64(ctx.QuestionIndex)/float64(ctx.TotalQuestions) > lateTestProgress {
			bonus += lateTestBonus
		}
	}
	return bonus
}
