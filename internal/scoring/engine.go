// Package scoring grades a typed transcription against a reference sentence.
//
// The engine is pure: every call works on its own inputs and returns a fresh
// ScoreResult. Options and lookup tables are read-only after construction,
// so a single Engine may be shared by any number of goroutines.
package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Composite weights.
const (
	partialCreditPoints = 50.0 // points for a reference word matched tolerantly
	orderBonusPoints    = 10.0 // ceiling of the word-order bonus
	completenessWeight  = 0.3
	extraWordPenalty    = 10.0
	missingWordPenalty  = 15.0
)

// Engine scores answers with a fixed set of Options.
type Engine struct {
	opts   Options
	logger logrus.FieldLogger
	now    func() time.Time

	// analyzer is swapped in tests to exercise the fail-safe path.
	analyzer func(user, correct []string, rawUser, rawCorrect string) AnalysisResult
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger that receives recovered scoring failures.
func WithLogger(l logrus.FieldLogger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the time source used for result timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New validates opts and returns an Engine.
func New(opts Options, options ...EngineOption) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		opts:   opts.clone(),
		logger: logrus.StandardLogger(),
		now:    time.Now,
	}
	e.analyzer = e.analyze
	for _, o := range options {
		o(e)
	}
	return e, nil
}

// NewFromMap builds an Engine from a flat option map overlaid on defaults.
func NewFromMap(m map[string]any, options ...EngineOption) (*Engine, error) {
	opts, err := OptionsFromMap(m)
	if err != nil {
		return nil, err
	}
	return New(opts, options...)
}

// Options returns a copy of the engine's options.
func (e *Engine) Options() Options {
	return e.opts.clone()
}

// WithOverrides returns a new Engine whose options are this engine's options
// with m overlaid. The receiver is unchanged.
func (e *Engine) WithOverrides(m map[string]any) (*Engine, error) {
	opts := e.opts.clone()
	if err := opts.overlay(m); err != nil {
		return nil, err
	}
	return New(opts, WithLogger(e.logger), WithClock(e.now))
}

// Score grades userAnswer against correctAnswer. It always returns a result:
// an internal failure yields score 0 with Error set, and the cause is logged.
func (e *Engine) Score(userAnswer, correctAnswer string, difficulty Difficulty) (result ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("scoring failed: %v", r)
			e.logger.WithError(err).WithField("difficulty", string(difficulty)).Error("recovered from scoring failure")
			result = ScoreResult{
				Score:     0,
				IsCorrect: false,
				Feedback:  FeedbackError,
				Analysis:  emptyAnalysis(nil),
				Timestamp: time.Now(),
				Error:     err.Error(),
			}
		}
	}()
	return e.score(userAnswer, correctAnswer, difficulty)
}

func (e *Engine) score(userAnswer, correctAnswer string, difficulty Difficulty) ScoreResult {
	user := Normalize(userAnswer, e.opts)
	correct := Normalize(correctAnswer, e.opts)

	if user == "" {
		return e.result(0, FeedbackNoAnswer, emptyAnalysis(Tokenize(correct)))
	}

	if user == correct || e.canonical(userAnswer) == e.canonical(correctAnswer) {
		return e.result(100, FeedbackPerfect, perfectAnalysis(Tokenize(correct)))
	}

	analysis := e.analyzer(Tokenize(user), Tokenize(correct), userAnswer, correctAnswer)
	score := e.composite(analysis, difficulty)
	return e.result(score, GenerateFeedback(analysis, score), analysis)
}

func (e *Engine) result(score int, feedback string, a AnalysisResult) ScoreResult {
	return ScoreResult{
		Score:     score,
		IsCorrect: score == 100,
		Feedback:  feedback,
		Analysis:  a,
		Timestamp: e.now(),
	}
}

// canonical is the normalized text with contractions expanded. Only the
// perfect-answer check uses it; expansions never reach the analysis.
func (e *Engine) canonical(raw string) string {
	return Normalize(ExpandContractions(raw), e.opts)
}

func (e *Engine) analyze(user, correct []string, rawUser, rawCorrect string) AnalysisResult {
	m := MatchWords(user, correct, e.opts)
	a := AnalysisResult{
		UserWords:         user,
		CorrectWords:      correct,
		TotalWords:        len(correct),
		UserWordCount:     len(user),
		ExactMatches:      m.ExactMatches,
		PartialMatches:    m.PartialMatches,
		MissingWords:      m.MissingWords,
		ExtraWords:        m.ExtraWords,
		MisspelledWords:   m.MisspelledWords,
		WordOrderScore:    WordOrderScore(user, correct, e.opts),
		SpellingScore:     SpellingScore(user, correct),
		CompletenessScore: CompletenessScore(user, correct),
	}
	if e.opts.StrictPunctuation {
		a.PunctuationScore = PunctuationScore(rawUser, rawCorrect)
	}
	return a
}

// composite blends the analysis into a 0-100 integer score.
func (e *Engine) composite(a AnalysisResult, difficulty Difficulty) int {
	if a.TotalWords == 0 {
		return 0
	}
	total := float64(a.TotalWords)

	base := float64(a.ExactMatches) / total * 100
	if e.opts.AllowPartialCredit {
		base += float64(a.PartialMatches) / total * partialCreditPoints
	}
	base += a.WordOrderScore / 100 * e.opts.WordOrderImportance * orderBonusPoints
	base = base*(1-completenessWeight) + a.CompletenessScore*completenessWeight
	if e.opts.StrictPunctuation {
		w := e.opts.PunctuationWeight
		base = base*(1-w) + a.PunctuationScore*w
	}
	if e.opts.PenalizeExtraWords {
		base -= float64(len(a.ExtraWords)) / total * extraWordPenalty
	}
	if e.opts.PenalizeMissingWords {
		base -= float64(len(a.MissingWords)) / total * missingWordPenalty
	}
	base *= e.opts.multiplier(difficulty)

	return int(math.Round(clamp(base, 0, 100)))
}

// SemanticSimilarity is the Jaccard overlap of the two answers' word sets.
func (e *Engine) SemanticSimilarity(userAnswer, correctAnswer string) float64 {
	userSet := make(map[string]struct{})
	for _, w := range Tokenize(Normalize(userAnswer, e.opts)) {
		userSet[w] = struct{}{}
	}
	union := make(map[string]struct{}, len(userSet))
	for w := range userSet {
		union[w] = struct{}{}
	}
	correctSet := make(map[string]struct{})
	for _, w := range Tokenize(Normalize(correctAnswer, e.opts)) {
		correctSet[w] = struct{}{}
		union[w] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}
	shared := 0
	for w := range userSet {
		if _, ok := correctSet[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(union))
}

func emptyAnalysis(correct []string) AnalysisResult {
	if correct == nil {
		correct = []string{}
	}
	return AnalysisResult{
		UserWords:       []string{},
		CorrectWords:    correct,
		TotalWords:      len(correct),
		MissingWords:    correct,
		ExtraWords:      []string{},
		MisspelledWords: []MisspelledWord{},
	}
}

func perfectAnalysis(correct []string) AnalysisResult {
	return AnalysisResult{
		UserWords:         correct,
		CorrectWords:      correct,
		TotalWords:        len(correct),
		UserWordCount:     len(correct),
		ExactMatches:      len(correct),
		MissingWords:      []string{},
		ExtraWords:        []string{},
		MisspelledWords:   []MisspelledWord{},
		WordOrderScore:    100,
		SpellingScore:     100,
		CompletenessScore: 100,
		PunctuationScore:  100,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
