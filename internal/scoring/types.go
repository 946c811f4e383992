package scoring

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the difficulty label attached to a reference sentence.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a label onto a Difficulty. An empty label is medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q: must be easy, medium, or hard", s)
	}
}

// MisspelledWord is a reference word that was matched tolerantly.
type MisspelledWord struct {
	Correct    string  `json:"correct"`
	User       string  `json:"user"`
	Similarity float64 `json:"similarity"`
	Common     bool    `json:"common,omitempty"` // user form is a known common misspelling
}

// AnalysisResult is the word-level breakdown behind a score.
// UserWords and CorrectWords hold normalized tokens, not raw input.
type AnalysisResult struct {
	UserWords         []string         `json:"userWords"`
	CorrectWords      []string         `json:"correctWords"`
	TotalWords        int              `json:"totalWords"`
	UserWordCount     int              `json:"userWordCount"`
	ExactMatches      int              `json:"exactMatches"`
	PartialMatches    int              `json:"partialMatches"`
	MissingWords      []string         `json:"missingWords"`
	ExtraWords        []string         `json:"extraWords"`
	MisspelledWords   []MisspelledWord `json:"misspelledWords"`
	WordOrderScore    float64          `json:"wordOrderScore"`
	SpellingScore     float64          `json:"spellingScore"`
	CompletenessScore float64          `json:"completenessScore"`
	PunctuationScore  float64          `json:"punctuationScore"`
}

// ScoreResult is the outcome of scoring one answer.
type ScoreResult struct {
	Score     int            `json:"score"`
	IsCorrect bool           `json:"isCorrect"`
	Feedback  string         `json:"feedback"`
	Analysis  AnalysisResult `json:"analysis"`
	Timestamp time.Time      `json:"timestamp"`
	Error     string         `json:"error,omitempty"` // set only on fail-safe results
}

// Failed reports whether the result came from a recovered internal failure.
func (r ScoreResult) Failed() bool {
	return r.Error != ""
}

// TierFromScore returns a letter grade for a 0-100 score.
func TierFromScore(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
