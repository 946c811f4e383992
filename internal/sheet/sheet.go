// Package sheet reads answer sheets: one learner's typed answers to the
// sentences of a dictation test.
package sheet

import (
	"errors"
	"fmt"
	"os"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/dotcommander/dictascore/internal/scoring"
)

// Sheet is one learner's submission for one test.
type Sheet struct {
	Student    string `yaml:"student" json:"student"`
	StudentID  string `yaml:"studentId" json:"studentId,omitempty"`
	Test       string `yaml:"test" json:"test,omitempty"`
	Difficulty string `yaml:"difficulty" json:"difficulty,omitempty"`
	Items      []Item `yaml:"items" json:"items"`
}

// Item pairs a reference sentence with the learner's answer. A nil Answer
// means the question was skipped.
type Item struct {
	Question   int     `yaml:"question" json:"question,omitempty"`
	Reference  string  `yaml:"reference" json:"reference"`
	Answer     *string `yaml:"answer" json:"answer"`
	Difficulty string  `yaml:"difficulty" json:"difficulty,omitempty"`
	TimeSpent  float64 `yaml:"timeSpent" json:"timeSpent,omitempty"` // seconds
}

// Load reads and parses the sheet at path.
func Load(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML or JSON sheet and checks the fields grading relies on.
func Parse(data []byte) (*Sheet, error) {
	var s Sheet
	if err := yamlv3.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports the first structural problem of the sheet.
func (s *Sheet) Validate() error {
	if s.Student == "" {
		return errors.New("sheet has no student")
	}
	if len(s.Items) == 0 {
		return errors.New("sheet has no items")
	}
	if _, err := scoring.ParseDifficulty(s.Difficulty); err != nil {
		return fmt.Errorf("sheet difficulty: %w", err)
	}
	for i, it := range s.Items {
		if it.Reference == "" {
			return fmt.Errorf("item %d has no reference sentence", s.Number(i))
		}
		if _, err := scoring.ParseDifficulty(it.Difficulty); err != nil {
			return fmt.Errorf("item %d difficulty: %w", s.Number(i), err)
		}
	}
	return nil
}

// DefaultDifficulty is the sheet-level difficulty, or fallback when unset.
func (s *Sheet) DefaultDifficulty(fallback scoring.Difficulty) scoring.Difficulty {
	if s.Difficulty == "" {
		return fallback
	}
	d, err := scoring.ParseDifficulty(s.Difficulty)
	if err != nil {
		return fallback
	}
	return d
}

// Number is the 1-based question number of item i.
func (s *Sheet) Number(i int) int {
	if i >= 0 && i < len(s.Items) && s.Items[i].Question > 0 {
		return s.Items[i].Question
	}
	return i + 1
}

// TimesSpent returns per-item seconds when every item records one, else nil.
func (s *Sheet) TimesSpent() []float64 {
	times := make([]float64, 0, len(s.Items))
	for _, it := range s.Items {
		if it.TimeSpent <= 0 {
			return nil
		}
		times = append(times, it.TimeSpent)
	}
	return times
}

// Answered reports whether the learner submitted an answer.
func (it Item) Answered() bool {
	return it.Answer != nil
}

// AnswerText is the submitted answer, empty when skipped.
func (it Item) AnswerText() string {
	if it.Answer == nil {
		return ""
	}
	return *it.Answer
}

// EffectiveDifficulty is the item's own difficulty, else sheetDefault.
func (it Item) EffectiveDifficulty(sheetDefault scoring.Difficulty) scoring.Difficulty {
	if it.Difficulty == "" {
		return sheetDefault
	}
	d, err := scoring.ParseDifficulty(it.Difficulty)
	if err != nil {
		return sheetDefault
	}
	return d
}
