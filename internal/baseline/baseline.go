package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Version of the baseline file format.
const Version = "1.0"

// Entry is one graded item as remembered by a baseline.
type Entry struct {
	Student   string `json:"-"`
	Test      string `json:"-"`
	Question  int    `json:"-"`
	Reference string `json:"-"`
	Score     int    `json:"score"`
	IsCorrect bool   `json:"isCorrect"`
}

// Baseline is a snapshot of item scores from an earlier grading run. Later
// runs look items up by fingerprint to report progress.
type Baseline struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"created_at"`
	Scores    map[string]Entry `json:"scores"`
}

// CreateBaseline snapshots entries. A later entry for the same item wins.
func CreateBaseline(entries []Entry) *Baseline {
	b := &Baseline{
		Version:   Version,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Scores:    make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		b.Scores[Fingerprint(e)] = e
	}
	return b
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}
	if b.Scores == nil {
		b.Scores = make(map[string]Entry)
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// Lookup returns the remembered result for the same item, if any.
func (b *Baseline) Lookup(e Entry) (Entry, bool) {
	if b == nil || b.Scores == nil {
		return Entry{}, false
	}
	prev, ok := b.Scores[Fingerprint(e)]
	return prev, ok
}

// Len is the number of remembered items.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Scores)
}

// Fingerprint identifies an item across runs by student, test, question
// number and reference sentence. Case and spacing differences in the
// identifying text do not change it; the answer and score never do.
func Fingerprint(e Entry) string {
	data := strings.Join([]string{
		normalize(e.Student),
		normalize(e.Test),
		fmt.Sprint(e.Question),
		normalize(e.Reference),
	}, "|")
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
