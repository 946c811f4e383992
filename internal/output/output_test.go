package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/dictascore/internal/analytics"
	"github.com/dotcommander/dictascore/internal/grading"
	"github.com/dotcommander/dictascore/internal/scoring"
	"github.com/dotcommander/dictascore/internal/types"
)

type reportFormatter interface {
	Format(*grading.Report) error
}

func sampleReport() *grading.Report {
	mina := grading.SheetResult{
		File:         "class-a/mina.dictation.yaml",
		Student:      "Mina",
		StudentID:    "s-001",
		Test:         "Unit 3",
		FinalScore:   84,
		CorrectCount: 0,
		Items: []grading.ItemResult{
			{
				Question: 1, Reference: "receive the package", Answer: "recieve the package", Answered: true,
				Difficulty: scoring.DifficultyMedium,
				Result:     scoring.ScoreResult{Score: 93, Feedback: "Almost perfect! Great listening."},
				Change:     &analytics.Comparison{ScoreDifference: 5, Improvement: true},
			},
			{
				Question: 2, Reference: "the quick brown fox", Answer: "the brown, fox", Answered: true,
				Difficulty: scoring.DifficultyHard,
				Result:     scoring.ScoreResult{Score: 74, Feedback: "A decent answer."},
			},
		},
		BaselineMatched: 1,
	}
	jun := grading.SheetResult{
		File:         "class-a/jun.dictation.json",
		Student:      "Jun",
		FinalScore:   50,
		CorrectCount: 1,
		Items: []grading.ItemResult{
			{Question: 1, Reference: "Hello world.", Answer: "Hello world.", Answered: true, Difficulty: scoring.DifficultyEasy,
				Result: scoring.ScoreResult{Score: 100, IsCorrect: true, Feedback: "Perfect!"}},
			{Question: 2, Reference: "Good morning.", Difficulty: scoring.DifficultyEasy,
				Result: scoring.ScoreResult{Score: 0, Feedback: "Please provide an answer."}},
		},
	}
	bad := grading.SheetResult{
		File: "class-b/bad.dictation.yaml",
		Issues: []types.ValidationError{
			{File: "class-b/bad.dictation.yaml", Message: "schema: student: incomplete value", Severity: types.SeverityError, Line: 3},
		},
	}
	report := grading.NewReport([]grading.SheetResult{mina, jun, bad})
	report.Duration = 12 * time.Millisecond
	return report
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(&buf, false, false).Format(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "~ class-a/mina.dictation.yaml  Mina   84/100 (B)  0/2 correct  +5 vs baseline")
	assert.Contains(t, out, "✗ class-a/jun.dictation.json  Jun   50/100 (F)  1/2 correct")
	assert.Contains(t, out, "✗ class-b/bad.dictation.yaml\n")
	assert.Contains(t, out, "    ✘ class-b/bad.dictation.yaml:3: schema: student: incomplete value")
	assert.Contains(t, out, "2/3 sheets graded, average 67, 1 failed (12ms)")
	assert.NotContains(t, out, "Q1", "items are verbose only")
	assert.NotContains(t, out, "\x1b[", "no colour when not a terminal")
}

func TestConsoleFormatterVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(&buf, false, true).Format(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "    Q1    93  recieve the package")
	assert.Contains(t, out, "Almost perfect! Great listening.")
	assert.Contains(t, out, "baseline: +5")
	assert.Contains(t, out, "(skipped)")
	assert.Contains(t, out, "Distribution:")
	assert.Contains(t, out, "  80-89   █ 1")
	assert.Contains(t, out, "  0-59    █ 1")
}

func TestConsoleFormatterQuiet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(&buf, true, true).Format(sampleReport()))
	assert.Empty(t, buf.String())
}

func TestConsoleFormatterEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(&buf, false, false).Format(grading.NewReport(nil)))
	assert.Contains(t, buf.String(), "0/0 sheets graded (0ms)")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf, true, "")
	f.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	require.NoError(t, f.Format(sampleReport()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	header := doc["header"].(map[string]any)
	assert.Equal(t, "dictascore", header["tool"])
	assert.Equal(t, "2026-03-01T09:00:00Z", header["timestamp"])

	summary := doc["summary"].(map[string]any)
	assert.Equal(t, float64(3), summary["total_sheets"])
	assert.Equal(t, float64(1), summary["failed_sheets"])
	assert.Equal(t, float64(67), summary["average_score"])
	assert.Equal(t, "12ms", summary["duration"])

	sheets := doc["sheets"].([]any)
	require.Len(t, sheets, 3)
	first := sheets[0].(map[string]any)
	assert.Equal(t, "Mina", first["student"])
	items := first["items"].([]any)
	result := items[0].(map[string]any)["result"].(map[string]any)
	assert.Equal(t, float64(93), result["score"])
}

func TestJSONFormatterCompactEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, false, "").Format(grading.NewReport(nil)))
	out := strings.TrimSpace(buf.String())
	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, `"sheets":[]`)
}

func TestFormattersWriteToFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		make func(path string, buf *bytes.Buffer) reportFormatter
		want string
	}{
		{"json", func(p string, b *bytes.Buffer) reportFormatter { return NewJSONFormatter(b, true, p) }, `"tool": "dictascore"`},
		{"markdown", func(p string, b *bytes.Buffer) reportFormatter { return NewMarkdownFormatter(b, false, p) }, "# Dictation Report"},
		{"csv", func(p string, b *bytes.Buffer) reportFormatter { return NewCSVFormatter(b, p) }, "file,student,student_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			path := filepath.Join(dir, "report."+tt.name)
			require.NoError(t, tt.make(path, &buf).Format(sampleReport()))
			assert.Empty(t, buf.String(), "file output must not also go to the writer")
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestFormatterWriteError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "r.json")
	err := NewJSONFormatter(&bytes.Buffer{}, true, missing).Format(sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error writing to file")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(&buf, false, "")
	f.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	require.NoError(t, f.Format(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "**Generated:** 2026-03-01 09:00:00")
	assert.Contains(t, out, "| Sheets | 3 |")
	assert.Contains(t, out, "| Average Score | 67 |")
	assert.Contains(t, out, "| 80-89 | 1 |")
	assert.Contains(t, out, "### class-a/mina.dictation.yaml")
	assert.Contains(t, out, "**Student:** Mina · **Test:** Unit 3 · **Score:** 84 (B) · **Correct:** 0/2")
	assert.Contains(t, out, "| 2 | hard | 74 | the brown, fox |")
	assert.Contains(t, out, "| 2 | easy | 0 | *skipped* |")
	assert.Contains(t, out, "Status: ❌ not graded")
	assert.Contains(t, out, "- schema: student: incomplete value (line 3)")
	assert.NotContains(t, out, "**Q1:**")
}

func TestMarkdownFormatterVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf, true, "").Format(sampleReport()))
	assert.Contains(t, buf.String(), "- **Q1:** Almost perfect! Great listening.")
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a \| b c`, escapeCell("a | b\nc"))
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf, "").Format(sampleReport()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5, "header plus four items; the failed sheet has none")
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{
		"class-a/mina.dictation.yaml", "Mina", "s-001", "Unit 3", "2", "hard",
		"the quick brown fox", "the brown, fox", "true", "74", "false", "A decent answer.", "84",
	}, rows[2])
	assert.Equal(t, "false", rows[4][8])
	assert.Equal(t, "", rows[4][7])
}

func TestRenderScore(t *testing.T) {
	result := scoring.ScoreResult{
		Score:    93,
		Feedback: "Almost perfect! Great listening.",
		Analysis: scoring.AnalysisResult{
			TotalWords: 3, UserWordCount: 3, ExactMatches: 2, PartialMatches: 1,
			MissingWords:      []string{"quick"},
			MisspelledWords:   []scoring.MisspelledWord{{Correct: "receive", User: "recieve", Similarity: 0.71}},
			WordOrderScore:    100,
			SpellingScore:     90.4,
			CompletenessScore: 100,
			PunctuationScore:  100,
		},
	}

	var buf bytes.Buffer
	RenderScore(&buf, result, false)
	assert.Equal(t, "Score: 93/100 (A)\nAlmost perfect! Great listening.\n", buf.String())

	buf.Reset()
	RenderScore(&buf, result, true)
	out := buf.String()
	assert.Contains(t, out, "  Words:        2 exact, 1 close, of 3 (you typed 3)")
	assert.Contains(t, out, "  Spelling:     90\n")
	assert.Contains(t, out, "  Missing:      quick")
	assert.Contains(t, out, "  Misspelled:   'recieve' → 'receive' (0.71)")
	assert.NotContains(t, out, "Extra:")
}

func TestRenderScoreFailed(t *testing.T) {
	var buf bytes.Buffer
	RenderScore(&buf, scoring.ScoreResult{Feedback: "An error occurred while scoring.", Error: "boom"}, false)
	assert.Contains(t, buf.String(), "Score: 0/100 (F)")
	assert.Contains(t, buf.String(), "Error: boom")
}
