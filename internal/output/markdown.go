package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/dictascore/internal/analytics"
	"github.com/dotcommander/dictascore/internal/grading"
	"github.com/dotcommander/dictascore/internal/scoring"
)

// MarkdownFormatter formats reports as Markdown
type MarkdownFormatter struct {
	w          io.Writer
	verbose    bool
	outputFile string
	now        func() time.Time
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(w io.Writer, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		w:          w,
		verbose:    verbose,
		outputFile: outputFile,
		now:        time.Now,
	}
}

// Format writes a summary table, the distribution and one section per
// sheet. Item feedback is included only in verbose mode.
func (f *MarkdownFormatter) Format(report *grading.Report) error {
	var b strings.Builder

	b.WriteString("# Dictation Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", f.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Duration:** %v\n\n", report.Duration.Round(time.Millisecond))
	b.WriteString(strings.Repeat("-", 50) + "\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Sheets | %d |\n", report.TotalSheets)
	fmt.Fprintf(&b, "| Graded | %d |\n", report.GradedSheets)
	fmt.Fprintf(&b, "| Failed | %d |\n", report.FailedSheets)
	fmt.Fprintf(&b, "| Average Score | %d |\n", report.AverageScore())
	if st := report.Statistics; st != nil {
		fmt.Fprintf(&b, "| Questions | %d |\n", st.TotalQuestions)
		fmt.Fprintf(&b, "| Accuracy | %d%% |\n", st.Accuracy)
	}
	b.WriteString("\n")

	b.WriteString("## Distribution\n\n")
	b.WriteString("| Range | Sheets |\n")
	b.WriteString("|-------|--------|\n")
	for _, bucket := range analytics.Buckets {
		fmt.Fprintf(&b, "| %s | %d |\n", bucket, report.Distribution[bucket])
	}
	b.WriteString("\n")

	b.WriteString("## Sheets\n\n")
	if report.TotalSheets == 0 {
		b.WriteString("*No answer sheets found.*\n\n")
	}
	for _, s := range report.Sheets {
		f.writeSheet(&b, s)
	}

	if len(report.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range report.Suggestions {
			fmt.Fprintf(&b, "- `%s: %v` - %s\n", s.Setting, s.Value, s.Reason)
		}
		b.WriteString("\n")
	}

	return writeOutput(f.w, f.outputFile, []byte(b.String()))
}

func (f *MarkdownFormatter) writeSheet(b *strings.Builder, s grading.SheetResult) {
	fmt.Fprintf(b, "### %s\n\n", strings.TrimPrefix(s.File, "./"))
	if !s.Graded() {
		b.WriteString("Status: ❌ not graded\n\n")
		for _, issue := range s.Issues {
			fmt.Fprintf(b, "- %s", issue.Message)
			if issue.Line > 0 {
				fmt.Fprintf(b, " (line %d)", issue.Line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		return
	}

	fmt.Fprintf(b, "**Student:** %s", s.Student)
	if s.Test != "" {
		fmt.Fprintf(b, " · **Test:** %s", s.Test)
	}
	fmt.Fprintf(b, " · **Score:** %d (%s) · **Correct:** %d/%d\n\n",
		s.FinalScore, scoring.TierFromScore(s.FinalScore), s.CorrectCount, len(s.Items))

	b.WriteString("| # | Difficulty | Score | Answer |\n")
	b.WriteString("|---|------------|-------|--------|\n")
	for _, it := range s.Items {
		answer := escapeCell(it.Answer)
		if !it.Answered {
			answer = "*skipped*"
		}
		fmt.Fprintf(b, "| %d | %s | %d | %s |\n", it.Question, it.Difficulty, it.Result.Score, answer)
	}
	b.WriteString("\n")

	if f.verbose {
		for _, it := range s.Items {
			fmt.Fprintf(b, "- **Q%d:** %s\n", it.Question, it.Result.Feedback)
		}
		b.WriteString("\n")
	}
}

// escapeCell keeps a value inside its table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
