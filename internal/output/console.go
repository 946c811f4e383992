package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/dictascore/internal/analytics"
	"github.com/dotcommander/dictascore/internal/grading"
	"github.com/dotcommander/dictascore/internal/scoring"
	"github.com/dotcommander/dictascore/internal/types"
)

// ConsoleFormatter formats reports for terminal display
type ConsoleFormatter struct {
	w        io.Writer
	quiet    bool
	verbose  bool
	colorize bool
}

// NewConsoleFormatter creates a ConsoleFormatter. Colour is used only when
// w is a terminal.
func NewConsoleFormatter(w io.Writer, quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		w:        w,
		quiet:    quiet,
		verbose:  verbose,
		colorize: isTerminal(w),
	}
}

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

// Format writes one line per sheet, failed sheets with their issues, and a
// summary line. Verbose output adds every item and the class breakdown.
func (f *ConsoleFormatter) Format(report *grading.Report) error {
	if f.quiet {
		return nil
	}

	fmt.Fprintln(f.w)
	for _, s := range report.Sheets {
		if !s.Graded() {
			f.printFailedSheet(s)
			continue
		}
		f.printSheet(s)
	}

	if f.verbose {
		f.printDistribution(report.Distribution)
		f.printAreas(report.Breakdown)
		f.printSuggestions(report.Suggestions)
	}

	f.printSummaryLine(report)
	return nil
}

func (f *ConsoleFormatter) printSheet(s grading.SheetResult) {
	icon, style := scoreIcon(s.FinalScore)
	score := fmt.Sprintf("%3d/100 (%s)", s.FinalScore, scoring.TierFromScore(s.FinalScore))
	line := fmt.Sprintf("%s %s  %s  %s  %d/%d correct",
		f.render(style, icon), s.File, s.Student, f.render(style, score), s.CorrectCount, len(s.Items))
	if s.BaselineMatched > 0 {
		line += "  " + f.render(dimStyle, fmt.Sprintf("%+d vs baseline", baselineDelta(s)))
	}
	fmt.Fprintln(f.w, line)

	if !f.verbose {
		return
	}
	for _, it := range s.Items {
		_, itemStyle := scoreIcon(it.Result.Score)
		answer := it.Answer
		if !it.Answered {
			answer = "(skipped)"
		}
		fmt.Fprintf(f.w, "    Q%-3d %s  %s\n", it.Question, f.render(itemStyle, fmt.Sprintf("%3d", it.Result.Score)), answer)
		fmt.Fprintf(f.w, "         %s\n", f.render(dimStyle, it.Result.Feedback))
		if it.Change != nil {
			fmt.Fprintf(f.w, "         %s\n", f.render(dimStyle, fmt.Sprintf("baseline: %+d", it.Change.ScoreDifference)))
		}
	}
}

func (f *ConsoleFormatter) printFailedSheet(s grading.SheetResult) {
	fmt.Fprintf(f.w, "%s %s\n", f.render(redStyle, "✗"), s.File)
	for _, issue := range s.Issues {
		f.printIssue(issue)
	}
}

// printIssue prints a validation issue with appropriate styling
func (f *ConsoleFormatter) printIssue(issue types.ValidationError) {
	prefix := "    ✘ "
	style := redStyle
	if issue.Severity != types.SeverityError {
		prefix = "    ⚠ "
		style = yellowStyle
	}
	loc := issue.File
	if issue.Line > 0 {
		loc = fmt.Sprintf("%s:%d", issue.File, issue.Line)
	}
	fmt.Fprintf(f.w, "%s%s: %s\n", prefix, f.render(style, loc), issue.Message)
}

func (f *ConsoleFormatter) printDistribution(d analytics.Distribution) {
	fmt.Fprintln(f.w)
	fmt.Fprintln(f.w, f.render(boldStyle, "Distribution:"))
	for _, bucket := range analytics.Buckets {
		n := d[bucket]
		fmt.Fprintf(f.w, "  %-7s %s %d\n", bucket, strings.Repeat("█", n), n)
	}
}

func (f *ConsoleFormatter) printAreas(b analytics.Breakdown) {
	if len(b.WeakAreas) == 0 && len(b.Strengths) == 0 {
		return
	}
	fmt.Fprintln(f.w)
	for _, a := range b.Strengths {
		fmt.Fprintf(f.w, "  %s %s: %d%% correct\n", f.render(greenStyle, "▲"), a.Difficulty, a.Accuracy)
	}
	for _, a := range b.WeakAreas {
		fmt.Fprintf(f.w, "  %s %s: %d%% correct. %s\n", f.render(redStyle, "▼"), a.Difficulty, a.Accuracy, a.Suggestion)
	}
}

func (f *ConsoleFormatter) printSuggestions(suggestions []analytics.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(f.w)
	fmt.Fprintln(f.w, f.render(dimStyle, "Suggestions:"))
	for _, s := range suggestions {
		fmt.Fprintf(f.w, "    💡 %s: %v. %s\n", s.Setting, s.Value, s.Reason)
	}
}

// printSummaryLine prints the final summary line with celebration for a perfect class.
func (f *ConsoleFormatter) printSummaryLine(report *grading.Report) {
	fmt.Fprintln(f.w)

	summaryText := fmt.Sprintf("%d/%d %s graded", report.GradedSheets, report.TotalSheets, pluralizeCount("sheet", report.TotalSheets))
	if report.GradedSheets > 0 {
		summaryText += fmt.Sprintf(", average %d", report.AverageScore())
	}
	if report.FailedSheets > 0 {
		summaryText += fmt.Sprintf(", %d failed", report.FailedSheets)
	}
	if report.BaselineCreated != "" {
		summaryText += ", baseline saved to " + report.BaselineCreated
	}
	summaryText += fmt.Sprintf(" (%s)", formatDuration(report.Duration))

	perfect := report.GradedSheets > 0 && report.FailedSheets == 0 && report.AverageScore() == 100
	switch {
	case f.colorize && perfect:
		printCelebration(f.w, summaryText)
	case report.FailedSheets > 0:
		fmt.Fprintln(f.w, f.render(redStyle, summaryText))
	default:
		fmt.Fprintln(f.w, f.render(greenStyle, summaryText))
	}
}

func (f *ConsoleFormatter) render(style lipgloss.Style, s string) string {
	if !f.colorize {
		return s
	}
	return style.Render(s)
}

// scoreIcon picks the status icon and colour for a score.
func scoreIcon(score int) (string, lipgloss.Style) {
	switch {
	case score >= 90:
		return "✓", greenStyle
	case score >= 60:
		return "~", yellowStyle
	default:
		return "✗", redStyle
	}
}

// baselineDelta sums the score changes of items found in the baseline.
func baselineDelta(s grading.SheetResult) int {
	delta := 0
	for _, it := range s.Items {
		if it.Change != nil {
			delta += it.Change.ScoreDifference
		}
	}
	return delta
}

// pluralizeCount returns singular or plural form based on count.
func pluralizeCount(s string, count int) string {
	if count == 1 {
		return s
	}
	return s + "s"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
