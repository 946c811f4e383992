package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/dictascore/internal/analytics"
	"github.com/dotcommander/dictascore/internal/grading"
	"github.com/dotcommander/dictascore/internal/scoring"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [paths...]",
	Short: "Show class statistics across all answer sheets",
	Long: `Grades every answer sheet and prints a class summary: score
distribution, accuracy by difficulty, the learners who need the most help,
and scoring settings worth trying.`,
	RunE: runSummary,
}

func init() {
	RootCmd.AddCommand(summaryCmd)
}

// ClassSummary holds aggregated data for the summary report
type ClassSummary struct {
	Report      *grading.Report
	Lowest      []StudentScore
	Trend       string
	Consistency float64
}

// StudentScore is one graded sheet, for sorting
type StudentScore struct {
	File    string
	Student string
	Score   int
	Tier    string
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	orch, err := grading.NewOrchestrator(cfg, grading.OrchestratorConfig{Paths: args}, logger)
	if err != nil {
		return err
	}
	report, err := orch.Run(cmd.Context())
	if err != nil {
		return err
	}

	printSummaryReport(cmd.OutOrStdout(), buildSummary(report))
	return nil
}

func buildSummary(report *grading.Report) *ClassSummary {
	s := &ClassSummary{Report: report}
	for _, sheet := range report.Sheets {
		if !sheet.Graded() {
			continue
		}
		s.Lowest = append(s.Lowest, StudentScore{
			File:    sheet.File,
			Student: sheet.Student,
			Score:   sheet.FinalScore,
			Tier:    scoring.TierFromScore(sheet.FinalScore),
		})
	}
	sort.SliceStable(s.Lowest, func(i, j int) bool {
		return s.Lowest[i].Score < s.Lowest[j].Score
	})

	finals := report.FinalScores()
	s.Trend = analytics.Trend(finals)
	s.Consistency = analytics.Consistency(finals)
	return s
}

// printStyles holds all the styles used in the summary report.
type printStyles struct {
	header lipgloss.Style
	tierA  lipgloss.Style
	tierB  lipgloss.Style
	tierC  lipgloss.Style
	tierDF lipgloss.Style
	dim    lipgloss.Style
}

// newPrintStyles creates a new set of print styles.
func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		tierA:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		tierB:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		tierC:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		tierDF: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func printSummaryReport(w io.Writer, s *ClassSummary) {
	styles := newPrintStyles()

	printReportHeader(w, styles)
	printSheetCounts(w, s)
	printScoreDistribution(w, s, styles)
	printDifficulty(w, s, styles)
	printLowestScoring(w, s, styles)
	printSuggestions(w, s, styles)
	printReportFooter(w, styles)
}

func printReportHeader(w io.Writer, styles printStyles) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.header.Render("╔═══════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(w, styles.header.Render("║                  DICTATION CLASS SUMMARY                  ║"))
	fmt.Fprintln(w, styles.header.Render("╠═══════════════════════════════════════════════════════════╣"))
}

func printSheetCounts(w io.Writer, s *ClassSummary) {
	r := s.Report
	fmt.Fprintf(w, "║ Sheets Graded: %-4d │ Failed: %-4d │ Average: %-13d ║\n",
		r.GradedSheets, r.FailedSheets, r.AverageScore())
	if st := r.Statistics; st != nil {
		fmt.Fprintf(w, "║ Questions: %-6d │ Correct: %-6d │ Accuracy: %3d%%         ║\n",
			st.TotalQuestions, st.CorrectAnswers, st.Accuracy)
	}
	fmt.Fprintf(w, "║ Trend: %-18s │ Consistency: %5.1f                ║\n", s.Trend, s.Consistency)
}

func printScoreDistribution(w io.Writer, s *ClassSummary, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ SCORE DISTRIBUTION                                        ║")

	graded := s.Report.GradedSheets
	total := float64(graded)
	if total == 0 {
		total = 1
	}
	bucketStyles := map[string]struct {
		style lipgloss.Style
		color string
	}{
		analytics.Bucket90: {styles.tierA, "10"},
		analytics.Bucket80: {styles.tierB, "12"},
		analytics.Bucket70: {styles.tierC, "3"},
		analytics.Bucket60: {styles.tierDF, "9"},
		analytics.Bucket0:  {styles.tierDF, "9"},
	}
	for _, bucket := range analytics.Buckets {
		n := s.Report.Distribution[bucket]
		bs := bucketStyles[bucket]
		fmt.Fprintf(w, "║   %s: %-4d (%5.1f%%)  %s                       ║\n",
			bs.style.Render(fmt.Sprintf("%-6s", bucket)), n, float64(n)/total*100,
			renderBar(n, graded, bs.color))
	}
}

func printDifficulty(w io.Writer, s *ClassSummary, styles printStyles) {
	b := s.Report.Breakdown
	if len(b.ByDifficulty) == 0 {
		return
	}
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ BY DIFFICULTY                                             ║")
	for _, d := range []scoring.Difficulty{scoring.DifficultyEasy, scoring.DifficultyMedium, scoring.DifficultyHard} {
		st, ok := b.ByDifficulty[d]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "║   %-7s %4d questions │ %3d%% correct │ avg %3d       ║\n",
			d, st.Total, st.Accuracy, st.AverageScore)
	}
	for _, a := range b.WeakAreas {
		fmt.Fprintf(w, "║   %s %-52s ║\n", styles.tierDF.Render("▼"), a.Suggestion)
	}
}

func printLowestScoring(w io.Writer, s *ClassSummary, styles printStyles) {
	if len(s.Lowest) == 0 {
		return
	}
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ NEEDS THE MOST HELP                                       ║")

	for i, st := range s.Lowest {
		if i >= 5 {
			break
		}
		tierStyle := styles.tierDF
		switch st.Tier {
		case "A":
			tierStyle = styles.tierA
		case "B":
			tierStyle = styles.tierB
		case "C":
			tierStyle = styles.tierC
		}
		name := st.Student
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		file := st.File
		if len(file) > 25 {
			file = "..." + file[len(file)-22:]
		}
		fmt.Fprintf(w, "║   %s %-20s %-25s %s %3d ║\n",
			styles.dim.Render(fmt.Sprintf("%d.", i+1)),
			name,
			file,
			tierStyle.Render(st.Tier),
			st.Score)
	}
}

func printSuggestions(w io.Writer, s *ClassSummary, styles printStyles) {
	if len(s.Report.Suggestions) == 0 {
		return
	}
	fmt.Fprintln(w, styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintln(w, "║ SUGGESTED SETTINGS                                        ║")
	for _, sug := range s.Report.Suggestions {
		fmt.Fprintf(w, "║   %s %v\n", styles.dim.Render(sug.Setting+":"), sug.Value)
		fmt.Fprintf(w, "║     %s\n", sug.Reason)
	}
}

func printReportFooter(w io.Writer, styles printStyles) {
	fmt.Fprintln(w, styles.header.Render("╚═══════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(w)
}

func renderBar(count, total int, color string) string {
	if total == 0 {
		return ""
	}
	barWidth := 10
	filled := (count * barWidth) / total
	if count > 0 && filled == 0 {
		filled = 1
	}
	bar := ""
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	for i := 0; i < filled; i++ {
		bar += style.Render("█")
	}
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	for i := filled; i < barWidth; i++ {
		bar += dimStyle.Render("░")
	}
	return bar
}
