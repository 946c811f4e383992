package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dictascore/internal/grading"
	"github.com/dotcommander/dictascore/internal/outputters"
)

var (
	failUnder      int
	useBaseline    bool
	createBaseline bool
	baselinePath   string
)

var gradeCmd = &cobra.Command{
	Use:   "grade [paths...]",
	Short: "Grade answer sheets",
	Long: `Grade answer sheets and report per-learner and class results.

Paths may name sheet files or directories. Without paths, every sheet matching
the configured patterns below --root is graded. Sheets that fail schema
validation are reported and skipped.

Exit status is 1 when a sheet could not be graded or, with --fail-under, when
the class average is below the threshold.`,
	Args: cobra.ArbitraryArgs,
	RunE: runGrade,
}

func init() {
	addGradeFlags(gradeCmd)
	RootCmd.AddCommand(gradeCmd)
}

func addGradeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&failUnder, "fail-under", 0, "Exit 1 when the average final score is below this value")
	cmd.Flags().BoolVar(&useBaseline, "baseline", false, "Compare scores against the baseline file")
	cmd.Flags().BoolVar(&createBaseline, "baseline-create", false, "Save the scores of this run as the baseline")
	cmd.Flags().StringVar(&baselinePath, "baseline-path", grading.DefaultBaselinePath, "Baseline file, relative to --root")
}

func runGrade(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	orch, err := grading.NewOrchestrator(cfg, grading.OrchestratorConfig{
		Paths:          args,
		UseBaseline:    useBaseline,
		CreateBaseline: createBaseline,
		BaselinePath:   baselinePath,
	}, logger)
	if err != nil {
		return err
	}

	report, err := orch.Run(cmd.Context())
	if err != nil {
		return err
	}

	factory := outputters.NewDefaultFormatterFactory(cfg).WithWriter(cmd.OutOrStdout())
	if err := outputters.NewOutputterWithFactory(cfg, factory).Format(report, cfg.Format); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}

	if code := gradeExitCode(report, failUnder, createBaseline); code != 0 {
		if !cfg.Quiet && failUnder > 0 && report.GradedSheets > 0 && report.AverageScore() < failUnder {
			fmt.Fprintf(os.Stderr, "average score %d is below --fail-under %d\n", report.AverageScore(), failUnder)
		}
		exitFunc(code)
	}
	return nil
}

// gradeExitCode is 1 when a sheet failed or the average is below failUnder.
// Creating a baseline accepts the current state.
func gradeExitCode(report *grading.Report, failUnder int, creatingBaseline bool) int {
	if creatingBaseline {
		return 0
	}
	if report.FailedSheets > 0 {
		return 1
	}
	if failUnder > 0 && report.GradedSheets > 0 && report.AverageScore() < failUnder {
		return 1
	}
	return 0
}
