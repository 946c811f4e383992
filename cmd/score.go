package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dictascore/internal/output"
	"github.com/dotcommander/dictascore/internal/scoring"
)

var (
	answer     string
	reference  string
	difficulty string
	previous   []int
	question   int
	total      int
	asJSON     bool
	overrides  []string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single answer",
	Long: `Score one typed answer against its reference sentence.

Scoring options from the config file can be overridden per call with
--set key=value, for example --set strictPunctuation=true.

--previous, --question and --total feed the context bonus: learners whose
last three scores average below 60 get +2, and answers in the last 30% of a
test get +1.`,
	Example: `  dictascore score --reference "I can't swim." --answer "I cannot swim"
  dictascore score -a "the brown fox" --reference "the quick brown fox" -d hard -v`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&answer, "answer", "a", "", "The learner's answer")
	scoreCmd.Flags().StringVar(&reference, "reference", "", "The reference sentence")
	scoreCmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "easy, medium or hard (default from config)")
	scoreCmd.Flags().IntSliceVar(&previous, "previous", nil, "Earlier scores in this test, oldest first")
	scoreCmd.Flags().IntVar(&question, "question", 0, "1-based position of this answer in the test")
	scoreCmd.Flags().IntVar(&total, "total", 0, "Number of questions in the test")
	scoreCmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	scoreCmd.Flags().StringArrayVar(&overrides, "set", nil, "Override a scoring option (key=value)")
	_ = scoreCmd.MarkFlagRequired("reference")
	RootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	opts, err := cfg.ScoringOptions()
	if err != nil {
		return err
	}
	engine, err := scoring.New(opts, scoring.WithLogger(logger))
	if err != nil {
		return err
	}
	if len(overrides) > 0 {
		m, err := parseOverrides(overrides)
		if err != nil {
			return err
		}
		if engine, err = engine.WithOverrides(m); err != nil {
			return err
		}
	}

	d := cfg.DefaultDifficulty()
	if difficulty != "" {
		if d, err = scoring.ParseDifficulty(difficulty); err != nil {
			return err
		}
	}

	scorer := scoring.NewContextScorer(engine, cfg.Context.Enabled)
	result := scorer.ScoreWithContext(answer, reference, scoring.Context{
		Difficulty:     d,
		PreviousScores: previous,
		QuestionIndex:  question,
		TotalQuestions: total,
	})

	out := cmd.OutOrStdout()
	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	output.RenderScore(out, result, cfg.Verbose)
	return nil
}

// parseOverrides turns key=value pairs into a scoring option map. Values
// that parse as booleans or numbers are passed typed.
func parseOverrides(pairs []string) (map[string]any, error) {
	m := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", pair)
		}
		value = strings.TrimSpace(value)
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			m[key] = f
		} else if b, err := strconv.ParseBool(value); err == nil {
			m[key] = b
		} else {
			m[key] = value
		}
	}
	return m, nil
}
