// Package cmd implements the dictascore command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/dictascore/internal/config"
	"github.com/dotcommander/dictascore/internal/logging"
)

var (
	rootPath     string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	logLevel     string
)

// exitFunc is swapped out in tests.
var exitFunc = os.Exit

// RootCmd is the dictascore entry point.
var RootCmd = &cobra.Command{
	Use:   "dictascore",
	Short: "Grade dictation answers",
	Long: `dictascore scores typed dictation answers against reference sentences.

It rewards exact and near-miss spellings, word order, completeness and
punctuation, and explains every score. Run it on a single answer with
"dictascore score" or on a directory of answer sheets with "dictascore grade".

Without a subcommand, dictascore grades every answer sheet below --root.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGrade(cmd, args)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", "", "Directory searched for answer sheets (default \".\")")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show every item and the class breakdown")
	RootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "Report format (console|json|markdown|csv)")
	RootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace|debug|info|warn|error)")

	addGradeFlags(RootCmd)
}

// bindFlags lets explicitly set flags override config files and environment.
func bindFlags(cmd *cobra.Command) error {
	flags := map[string]string{
		"quiet":     "quiet",
		"verbose":   "verbose",
		"format":    "format",
		"output":    "output",
		"log.level": "log-level",
	}
	for key, name := range flags {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	return nil
}

// loadConfig loads configuration and builds the logger.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(rootPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading configuration: %w", err)
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating logger: %w", err)
	}
	return cfg, logger, nil
}
