package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dictascore/internal/config"
	"github.com/dotcommander/dictascore/internal/output"
)

var (
	configPath  string
	configForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dictascore configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to a file",
	Long: `Writes the configuration currently in effect (defaults, config file and
DICTASCORE_* environment variables) to .dictascorerc.json, or to --path.
A .yaml or .yml path writes YAML.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dictascore version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dictascore %s\n", output.Version)
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configPath, "path", config.ConfigFiles[0], "File to write")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(versionCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	}
	return nil
}
