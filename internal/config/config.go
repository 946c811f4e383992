package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/dotcommander/dictascore/internal/cue"
	"github.com/dotcommander/dictascore/internal/discovery"
	"github.com/dotcommander/dictascore/internal/project"
	"github.com/dotcommander/dictascore/internal/scoring"
)

// ConfigFiles are probed in order. The search starts in the working
// directory and climbs to the nearest directory holding one of them,
// stopping at a repository boundary.
var ConfigFiles = []string{".dictascorerc.json", ".dictascorerc.yaml", ".dictascorerc.yml"}

// Config represents the dictascore configuration
type Config struct {
	Root        string         `mapstructure:"root" json:"root" yaml:"root"`
	Patterns    []string       `mapstructure:"patterns" json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Exclude     []string       `mapstructure:"exclude" json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Format      string         `mapstructure:"format" json:"format" yaml:"format"`
	Output      string         `mapstructure:"output" json:"output" yaml:"output"`
	Quiet       bool           `mapstructure:"quiet" json:"quiet" yaml:"quiet"`
	Verbose     bool           `mapstructure:"verbose" json:"verbose" yaml:"verbose"`
	Concurrency int            `mapstructure:"concurrency" json:"concurrency" yaml:"concurrency"`
	Parallel    bool           `mapstructure:"parallel" json:"parallel" yaml:"parallel"`
	Difficulty  string         `mapstructure:"difficulty" json:"difficulty" yaml:"difficulty"`
	Scoring     map[string]any `mapstructure:"scoring" json:"scoring,omitempty" yaml:"scoring,omitempty"`
	Context     ContextConfig  `mapstructure:"context" json:"context" yaml:"context"`
	Log         LogConfig      `mapstructure:"log" json:"log" yaml:"log"`
}

// ContextConfig controls the context-aware bonus applied during grading.
type ContextConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`
	Format string `mapstructure:"format" json:"format" yaml:"format"` // text or json
}

// Defaults.
const (
	DefaultFormat      = "console"
	DefaultConcurrency = 10
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

// LoadConfig loads configuration from defaults, the first config file found,
// and DICTASCORE_* environment variables. A non-empty rootPath overrides the
// configured root.
func LoadConfig(rootPath string) (*Config, error) {
	viper.SetDefault("root", ".")
	viper.SetDefault("patterns", discovery.DefaultPatterns)
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("format", DefaultFormat)
	viper.SetDefault("output", "")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", DefaultConcurrency)
	viper.SetDefault("parallel", true)
	viper.SetDefault("difficulty", string(scoring.DifficultyMedium))
	viper.SetDefault("context.enabled", true)
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.format", DefaultLogFormat)

	path, found, err := project.FindFile(".", ConfigFiles...)
	if err != nil {
		return nil, fmt.Errorf("error locating config file: %w", err)
	}
	if found {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	viper.SetEnvPrefix("DICTASCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ScoringOptions builds engine options from the scoring section.
func (c *Config) ScoringOptions() (scoring.Options, error) {
	return scoring.OptionsFromMap(c.Scoring)
}

// DefaultDifficulty returns the parsed default item difficulty.
func (c *Config) DefaultDifficulty() scoring.Difficulty {
	d, err := scoring.ParseDifficulty(c.Difficulty)
	if err != nil {
		return scoring.DifficultyMedium
	}
	return d
}

// Workers is the number of sheets graded at once.
func (c *Config) Workers() int {
	if !c.Parallel {
		return 1
	}
	return max(1, c.Concurrency)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.Format {
	case "console", "json", "markdown", "csv":
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', 'markdown', or 'csv'", config.Format)
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if _, err := scoring.ParseDifficulty(config.Difficulty); err != nil {
		return err
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s. Must be 'text' or 'json'", config.Log.Format)
	}

	if _, err := config.ScoringOptions(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return err
	}
	issues, err := v.ValidateConfig(config)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		msgs := make([]string, len(issues))
		for i, is := range issues {
			msgs[i] = is.Message
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}

	return nil
}

// SaveConfig writes the configuration to path. A .yaml or .yml extension
// selects YAML; anything else is written as JSON.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlv3.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
