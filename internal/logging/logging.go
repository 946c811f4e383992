// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dotcommander/dictascore/internal/config"
)

// NewLogger returns a logger writing to stderr at the configured level.
func NewLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	return New(cfg, os.Stderr)
}

// New is NewLogger with an explicit destination.
func New(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level := cfg.Level
	if level == "" {
		level = config.DefaultLogLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(lvl)

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return logger, nil
}
