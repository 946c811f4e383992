// Package outputters selects a report formatter from configuration.
package outputters

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/dictascore/internal/config"
	"github.com/dotcommander/dictascore/internal/grading"
	"github.com/dotcommander/dictascore/internal/output"
)

// Formatter renders a grading report.
type Formatter interface {
	Format(report *grading.Report) error
}

// FormatterFactory creates formatters by format name.
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters of the output package.
type DefaultFormatterFactory struct {
	cfg *config.Config
	w   io.Writer
}

// NewDefaultFormatterFactory creates a factory writing to stdout unless the
// config names an output file.
func NewDefaultFormatterFactory(cfg *config.Config) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{cfg: cfg, w: os.Stdout}
}

// WithWriter replaces stdout as the destination.
func (f *DefaultFormatterFactory) WithWriter(w io.Writer) *DefaultFormatterFactory {
	f.w = w
	return f
}

// CreateFormatter returns the formatter for console, json, markdown or csv.
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(f.w, f.cfg.Quiet, f.cfg.Verbose), nil
	case "json":
		return output.NewJSONFormatter(f.w, true, f.cfg.Output), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.w, f.cfg.Verbose, f.cfg.Output), nil
	case "csv":
		return output.NewCSVFormatter(f.w, f.cfg.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates an Outputter using the default formatters.
func NewOutputter(config *config.Config) *Outputter {
	return NewOutputterWithFactory(config, NewDefaultFormatterFactory(config))
}

// NewOutputterWithFactory creates an Outputter with a custom factory.
func NewOutputterWithFactory(config *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  config,
		factory: factory,
	}
}

// Format renders the report in the given format.
func (o *Outputter) Format(report *grading.Report, format string) error {
	if report.StartTime.IsZero() {
		report.StartTime = time.Now()
	}

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(report)
}
