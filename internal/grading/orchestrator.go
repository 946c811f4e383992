// Package grading provides the batch grading orchestration logic.
package grading

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/dotcommander/dictascore/internal/analytics"
	"github.com/dotcommander/dictascore/internal/baseline"
	"github.com/dotcommander/dictascore/internal/config"
	"github.com/dotcommander/dictascore/internal/cue"
	"github.com/dotcommander/dictascore/internal/discovery"
	"github.com/dotcommander/dictascore/internal/scoring"
	"github.com/dotcommander/dictascore/internal/sheet"
	"github.com/dotcommander/dictascore/internal/types"
)

// DefaultBaselinePath is resolved against the configured root.
const DefaultBaselinePath = ".dictascore-baseline.json"

// OrchestratorConfig holds configuration for the grading orchestrator.
type OrchestratorConfig struct {
	// Paths are sheets or directories to grade. Empty means discover
	// below the configured root.
	Paths          []string
	UseBaseline    bool
	CreateBaseline bool
	BaselinePath   string
}

// Orchestrator coordinates discovery, validation and scoring of answer sheets.
type Orchestrator struct {
	cfg       *config.Config
	opts      OrchestratorConfig
	scorer    *scoring.ContextScorer
	validator *cue.Validator
	logger    logrus.FieldLogger
}

// NewOrchestrator creates a grading orchestrator. The scoring engine is
// built from the config's scoring section.
func NewOrchestrator(cfg *config.Config, opts OrchestratorConfig, logger logrus.FieldLogger) (*Orchestrator, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	scoringOpts, err := cfg.ScoringOptions()
	if err != nil {
		return nil, fmt.Errorf("scoring options: %w", err)
	}
	engine, err := scoring.New(scoringOpts, scoring.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	validator := cue.NewValidator()
	if err := validator.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("load schemas: %w", err)
	}
	if opts.BaselinePath == "" {
		opts.BaselinePath = DefaultBaselinePath
	}
	return &Orchestrator{
		cfg:       cfg,
		opts:      opts,
		scorer:    scoring.NewContextScorer(engine, cfg.Context.Enabled),
		validator: validator,
		logger:    logger,
	}, nil
}

// Run executes the full grading workflow. Problems with individual sheets
// are reported on their SheetResult; only discovery failures, baseline
// writes and cancellation abort the run.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	files, err := o.discover()
	if err != nil {
		return nil, err
	}
	o.logger.WithField("sheets", len(files)).Debug("discovered answer sheets")

	baselineFile := o.resolveBaselinePath()
	b, err := o.loadBaseline(baselineFile)
	if err != nil {
		o.logger.WithError(err).Warn("failed to load baseline")
	}

	results := make([]SheetResult, len(files))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(o.cfg.Workers())
	for i, f := range files {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = o.gradeFile(f, b)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("grading interrupted: %w", err)
	}

	report := NewReport(results)
	report.StartTime = start
	report.Duration = time.Since(start)

	if o.opts.CreateBaseline {
		if err := o.saveBaseline(report, baselineFile); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// discover resolves explicit paths, or globs below the root when none are given.
func (o *Orchestrator) discover() ([]discovery.File, error) {
	if len(o.opts.Paths) == 0 {
		files, err := discovery.DiscoverFiles(o.cfg.Root, o.cfg.Patterns, o.cfg.Exclude)
		if err != nil {
			return nil, fmt.Errorf("error discovering answer sheets: %w", err)
		}
		return files, nil
	}

	var files []discovery.File
	for _, path := range o.opts.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := discovery.DiscoverFiles(path, o.cfg.Patterns, o.cfg.Exclude)
			if err != nil {
				return nil, fmt.Errorf("error discovering answer sheets in %s: %w", path, err)
			}
			for _, f := range found {
				f.RelPath = filepath.ToSlash(filepath.Join(path, f.RelPath))
				files = append(files, f)
			}
			continue
		}
		f, err := discovery.LoadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// gradeFile validates one discovered file and grades it when it is sound.
func (o *Orchestrator) gradeFile(f discovery.File, b *baseline.Baseline) SheetResult {
	log := o.logger.WithField("file", f.RelPath)
	res := SheetResult{File: f.RelPath}

	doc, err := cue.ParseDocument(f.Contents)
	if err != nil {
		return o.reject(res, log, fmt.Sprintf("cannot parse answer sheet: %v", err))
	}
	issues, err := o.validator.ValidateSheet(f.RelPath, doc)
	if err != nil {
		return o.reject(res, log, err.Error())
	}
	if types.HasErrors(issues) {
		res.Issues = issues
		log.WithField("issues", len(issues)).Warn("answer sheet failed schema validation")
		return res
	}

	s, err := sheet.Parse(f.Contents)
	if err != nil {
		return o.reject(res, log, err.Error())
	}

	graded := o.GradeSheet(s)
	graded.File = f.RelPath
	graded.Issues = issues
	o.compareBaseline(&graded, s, b)
	log.WithFields(logrus.Fields{
		"student": s.Student,
		"score":   graded.FinalScore,
	}).Debug("graded answer sheet")
	return graded
}

func (o *Orchestrator) reject(res SheetResult, log logrus.FieldLogger, msg string) SheetResult {
	res.Issues = append(res.Issues, types.ValidationError{
		File:     res.File,
		Message:  msg,
		Severity: types.SeverityError,
	})
	log.Warn(msg)
	return res
}

// compareBaseline attaches the change against the remembered score of each item.
func (o *Orchestrator) compareBaseline(res *SheetResult, s *sheet.Sheet, b *baseline.Baseline) {
	if !o.opts.UseBaseline || b.Len() == 0 {
		return
	}
	for i := range res.Items {
		item := &res.Items[i]
		prev, ok := b.Lookup(baselineEntry(s.Student, s.Test, *item))
		if !ok {
			continue
		}
		before := scoring.ScoreResult{Score: prev.Score, IsCorrect: prev.IsCorrect}
		change := analytics.Compare(before, item.Result)
		item.Change = &change
		res.BaselineMatched++
	}
}

// resolveBaselinePath returns the absolute path to the baseline file.
func (o *Orchestrator) resolveBaselinePath() string {
	baselineFile := o.opts.BaselinePath
	if !filepath.IsAbs(baselineFile) {
		baselineFile = filepath.Join(o.cfg.Root, baselineFile)
	}
	return baselineFile
}

// loadBaseline loads the baseline file if baseline mode is enabled.
func (o *Orchestrator) loadBaseline(baselineFile string) (*baseline.Baseline, error) {
	if !o.opts.UseBaseline {
		return nil, nil
	}

	if _, err := os.Stat(baselineFile); err != nil {
		return nil, nil // File doesn't exist, not an error
	}

	return baseline.LoadBaseline(baselineFile)
}

// saveBaseline snapshots the item scores of the report.
func (o *Orchestrator) saveBaseline(report *Report, baselineFile string) error {
	b := baseline.CreateBaseline(BaselineEntries(report))
	if err := b.SaveBaseline(baselineFile); err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}
	report.BaselineCreated = baselineFile
	o.logger.WithFields(logrus.Fields{
		"path":  baselineFile,
		"items": b.Len(),
	}).Info("baseline created")
	return nil
}
