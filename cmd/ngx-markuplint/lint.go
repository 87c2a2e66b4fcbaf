package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/config"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/engine"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/logging"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/orchestrator"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/report"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

type lintOptions struct {
	format             string
	jobs               int
	threshold          int
	workers            int
	includedAttributes []string
	nonEmptyItems      []string
	components         bool
	noColor            bool
}

func newLintCmd(root *rootOptions) *cobra.Command {
	opts := &lintOptions{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint Angular templates",
		Long: `Lint .html templates, or every .html template below a directory. With
--components, Angular component sources are scanned too and their inline
templates are linted in place.

Exits with status 1 when anything is reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			applyLintFlags(cmd, cfg, opts)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"."}
			}
			return runLint(cmd, cfg, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", config.FormatText, "report format: text or json")
	f.IntVarP(&opts.jobs, "jobs", "j", 4, "templates linted concurrently")
	f.IntVar(&opts.threshold, "threshold", orchestrator.DefaultParallelThreshold, "variation count from which a template is linted on the worker pool")
	f.IntVar(&opts.workers, "workers", orchestrator.DefaultWorkers(), "worker pool size (0 lints sequentially)")
	f.StringSliceVar(&opts.includedAttributes, "included-attribute", nil, "attribute that gets its own offset markers (repeatable)")
	f.StringSliceVar(&opts.nonEmptyItems, "non-empty-item", nil, "expression assumed to be a non-empty list (repeatable)")
	f.BoolVar(&opts.components, "components", false, "also scan .ts component sources for templates")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	return cmd
}

// applyLintFlags lets flags set on the command line override cfg.
func applyLintFlags(cmd *cobra.Command, cfg *config.ProjectConfig, opts *lintOptions) {
	f := cmd.Flags()
	if f.Changed("format") {
		cfg.Format = opts.format
	}
	if f.Changed("threshold") {
		cfg.ParallelThreshold = opts.threshold
	}
	if f.Changed("workers") {
		w := opts.workers
		cfg.Workers = &w
	}
	if f.Changed("included-attribute") {
		cfg.IncludedAttributes = opts.includedAttributes
	}
	if f.Changed("non-empty-item") {
		cfg.NonEmptyItems = opts.nonEmptyItems
	}
}

func runLint(cmd *cobra.Command, cfg *config.ProjectConfig, opts *lintOptions, paths []string) error {
	logger := logging.GetLogger("lint")
	start := time.Now()
	defer logging.LogDuration(logger, start, "lint")

	targets, err := collectTargets(paths, opts.components)
	if err != nil {
		return err
	}
	logger.Info().Int("templates", len(targets)).Str("config", cfg.Path).Msg("linting")

	pipeline := orchestrator.NewPipeline(
		cfg.Pipeline(),
		translate.NewCommandTranslator(cfg.TranslatorCommand()),
		engine.NewCommandEngine(cfg.EngineCommand()),
	)

	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for ev := range pipeline.Progress() {
			log.Debug().Msg(orchestrator.FormatProgress(ev))
		}
	}()

	files, err := lintTargets(cmd.Context(), pipeline, cfg.Options(), targets, opts.jobs)
	pipeline.Close()
	<-progressDone
	if err != nil {
		return err
	}

	colorize := !opts.noColor && !color.NoColor
	if err := report.Write(cmd.OutOrStdout(), cfg.OutputFormat(), files, colorize); err != nil {
		return err
	}
	if report.Count(files) > 0 {
		return errFindings
	}
	return nil
}

// lintTargets lints up to jobs targets at a time. Reports keep target order.
func lintTargets(ctx context.Context, linter orchestrator.Linter, opts translate.Options, targets []target, jobs int) ([]report.FileResult, error) {
	files := make([]report.FileResult, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))

	for i, t := range targets {
		g.Go(func() error {
			var (
				results []orchestrator.Result
				err     error
			)
			if t.inline {
				results, err = linter.RunAgainstTemplateText(ctx, t.text, t.templatePath, opts)
			} else {
				results, err = linter.RunAgainstTemplateFile(ctx, t.templatePath, opts)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", t.source.Path, err)
			}
			files[i] = report.FileResult{Source: t.source, Results: results}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
