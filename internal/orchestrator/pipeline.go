package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/engine"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/logging"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// Compile-time interface check.
var _ Linter = (*Pipeline)(nil)

// Pipeline implements Linter. It translates a template into variations,
// hands them to a Scheduler and reports progress through a
// ProgressReporter. The worker pool it owns is shared by all calls.
type Pipeline struct {
	cfg        Config
	translator translate.Translator
	progress   *ProgressReporter
	pool       *Pool
	scheduler  *Scheduler
	log        zerolog.Logger
}

// NewPipeline creates a Pipeline wired with a Runner over eng, a Scheduler
// and, when cfg.Workers > 0, a worker pool. The pool's workers start on the
// first large template.
func NewPipeline(cfg Config, tr translate.Translator, eng engine.Engine) *Pipeline {
	progress := NewProgressReporter()
	runner := NewRunner(eng)

	var pool *Pool
	if cfg.Workers > 0 {
		pool = NewPool(cfg.Workers, runner.RunOne, progress.Emit)
	}

	return &Pipeline{
		cfg:        cfg,
		translator: tr,
		progress:   progress,
		pool:       pool,
		scheduler:  NewScheduler(runner, pool, cfg.ParallelThreshold, progress.Emit),
		log:        logging.GetLogger("pipeline"),
	}
}

// RunAgainstTemplateText lints template as if it were stored at templatePath.
func (p *Pipeline) RunAgainstTemplateText(ctx context.Context, template, templatePath string, opts translate.Options) ([]Result, error) {
	variations, err := p.translator.ParseTemplate(ctx, template, templatePath, opts)
	if err != nil {
		return nil, fmt.Errorf("pipeline: translate %s: %w", templatePath, err)
	}
	return p.scheduler.RunAll(ctx, templatePath, variations)
}

// RunAgainstTemplateFile reads and lints the template at templatePath.
func (p *Pipeline) RunAgainstTemplateFile(ctx context.Context, templatePath string, opts translate.Options) ([]Result, error) {
	variations, err := translate.ParseTemplateFile(ctx, p.translator, templatePath, opts)
	if err != nil {
		return nil, fmt.Errorf("pipeline: translate %s: %w", templatePath, err)
	}
	return p.scheduler.RunAll(ctx, templatePath, variations)
}

// Progress returns a channel that emits progress events.
func (p *Pipeline) Progress() <-chan ProgressEvent {
	return p.progress.Subscribe()
}

// Close stops the worker pool and closes the progress channel. Callers
// should invoke this once every run has returned.
func (p *Pipeline) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
	p.progress.Close()
	if n := p.progress.Dropped(); n > 0 {
		p.log.Debug().Int("events", n).Msg("progress events dropped")
	}
}
