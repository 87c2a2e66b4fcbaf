package orchestrator

import (
	"context"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// Scheduler picks how the variations of one template are linted: in the
// caller's goroutine for small batches, on the worker pool for large ones.
type Scheduler struct {
	runner     *Runner
	pool       *Pool // nil disables the parallel path
	threshold  int
	onProgress func(ProgressEvent)
}

// NewScheduler creates a Scheduler. Batches of at least threshold variations
// go to pool when pool is non-nil.
func NewScheduler(runner *Runner, pool *Pool, threshold int, onProgress func(ProgressEvent)) *Scheduler {
	return &Scheduler{
		runner:     runner,
		pool:       pool,
		threshold:  threshold,
		onProgress: onProgress,
	}
}

// Parallel reports whether n variations would be linted on the pool.
func (s *Scheduler) Parallel(n int) bool {
	return s.pool != nil && n >= s.threshold
}

// RunAll lints every variation and returns the deduplicated results.
// The sequential path keeps variation order and stops at the first error.
func (s *Scheduler) RunAll(ctx context.Context, templatePath string, variations []translate.Variation) ([]Result, error) {
	var (
		collected []*Result
		err       error
	)
	if s.Parallel(len(variations)) {
		collected, err = s.pool.Run(ctx, templatePath, variations)
	} else {
		collected, err = s.runSequential(ctx, templatePath, variations)
	}
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(collected))
	for _, r := range collected {
		if r != nil {
			results = append(results, *r)
		}
	}
	return Dedupe(results), nil
}

func (s *Scheduler) runSequential(ctx context.Context, templatePath string, variations []translate.Variation) ([]*Result, error) {
	results := make([]*Result, 0, len(variations))
	for i, v := range variations {
		s.emit(ProgressEvent{Template: templatePath, Variation: i, Kind: v.Kind, Status: ProgressWorking})

		res, err := s.runner.RunOne(ctx, templatePath, v)
		if err != nil {
			s.emit(ProgressEvent{Template: templatePath, Variation: i, Kind: v.Kind, Status: ProgressFailed, Message: err.Error()})
			return nil, err
		}
		if res == nil {
			s.emit(ProgressEvent{Template: templatePath, Variation: i, Kind: v.Kind, Status: ProgressDropped})
			continue
		}
		s.emit(ProgressEvent{Template: templatePath, Variation: i, Kind: v.Kind, Status: ProgressComplete})
		results = append(results, res)
	}
	return results, nil
}

func (s *Scheduler) emit(ev ProgressEvent) {
	if s.onProgress != nil {
		s.onProgress(ev)
	}
}
