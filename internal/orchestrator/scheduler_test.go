package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/engine"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/offset"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

func findings(results []Result) []offset.Offsets {
	var out []offset.Offsets
	for _, r := range results {
		for _, v := range r.Violations {
			out = append(out, v.Offsets())
		}
	}
	return out
}

func TestScheduler_Parallel_Threshold(t *testing.T) {
	runner := NewRunner(markerEngine("m"))
	pool := NewPool(2, runner.RunOne, nil)
	defer pool.Close()

	s := NewScheduler(runner, pool, DefaultParallelThreshold, nil)
	assert.False(t, s.Parallel(127))
	assert.True(t, s.Parallel(128))
	assert.True(t, s.Parallel(1000))

	noPool := NewScheduler(runner, nil, DefaultParallelThreshold, nil)
	assert.False(t, noPool.Parallel(1000))
}

func TestScheduler_RunAll_SequentialAndParallelAgree(t *testing.T) {
	starts := make([]int, 200)
	for i := range starts {
		starts[i] = (i % 50) * 10
	}
	variations := variationsWithOffsets(starts...)

	runner := NewRunner(markerEngine("m"))
	sequential, err := NewScheduler(runner, nil, DefaultParallelThreshold, nil).
		RunAll(context.Background(), "a.html", variations)
	require.NoError(t, err)

	pool := NewPool(4, runner.RunOne, nil)
	defer pool.Close()
	parallel, err := NewScheduler(runner, pool, DefaultParallelThreshold, nil).
		RunAll(context.Background(), "a.html", variations)
	require.NoError(t, err)

	assert.Len(t, sequential, 50)
	assert.Len(t, parallel, 50)
	assert.ElementsMatch(t, findings(sequential), findings(parallel))
}

func TestScheduler_RunAll_SequentialKeepsVariationOrder(t *testing.T) {
	s := NewScheduler(NewRunner(markerEngine("m")), nil, DefaultParallelThreshold, nil)

	results, err := s.RunAll(context.Background(), "a.html", variationsWithOffsets(30, 10, 30, 20))
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "v0", results[0].Variation.Kind)
	assert.Equal(t, "v1", results[1].Variation.Kind)
	assert.Equal(t, "v3", results[2].Variation.Kind)
}

func TestScheduler_RunAll_SequentialStopsAtFirstError(t *testing.T) {
	boom := errors.New("engine crashed")
	calls := 0
	eng := &fakeEngine{lint: func(ctx context.Context, markup string, file engine.VirtualFile) (*engine.Result, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return markerEngine("m").Lint(ctx, markup, file)
	}}

	s := NewScheduler(NewRunner(eng), nil, DefaultParallelThreshold, nil)
	_, err := s.RunAll(context.Background(), "a.html", variationsWithOffsets(0, 10, 20))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestScheduler_RunAll_ParallelSkipsFailedVariations(t *testing.T) {
	eng := &fakeEngine{lint: func(ctx context.Context, markup string, file engine.VirtualFile) (*engine.Result, error) {
		if markup == markedDiv(10, 14)+"</div>" {
			return nil, errors.New("engine crashed")
		}
		return markerEngine("m").Lint(ctx, markup, file)
	}}
	runner := NewRunner(eng)
	pool := NewPool(2, runner.RunOne, nil)
	defer pool.Close()

	s := NewScheduler(runner, pool, 0, nil)
	results, err := s.RunAll(context.Background(), "a.html", variationsWithOffsets(0, 10, 20))
	require.NoError(t, err)
	assert.ElementsMatch(t, []offset.Offsets{{Start: 0, End: 4}, {Start: 20, End: 24}}, findings(results))
}

func TestScheduler_RunAll_DropsAbsentResults(t *testing.T) {
	eng := &fakeEngine{lint: func(ctx context.Context, markup string, file engine.VirtualFile) (*engine.Result, error) {
		if markup == markedDiv(10, 14)+"</div>" {
			return &engine.Result{SourceCode: markup, Status: true}, nil
		}
		return markerEngine("m").Lint(ctx, markup, file)
	}}

	s := NewScheduler(NewRunner(eng), nil, DefaultParallelThreshold, nil)
	results, err := s.RunAll(context.Background(), "a.html", variationsWithOffsets(0, 10))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v0", results[0].Variation.Kind)
}

func TestScheduler_RunAll_Empty(t *testing.T) {
	s := NewScheduler(NewRunner(markerEngine("m")), nil, DefaultParallelThreshold, nil)
	results, err := s.RunAll(context.Background(), "a.html", []translate.Variation{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScheduler_RunAll_SequentialProgress(t *testing.T) {
	var statuses []ProgressStatus
	s := NewScheduler(NewRunner(markerEngine("m")), nil, DefaultParallelThreshold, func(ev ProgressEvent) {
		statuses = append(statuses, ev.Status)
	})

	_, err := s.RunAll(context.Background(), "a.html", variationsWithOffsets(0))
	require.NoError(t, err)
	assert.Equal(t, []ProgressStatus{ProgressWorking, ProgressComplete}, statuses)
}
