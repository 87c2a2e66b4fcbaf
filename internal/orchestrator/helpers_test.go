package orchestrator

import (
	"context"
	"fmt"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/engine"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// fakeEngine implements engine.Engine through a configurable function and
// records the virtual files it was asked to lint.
type fakeEngine struct {
	lint func(ctx context.Context, markup string, file engine.VirtualFile) (*engine.Result, error)
}

func (f *fakeEngine) Lint(ctx context.Context, markup string, file engine.VirtualFile) (*engine.Result, error) {
	return f.lint(ctx, markup, file)
}

// fakeTranslator returns fixed variations or an error.
type fakeTranslator struct {
	variations []translate.Variation
	err        error
}

func (f *fakeTranslator) ParseTemplate(_ context.Context, _, _ string, _ translate.Options) ([]translate.Variation, error) {
	return f.variations, f.err
}

// markedDiv renders a div carrying an element offset marker.
func markedDiv(start, end int) string {
	return fmt.Sprintf(`<div data-ngx-html-bridge-start-offset="%d" data-ngx-html-bridge-end-offset="%d">`, start, end)
}

// markerEngine reports a single violation whose raw text is the whole markup.
func markerEngine(message string) *fakeEngine {
	return &fakeEngine{
		lint: func(_ context.Context, markup string, file engine.VirtualFile) (*engine.Result, error) {
			return &engine.Result{
				FilePath:   file.Dir + "/" + file.Name,
				SourceCode: markup,
				Violations: []engine.Violation{{
					RuleID:   "test-rule",
					Severity: "error",
					Message:  message,
					Line:     1,
					Col:      1,
					Raw:      markup,
				}},
			}, nil
		},
	}
}

// variationsWithOffsets creates one variation per (start, start+4) pair.
func variationsWithOffsets(starts ...int) []translate.Variation {
	vs := make([]translate.Variation, len(starts))
	for i, s := range starts {
		vs[i] = translate.Variation{
			Kind:      fmt.Sprintf("v%d", i),
			Annotated: markedDiv(s, s+4) + "</div>",
		}
	}
	return vs
}
