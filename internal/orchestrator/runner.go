package orchestrator

import (
	"context"
	"fmt"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/engine"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/offset"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// RunFunc lints one variation. A nil Result with a nil error means the
// variation has nothing to report.
type RunFunc func(ctx context.Context, templatePath string, v translate.Variation) (*Result, error)

// Runner lints single variations with an engine.
type Runner struct {
	engine engine.Engine
}

// NewRunner creates a Runner backed by eng.
func NewRunner(eng engine.Engine) *Runner {
	return &Runner{engine: eng}
}

// RunOne lints v under the identity of the template at templatePath and
// maps every finding back into the template. It returns nil when the engine
// produced no result or no findings.
func (r *Runner) RunOne(ctx context.Context, templatePath string, v translate.Variation) (*Result, error) {
	res, err := r.engine.Lint(ctx, v.Annotated, engine.VirtualFileFor(templatePath))
	if err != nil {
		return nil, fmt.Errorf("runner: %s: %w", templatePath, err)
	}
	if res == nil {
		return nil, nil
	}

	violations := recoverViolations(res.Violations, v.Annotated)
	if len(violations) == 0 {
		return nil, nil
	}

	return &Result{
		FilePath:   res.FilePath,
		SourceCode: res.SourceCode,
		FixedCode:  res.FixedCode,
		Status:     res.Status,
		Violations: violations,
		Variation:  v,
	}, nil
}

// recoverViolations locates every finding in the original template. A miss
// keeps the finding with both offsets at 0.
func recoverViolations(vs []engine.Violation, markup string) []Violation {
	out := make([]Violation, 0, len(vs))
	for _, v := range vs {
		o, ok := offset.Recover(v.Raw, v.Col, markup)
		if !ok {
			o = offset.Offsets{}
		}
		out = append(out, Violation{
			Violation:   v,
			StartOffset: o.Start,
			EndOffset:   o.End,
		})
	}
	return out
}
