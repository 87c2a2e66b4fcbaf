package orchestrator

import (
	"context"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/engine"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/offset"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// Violation is an engine finding located in the original template source.
// StartOffset and EndOffset are both 0 when the location is unknown.
type Violation struct {
	engine.Violation
	StartOffset int `json:"startOffset"`
	EndOffset   int `json:"endOffset"`
}

// Offsets returns the recovered location of v.
func (v Violation) Offsets() offset.Offsets {
	return offset.Offsets{Start: v.StartOffset, End: v.EndOffset}
}

// Result is the lint outcome of one variation. Violations is never empty.
type Result struct {
	FilePath   string              `json:"filePath"`
	SourceCode string              `json:"sourceCode"`
	FixedCode  string              `json:"fixedCode"`
	Status     bool                `json:"status"`
	Violations []Violation         `json:"violations"`
	Variation  translate.Variation `json:"variation"`
}

// Linter lints Angular templates and reports deduplicated results.
type Linter interface {
	// RunAgainstTemplateText lints template as if it were stored at templatePath.
	RunAgainstTemplateText(ctx context.Context, template, templatePath string, opts translate.Options) ([]Result, error)

	// RunAgainstTemplateFile reads and lints the template at templatePath.
	RunAgainstTemplateFile(ctx context.Context, templatePath string, opts translate.Options) ([]Result, error)
}

// ProgressEvent is emitted once per variation state change.
type ProgressEvent struct {
	Template  string
	Variation int // index into the template's variation list
	Kind      string
	Status    ProgressStatus
	Message   string
}

// ProgressStatus is the state of one variation.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressDropped  ProgressStatus = "dropped"
	ProgressFailed   ProgressStatus = "failed"
)
