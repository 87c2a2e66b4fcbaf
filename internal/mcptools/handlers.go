package mcptools

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/orchestrator"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/report"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// LintService handles MCP tool calls. It wraps a Linter and the project's
// default translator options.
type LintService struct {
	linter   orchestrator.Linter
	defaults translate.Options
}

// NewLintService creates a LintService with the given linter and defaults.
func NewLintService(linter orchestrator.Linter, defaults translate.Options) *LintService {
	return &LintService{linter: linter, defaults: defaults}
}

// LintTemplate lints template text passed inline.
func (s *LintService) LintTemplate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LintTemplateInput,
) (*mcp.CallToolResult, LintOutput, error) {
	if input.TemplatePath == "" {
		return nil, LintOutput{}, fmt.Errorf("templatePath is required")
	}

	opts := s.options(input.IncludedAttributes, input.NonEmptyItems)
	results, err := s.linter.RunAgainstTemplateText(ctx, input.Template, input.TemplatePath, opts)
	if err != nil {
		return nil, LintOutput{}, err
	}
	return nil, output(input.TemplatePath, input.Template, results), nil
}

// LintTemplateFile lints a template stored on disk.
func (s *LintService) LintTemplateFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LintTemplateFileInput,
) (*mcp.CallToolResult, LintOutput, error) {
	if input.TemplatePath == "" {
		return nil, LintOutput{}, fmt.Errorf("templatePath is required")
	}

	text, err := os.ReadFile(input.TemplatePath)
	if err != nil {
		return nil, LintOutput{}, fmt.Errorf("cannot read templatePath: %w", err)
	}

	opts := s.options(input.IncludedAttributes, input.NonEmptyItems)
	results, err := s.linter.RunAgainstTemplateFile(ctx, input.TemplatePath, opts)
	if err != nil {
		return nil, LintOutput{}, err
	}
	return nil, output(input.TemplatePath, string(text), results), nil
}

// options overrides the defaults with the lists given in a call.
func (s *LintService) options(included, nonEmpty []string) translate.Options {
	opts := s.defaults
	if included != nil {
		opts.IncludedAttributes = included
	}
	if nonEmpty != nil {
		opts.NonEmptyItems = nonEmpty
	}
	return opts
}

func output(path, text string, results []orchestrator.Result) LintOutput {
	findings := report.Flatten(report.FileResult{
		Source:  report.Source{Path: path, Text: text},
		Results: results,
	})
	if findings == nil {
		findings = []report.Finding{}
	}
	return LintOutput{Findings: findings, Total: len(findings)}
}
