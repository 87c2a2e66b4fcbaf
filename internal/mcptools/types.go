package mcptools

import "github.com/nagashimam/ngx-html-bridge-markuplint/internal/report"

// --- MCP Tool Input Types ---
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// LintTemplateInput is the input for the lint_template MCP tool.
type LintTemplateInput struct {
	Template           string   `json:"template" jsonschema:"the Angular template source to lint"`
	TemplatePath       string   `json:"templatePath" jsonschema:"path the template is linted as; its directory selects the lint configuration"`
	IncludedAttributes []string `json:"includedAttributes,omitempty" jsonschema:"attributes that get their own offset markers (default: project config)"`
	NonEmptyItems      []string `json:"nonEmptyItems,omitempty" jsonschema:"expressions assumed to be non-empty lists (default: project config)"`
}

// LintTemplateFileInput is the input for the lint_template_file MCP tool.
type LintTemplateFileInput struct {
	TemplatePath       string   `json:"templatePath" jsonschema:"path of the template file to lint"`
	IncludedAttributes []string `json:"includedAttributes,omitempty" jsonschema:"attributes that get their own offset markers (default: project config)"`
	NonEmptyItems      []string `json:"nonEmptyItems,omitempty" jsonschema:"expressions assumed to be non-empty lists (default: project config)"`
}

// LintOutput is the result of both lint tools. Offsets index characters of
// the template; 0/0 means the location is unknown.
type LintOutput struct {
	Findings []report.Finding `json:"findings"`
	Total    int              `json:"total"`
}
