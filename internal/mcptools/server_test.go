package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/engine"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/orchestrator"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// mockLinter is a test double for orchestrator.Linter.
type mockLinter struct {
	results []orchestrator.Result
	err     error

	gotTemplate string
	gotPath     string
	gotOpts     translate.Options
}

func (m *mockLinter) RunAgainstTemplateText(_ context.Context, template, templatePath string, opts translate.Options) ([]orchestrator.Result, error) {
	m.gotTemplate, m.gotPath, m.gotOpts = template, templatePath, opts
	return m.results, m.err
}

func (m *mockLinter) RunAgainstTemplateFile(_ context.Context, templatePath string, opts translate.Options) ([]orchestrator.Result, error) {
	m.gotPath, m.gotOpts = templatePath, opts
	return m.results, m.err
}

func sampleResults() []orchestrator.Result {
	return []orchestrator.Result{{
		Variation: translate.Variation{Kind: "if-true"},
		Violations: []orchestrator.Violation{{
			Violation:   engine.Violation{RuleID: "permitted-contents", Severity: "error", Message: "div is not allowed"},
			StartOffset: 5,
			EndOffset:   16,
		}},
	}}
}

// setupServerClient wires an MCP server and client together using in-memory
// transports.
func setupServerClient(t *testing.T, linter orchestrator.Linter, defaults translate.Options) *mcp.ClientSession {
	t.Helper()

	server := NewLintMCPServer(NewLintService(linter, defaults))
	st, ct := mcp.NewInMemoryTransports()

	ctx := context.Background()
	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
	})
	return session
}

func decodeOutput(t *testing.T, result *mcp.CallToolResult) LintOutput {
	t.Helper()
	require.NotNil(t, result.StructuredContent, "expected structured content")

	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)

	var out LintOutput
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestMCPListTools(t *testing.T) {
	session := setupServerClient(t, &mockLinter{}, translate.Options{})

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)
	assert.Equal(t, []string{"lint_template", "lint_template_file"}, names)
}

func TestMCPLintTemplate(t *testing.T) {
	linter := &mockLinter{results: sampleResults()}
	session := setupServerClient(t, linter, translate.Options{IncludedAttributes: []string{"href"}})

	template := "<ul>\n<div></div></ul>"
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "lint_template",
		Arguments: LintTemplateInput{
			Template:      template,
			TemplatePath:  "src/app/app.component.html",
			NonEmptyItems: []string{"items"},
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := decodeOutput(t, result)
	require.Equal(t, 1, out.Total)
	f := out.Findings[0]
	assert.Equal(t, "div is not allowed", f.Message)
	assert.Equal(t, "permitted-contents", f.RuleID)
	assert.Equal(t, "error", f.Severity)
	assert.Equal(t, 5, f.StartOffset)
	assert.Equal(t, 16, f.EndOffset)
	assert.Equal(t, "if-true", f.VariationKind)
	assert.Equal(t, 2, f.Line)
	assert.Equal(t, 1, f.Col)

	assert.Equal(t, template, linter.gotTemplate)
	assert.Equal(t, "src/app/app.component.html", linter.gotPath)
	assert.Equal(t, translate.Options{IncludedAttributes: []string{"href"}, NonEmptyItems: []string{"items"}}, linter.gotOpts)
}

func TestMCPLintTemplate_NoFindings(t *testing.T) {
	session := setupServerClient(t, &mockLinter{}, translate.Options{})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "lint_template",
		Arguments: LintTemplateInput{Template: "<p></p>", TemplatePath: "a.html"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := decodeOutput(t, result)
	assert.Zero(t, out.Total)
	assert.Empty(t, out.Findings)
}

func TestMCPLintTemplate_MissingPath(t *testing.T) {
	session := setupServerClient(t, &mockLinter{}, translate.Options{})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "lint_template",
		Arguments: LintTemplateInput{Template: "<p></p>"},
	})
	if err != nil {
		return
	}
	assert.True(t, result.IsError)
}

func TestMCPLintTemplate_LinterError(t *testing.T) {
	session := setupServerClient(t, &mockLinter{err: errors.New("translator failed")}, translate.Options{})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "lint_template",
		Arguments: LintTemplateInput{Template: "<p", TemplatePath: "a.html"},
	})
	if err != nil {
		return
	}
	assert.True(t, result.IsError)
}

func TestMCPLintTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.component.html")
	require.NoError(t, os.WriteFile(path, []byte("<ul>\n<div></div></ul>"), 0o644))

	linter := &mockLinter{results: sampleResults()}
	session := setupServerClient(t, linter, translate.Options{})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "lint_template_file",
		Arguments: LintTemplateFileInput{TemplatePath: path},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := decodeOutput(t, result)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, path, out.Findings[0].Path)
	assert.Equal(t, 2, out.Findings[0].Line)
	assert.Equal(t, path, linter.gotPath)
}

func TestMCPLintTemplateFile_Missing(t *testing.T) {
	session := setupServerClient(t, &mockLinter{}, translate.Options{})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "lint_template_file",
		Arguments: LintTemplateFileInput{TemplatePath: filepath.Join(t.TempDir(), "missing.html")},
	})
	if err != nil {
		return
	}
	assert.True(t, result.IsError)
}

func TestLintService_OptionsOverrideDefaults(t *testing.T) {
	svc := NewLintService(&mockLinter{}, translate.Options{
		IncludedAttributes: []string{"href"},
		NonEmptyItems:      []string{"items"},
	})

	assert.Equal(t, translate.Options{IncludedAttributes: []string{"href"}, NonEmptyItems: []string{"items"}}, svc.options(nil, nil))
	assert.Equal(t, translate.Options{IncludedAttributes: []string{}, NonEmptyItems: []string{"items"}}, svc.options([]string{}, nil))
	assert.Equal(t, translate.Options{IncludedAttributes: []string{"src"}, NonEmptyItems: []string{"rows"}}, svc.options([]string{"src"}, []string{"rows"}))
}
