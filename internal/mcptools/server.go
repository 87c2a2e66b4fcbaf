package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients; the CLI overrides it with the build
// version.
var Version = "dev"

// NewLintMCPServer creates an MCP server with the lint_template and
// lint_template_file tools registered.
func NewLintMCPServer(svc *LintService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "ngx-markuplint",
		Version: Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lint_template",
		Description: "Lint an Angular template passed as text. Every structural variation of the template is checked and findings are reported once, located by character offsets into the template.",
	}, svc.LintTemplate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lint_template_file",
		Description: "Lint an Angular template file. Findings are located by character offsets and line/column in the file.",
	}, svc.LintTemplateFile)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the MCP server over streamable HTTP on addr until ctx is
// cancelled.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
