package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/scaffold"
)

// mcpConfig represents the structure of a .mcp.json file.
type mcpConfig struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
}

// mcpEntry is the MCP server configuration for the ngx-markuplint binary.
var mcpEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "ngx-markuplint",
  "args": ["serve-mcp"]
}`)

const mcpServerName = "ngx-markuplint"

func newInitCmd() *cobra.Command {
	var (
		force   bool
		withMCP bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd.OutOrStdout(), dir, force, withMCP)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().BoolVar(&withMCP, "mcp", false, "also register the MCP server in .mcp.json")
	return cmd
}

// runInit writes the default config and, with withMCP, the .mcp.json entry
// into the project directory.
func runInit(out io.Writer, projectRoot string, force, withMCP bool) error {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	path, err := scaffold.WriteConfig(abs, force)
	switch {
	case errors.Is(err, scaffold.ErrConfigExists):
		fmt.Fprintf(out, "  skipped %s (exists, use --force to overwrite)\n", dotRelative(abs, path))
	case err != nil:
		return fmt.Errorf("writing %s: %w", path, err)
	default:
		fmt.Fprintf(out, "  created %s\n", dotRelative(abs, path))
	}

	if withMCP {
		if err := mergeMCPConfig(out, filepath.Join(abs, ".mcp.json"), force); err != nil {
			return err
		}
	}
	return nil
}

// mergeMCPConfig creates or merges the ngx-markuplint entry into .mcp.json.
func mergeMCPConfig(out io.Writer, mcpPath string, force bool) error {
	var cfg mcpConfig

	data, err := os.ReadFile(mcpPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
	}

	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]json.RawMessage)
	}

	if _, exists := cfg.MCPServers[mcpServerName]; exists && !force {
		fmt.Fprintf(out, "  skipped .mcp.json %s entry (exists, use --force to overwrite)\n", mcpServerName)
		return nil
	}

	cfg.MCPServers[mcpServerName] = mcpEntry

	encoded, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling .mcp.json: %w", err)
	}
	if err := os.WriteFile(mcpPath, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mcpPath, err)
	}

	fmt.Fprintf(out, "  updated .mcp.json\n")
	return nil
}

// dotRelative returns "./" + path relative to root.
func dotRelative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return "./" + rel
}
