package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/engine"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/mcptools"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/orchestrator"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

func newServeMCPCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run as an MCP server",
		Long: `Serve the lint_template and lint_template_file tools over the Model
Context Protocol, on stdio by default or over streamable HTTP with --http.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			pipeline := orchestrator.NewPipeline(
				cfg.Pipeline(),
				translate.NewCommandTranslator(cfg.TranslatorCommand()),
				engine.NewCommandEngine(cfg.EngineCommand()),
			)
			defer pipeline.Close()

			server := mcptools.NewLintMCPServer(mcptools.NewLintService(pipeline, cfg.Options()))
			if addr != "" {
				log.Info().Str("addr", addr).Msg("serving MCP over HTTP")
				return mcptools.RunHTTP(cmd.Context(), server, addr)
			}
			return mcptools.RunStdio(cmd.Context(), server)
		},
	}

	cmd.Flags().StringVar(&addr, "http", "", "serve streamable HTTP on this address instead of stdio")
	return cmd
}
