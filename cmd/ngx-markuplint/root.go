package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/config"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/logging"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/mcptools"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	verbosity  int
	configPath string
}

// loadConfig reads --config when given, else the config of the working
// directory.
func (o *rootOptions) loadConfig() (*config.ProjectConfig, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	return config.Load(wd)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "ngx-markuplint",
		Short: "Lint Angular templates with a markup linter",
		Long: `ngx-markuplint renders every structural variation of an Angular template to
plain HTML, lints each one and reports every finding once, located in the
original template.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is .ngx-markuplint.{yml,yaml,toml} in the working directory)")

	root.AddCommand(
		newLintCmd(opts),
		newComponentsCmd(),
		newInitCmd(),
		newServeMCPCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ngx-markuplint version %s\n", version)
			if commit != "" {
				fmt.Fprintf(out, "  commit: %s\n", commit)
			}
			if date != "" {
				fmt.Fprintf(out, "  built:  %s\n", date)
			}
		},
	}
}

func init() {
	mcptools.Version = version
}
