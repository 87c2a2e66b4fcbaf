package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/report"
)

func newComponentsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "components [paths...]",
		Short: "List the templates of Angular components",
		Long: `Scan .ts component sources, or every one below a directory, and list the
template of each @Component: the templateUrl file or the inline template.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			files, err := collectFiles(args, false, true)
			if err != nil {
				return err
			}
			targets, err := targetsFrom(files)
			if err != nil {
				return err
			}

			type entry struct {
				Path   string `json:"path"`
				Inline bool   `json:"inline"`
				Source string `json:"source,omitempty"`
			}
			var entries []entry
			for _, t := range targets {
				e := entry{Path: t.templatePath, Inline: t.inline}
				if t.inline {
					line, col := report.Position(t.source.Text, t.source.BaseOffset)
					e.Source = fmt.Sprintf("%s:%d:%d", t.source.Path, line, col)
				}
				entries = append(entries, e)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if entries == nil {
					entries = []entry{}
				}
				return enc.Encode(entries)
			}
			for _, e := range entries {
				if e.Inline {
					fmt.Fprintf(out, "%s (inline)\n", e.Source)
					continue
				}
				fmt.Fprintln(out, e.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")
	return cmd
}
