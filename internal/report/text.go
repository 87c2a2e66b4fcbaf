package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

// Text writes one line per finding:
//
//	path:line:col: severity message [ruleId]
//
// Findings without a location print "-" instead of line:col. A summary line
// follows when there is at least one finding.
func Text(w io.Writer, files []FileResult, colorize bool) error {
	paint := func(c *color.Color, s string) string {
		if !colorize {
			return s
		}
		return c.Sprint(s)
	}

	total := 0
	for _, fr := range files {
		for _, f := range Flatten(fr) {
			total++
			loc := "-"
			if f.Known() {
				loc = fmt.Sprintf("%d:%d", f.Line, f.Col)
			}
			line := fmt.Sprintf("%s:%s: %s %s", f.Path, loc, paint(severityColor(f.Severity), f.Severity), f.Message)
			if f.RuleID != "" {
				line += " " + paint(dimColor, "["+f.RuleID+"]")
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	if total == 0 {
		return nil
	}
	noun := "problems"
	if total == 1 {
		noun = "problem"
	}
	_, err := fmt.Fprintf(w, "\n%s\n", paint(errorColor, fmt.Sprintf("%d %s", total, noun)))
	return err
}

func severityColor(severity string) *color.Color {
	switch severity {
	case "error":
		return errorColor
	case "warning":
		return warningColor
	default:
		return infoColor
	}
}
