// Package report renders lint results for people and for tools.
package report

import (
	"fmt"
	"io"
	"slices"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/orchestrator"
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Source is the file findings are reported against. For a component with an
// inline template, Text is the whole TypeScript file and BaseOffset the
// position of the template inside it.
type Source struct {
	Path       string
	Text       string
	BaseOffset int
}

// FileResult pairs a source with the results of linting it.
type FileResult struct {
	Source  Source
	Results []orchestrator.Result
}

// Finding is one violation with its location resolved against a Source.
// Line and Col are 1-based and zero when the location is unknown.
type Finding struct {
	Path          string `json:"path"`
	Line          int    `json:"line,omitempty"`
	Col           int    `json:"col,omitempty"`
	StartOffset   int    `json:"startOffset"`
	EndOffset     int    `json:"endOffset"`
	Severity      string `json:"severity"`
	RuleID        string `json:"ruleId"`
	Message       string `json:"message"`
	Reason        string `json:"reason,omitempty"`
	VariationKind string `json:"variationKind,omitempty"`
}

// Known reports whether the finding has a location.
func (f Finding) Known() bool {
	return f.Line > 0
}

// Flatten lists the findings of fr in result order. Offsets are shifted by
// the source's BaseOffset; unknown locations stay at 0/0.
func Flatten(fr FileResult) []Finding {
	idx := newLineIndex(fr.Source.Text)

	var out []Finding
	for _, r := range fr.Results {
		for _, v := range r.Violations {
			f := Finding{
				Path:          fr.Source.Path,
				Severity:      v.Severity,
				RuleID:        v.RuleID,
				Message:       v.Message,
				Reason:        v.Reason,
				VariationKind: r.Variation.Kind,
			}
			if v.Offsets().Known() {
				f.StartOffset = fr.Source.BaseOffset + v.StartOffset
				f.EndOffset = fr.Source.BaseOffset + v.EndOffset
				f.Line, f.Col = idx.position(f.StartOffset)
			}
			out = append(out, f)
		}
	}
	return out
}

// Count returns the number of findings across files.
func Count(files []FileResult) int {
	n := 0
	for _, fr := range files {
		for _, r := range fr.Results {
			n += len(r.Violations)
		}
	}
	return n
}

// Write renders files in format. colorize only affects the text format.
func Write(w io.Writer, format string, files []FileResult, colorize bool) error {
	switch format {
	case "", FormatText:
		return Text(w, files, colorize)
	case FormatJSON:
		return JSON(w, files)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

// Position returns the 1-based line and column of the character at offset
// in text. Offsets past the end land on the last position.
func Position(text string, offset int) (line, col int) {
	return newLineIndex(text).position(offset)
}

// lineIndex holds the character offset at which each line starts.
type lineIndex struct {
	starts []int
	length int
}

func newLineIndex(text string) lineIndex {
	idx := lineIndex{starts: []int{0}}
	n := 0
	for _, r := range text {
		n++
		if r == '\n' {
			idx.starts = append(idx.starts, n)
		}
	}
	idx.length = n
	return idx
}

func (idx lineIndex) position(offset int) (line, col int) {
	offset = min(max(offset, 0), idx.length)
	i, found := slices.BinarySearch(idx.starts, offset)
	if !found {
		i--
	}
	return i + 1, offset - idx.starts[i] + 1
}
