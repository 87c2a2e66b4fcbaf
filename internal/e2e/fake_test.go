//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/engine"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/offset"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// helperArg marks a re-executed test binary that plays a collaborator.
const helperArg = "ngx-e2e-helper"

// copiesEnv makes the fake translator repeat its variations.
const copiesEnv = "NGX_E2E_COPIES"

var (
	startTag  = regexp.MustCompile(`<([a-zA-Z][\w-]*)((?:\s+[^\s=>/]+(?:="[^"]*")?)*)\s*(/?)>`)
	attribute = regexp.MustCompile(`[^\s=>/]+(?:="[^"]*")?`)
)

// runHelper serves one collaborator request on stdin/stdout.
func runHelper(role string) int {
	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	var out any
	switch role {
	case "translator":
		var req struct {
			Template string            `json:"template"`
			Options  translate.Options `json:"options"`
		}
		if err := json.Unmarshal(in, &req); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		out = fakeTranslate(req.Template, req.Options)
	case "engine":
		var req struct {
			Markup string `json:"markup"`
			Name   string `json:"name"`
		}
		if err := json.Unmarshal(in, &req); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		out = fakeLint(req.Markup, req.Name)
	case "broken":
		fmt.Fprintln(os.Stderr, "collaborator crashed")
		return 3
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", role)
		return 2
	}

	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}

// fakeTranslate renders two variations: "if-false" drops every element
// carrying *ngIf together with its content, "if-true" keeps it.
func fakeTranslate(template string, opts translate.Options) []translate.Variation {
	base := []translate.Variation{
		{Kind: "if-false", Annotated: annotate(template, opts.IncludedAttributes, false)},
		{Kind: "if-true", Annotated: annotate(template, opts.IncludedAttributes, true)},
	}

	copies, _ := strconv.Atoi(os.Getenv(copiesEnv))
	if copies <= 1 {
		return base
	}
	var out []translate.Variation
	for i := 0; i < copies; i++ {
		for _, v := range base {
			v.Kind = fmt.Sprintf("%s-%d", v.Kind, i)
			out = append(out, v)
		}
	}
	return out
}

// annotate adds offset markers to every start tag. Offsets are byte offsets,
// which equal character offsets for the ASCII fixtures.
func annotate(template string, included []string, keepNgIf bool) string {
	var b strings.Builder
	last := 0
	for _, m := range startTag.FindAllStringSubmatchIndex(template, -1) {
		if m[0] < last {
			continue
		}
		b.WriteString(template[last:m[0]])
		last = m[1]

		name := template[m[2]:m[3]]
		attrs := template[m[4]:m[5]]
		if !keepNgIf && strings.Contains(attrs, "*ngIf") {
			closing := "</" + name + ">"
			if end := strings.Index(template[m[1]:], closing); end >= 0 {
				last = m[1] + end + len(closing)
			}
			continue
		}

		fmt.Fprintf(&b, `<%s %sstart-offset="%d" %send-offset="%d"`, name, offset.MarkerPrefix, m[0], offset.MarkerPrefix, m[1])
		for _, a := range attribute.FindAllStringIndex(attrs, -1) {
			text := attrs[a[0]:a[1]]
			attrName := offset.AttributeName(text)
			if strings.ContainsAny(attrName[:1], "*[(") {
				continue
			}
			if slices.Contains(included, attrName) {
				start := m[4] + a[0]
				fmt.Fprintf(&b, ` %s%s-start-offset="%d" %s%s-end-offset="%d"`,
					offset.MarkerPrefix, attrName, start, offset.MarkerPrefix, attrName, start+len(text))
			}
			b.WriteString(" " + text)
		}
		b.WriteString(template[m[6]:m[7]] + ">")
	}
	b.WriteString(template[last:])
	return b.String()
}

// fakeLint reports img elements without alt and empty href attributes.
// Columns count characters from the start of the markup.
func fakeLint(markup, name string) *engine.Result {
	res := &engine.Result{FilePath: name, SourceCode: markup, Status: true}
	col := func(byteIndex int) int {
		return utf8.RuneCountInString(markup[:byteIndex]) + 1
	}

	for _, m := range startTag.FindAllStringSubmatchIndex(markup, -1) {
		tag := markup[m[2]:m[3]]
		attrs := markup[m[4]:m[5]]

		if tag == "img" && !strings.Contains(attrs, " alt=") {
			res.Violations = append(res.Violations, engine.Violation{
				RuleID:   "required-attr",
				Severity: "error",
				Message:  "img requires an alt attribute",
				Line:     1,
				Col:      col(m[0]),
				Raw:      markup[m[0]:m[1]],
			})
		}
		if i := strings.Index(attrs, ` href=""`); tag == "a" && i >= 0 {
			res.Violations = append(res.Violations, engine.Violation{
				RuleID:   "invalid-attr",
				Severity: "warning",
				Message:  "href must not be empty",
				Line:     1,
				Col:      col(m[4] + i + 1),
				Raw:      `href=""`,
			})
		}
	}
	res.Status = len(res.Violations) == 0
	return res
}
