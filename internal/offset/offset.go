// Package offset maps a lint finding located in a generated markup variation
// back to character offsets in the original template source.
//
// The translator embeds the original positions as marker attributes:
//
//	data-ngx-html-bridge-start-offset="10" data-ngx-html-bridge-end-offset="14"
//
// on elements, and per attribute as
//
//	data-ngx-html-bridge-<attr>-start-offset="…" data-ngx-html-bridge-<attr>-end-offset="…"
//
// Recovery is a heuristic. A missing or malformed marker is reported as a
// miss, never as an error.
package offset

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// MarkerPrefix is the attribute prefix shared by every offset marker.
const MarkerPrefix = "data-ngx-html-bridge-"

// Offsets are character offsets into the original template source.
type Offsets struct {
	Start int `json:"startOffset"`
	End   int `json:"endOffset"`
}

// Known reports whether the offsets locate something. The zero value means
// "location unknown", not "position 0".
func (o Offsets) Known() bool {
	return o.Start != 0 || o.End != 0
}

var elementMarker = regexp.MustCompile(
	MarkerPrefix + `start-offset="(\d+)"\s+` + MarkerPrefix + `end-offset="(\d+)"`,
)

// Recover tries the element marker embedded in raw first, then the
// attribute-scoped marker preceding the finding in markup. ok is false when
// neither strategy matched.
func Recover(raw string, col int, markup string) (Offsets, bool) {
	if o, ok := FromElement(raw); ok {
		return o, true
	}
	return FromAttribute(raw, col, markup)
}

// FromElement looks for an inline start/end marker pair inside raw.
func FromElement(raw string) (Offsets, bool) {
	m := elementMarker.FindStringSubmatch(raw)
	if m == nil {
		return Offsets{}, false
	}
	return parsePair(m[1], m[2])
}

// FromAttribute handles findings that point at a single attribute, whose raw
// text is e.g. `href="#"`. The attribute's own marker pair is searched in the
// markup before the finding's 1-based column; the nearest one wins.
func FromAttribute(raw string, col int, markup string) (Offsets, bool) {
	if raw == "" || !strings.Contains(markup, raw) {
		return Offsets{}, false
	}
	name := AttributeName(raw)
	if name == "" {
		return Offsets{}, false
	}

	re, err := attributeMarker(name)
	if err != nil {
		return Offsets{}, false
	}
	matches := re.FindAllStringSubmatch(Before(markup, col), -1)
	if len(matches) == 0 {
		return Offsets{}, false
	}
	last := matches[len(matches)-1]
	return parsePair(last[1], last[2])
}

// AttributeName returns the text of raw before its first '=', trimmed.
// Values containing '=' do not affect the result.
func AttributeName(raw string) string {
	name, _, _ := strings.Cut(raw, "=")
	return strings.TrimSpace(name)
}

// Before returns the prefix of markup preceding the 1-based character column
// col. Columns outside the text are clamped.
func Before(markup string, col int) string {
	n := col - 1
	if n <= 0 {
		return ""
	}
	i := 0
	for n > 0 && i < len(markup) {
		_, size := utf8.DecodeRuneInString(markup[i:])
		i += size
		n--
	}
	return markup[:i]
}

func attributeMarker(name string) (*regexp.Regexp, error) {
	start := regexp.QuoteMeta(MarkerPrefix + name + "-start-offset")
	end := regexp.QuoteMeta(MarkerPrefix + name + "-end-offset")
	return regexp.Compile(start + `="(\d+)"\s+` + end + `="(\d+)"`)
}

func parsePair(start, end string) (Offsets, bool) {
	s, ok := parseOffset(start)
	if !ok {
		return Offsets{}, false
	}
	e, ok := parseOffset(end)
	if !ok || e < s {
		return Offsets{}, false
	}
	return Offsets{Start: s, End: e}, true
}

func parseOffset(digits string) (int, bool) {
	u, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	v, err := safecast.Conv[int](u)
	if err != nil {
		return 0, false
	}
	return v, true
}
