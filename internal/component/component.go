// Package component finds the templates of Angular components declared in
// TypeScript sources.
package component

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Template is the template of one @Component decorator.
type Template struct {
	// Component is the decorated class name, empty for anonymous classes.
	Component string `json:"component"`
	// Source is the TypeScript file declaring the component.
	Source string `json:"source"`
	// Line is the 1-based line of the decorator in Source.
	Line int `json:"line"`
	// Inline is true for a `template:` property and false for `templateUrl:`.
	Inline bool `json:"inline"`
	// Path is the template file for templateUrl, Source for inline templates.
	Path string `json:"path"`
	// Text is the raw source between the delimiters of an inline template.
	Text string `json:"-"`
	// BaseOffset is the character offset of Text's first character in Source.
	BaseOffset int `json:"baseOffset,omitempty"`
}

// Discoverer parses TypeScript files with tree-sitter. A new tree-sitter
// parser is created per call, so a Discoverer is safe for concurrent use.
type Discoverer struct {
	lang *tree_sitter.Language
}

// NewDiscoverer creates a Discoverer with the TypeScript grammar.
func NewDiscoverer() *Discoverer {
	return &Discoverer{
		lang: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
	}
}

// DiscoverFile reads path and discovers its component templates.
func (d *Discoverer) DiscoverFile(path string) ([]Template, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("component: read %s: %w", path, err)
	}
	return d.Discover(path, source)
}

// Discover returns the template of every @Component decorator in source, in
// source order. templateUrl values are resolved against path's directory.
func (d *Discoverer) Discover(path string, source []byte) ([]Template, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(d.lang); err != nil {
		return nil, fmt.Errorf("component: set language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("component: tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	w := &walker{path: path, source: source}
	cursor := tree.RootNode().Walk()
	defer cursor.Close()
	w.walk(cursor)
	return w.templates, nil
}

type walker struct {
	path      string
	source    []byte
	templates []Template
}

func (w *walker) walk(cursor *tree_sitter.TreeCursor) {
	node := cursor.Node()
	if node.Kind() == "decorator" {
		if t, ok := w.extract(node); ok {
			w.templates = append(w.templates, t)
		}
	}

	if cursor.GotoFirstChild() {
		w.walk(cursor)
		for cursor.GotoNextSibling() {
			w.walk(cursor)
		}
		cursor.GotoParent()
	}
}

// extract reads `@Component({ template: ... })` or
// `@Component({ templateUrl: ... })`. template wins when both are present.
func (w *walker) extract(decorator *tree_sitter.Node) (Template, bool) {
	call := firstChildOfKind(decorator, "call_expression")
	if call == nil {
		return Template{}, false
	}
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Utf8Text(w.source) != "Component" {
		return Template{}, false
	}
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return Template{}, false
	}
	obj := firstChildOfKind(args, "object")
	if obj == nil {
		return Template{}, false
	}

	var inline, url *tree_sitter.Node
	for i := uint(0); i < obj.NamedChildCount(); i++ {
		pair := obj.NamedChild(i)
		if pair == nil || pair.Kind() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		value := pair.ChildByFieldName("value")
		if key == nil || value == nil || !isStringLike(value) {
			continue
		}
		switch strings.Trim(key.Utf8Text(w.source), "\"'") {
		case "template":
			inline = value
		case "templateUrl":
			url = value
		}
	}

	t := Template{
		Component: className(decorator, w.source),
		Source:    w.path,
		Line:      int(decorator.StartPosition().Row) + 1,
	}
	switch {
	case inline != nil:
		start, end := inline.StartByte()+1, inline.EndByte()-1
		t.Inline = true
		t.Path = w.path
		t.Text = string(w.source[start:end])
		t.BaseOffset = utf8.RuneCount(w.source[:start])
	case url != nil:
		rel := string(w.source[url.StartByte()+1 : url.EndByte()-1])
		t.Path = filepath.Join(filepath.Dir(w.path), filepath.FromSlash(rel))
	default:
		return Template{}, false
	}
	return t, true
}

func isStringLike(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "string", "template_string":
		return n.EndByte()-n.StartByte() >= 2
	}
	return false
}

func firstChildOfKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c != nil && c.Kind() == kind {
			return c
		}
	}
	return nil
}

// className finds the class a decorator is attached to. Decorators of an
// exported class hang off the export_statement.
func className(decorator *tree_sitter.Node, source []byte) string {
	parent := decorator.Parent()
	if parent == nil {
		return ""
	}
	class := parent
	if parent.Kind() == "export_statement" {
		class = parent.ChildByFieldName("declaration")
	}
	if class == nil {
		return ""
	}
	if name := class.ChildByFieldName("name"); name != nil {
		return name.Utf8Text(source)
	}
	return ""
}
