package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/component"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/report"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".angular":     true,
	"node_modules": true,
	"dist":         true,
	"coverage":     true,
}

// target is one template to lint.
type target struct {
	// templatePath is what the engine lints the template as.
	templatePath string
	// inline is true for a template embedded in a component source; text
	// is then linted directly.
	inline bool
	text   string
	source report.Source
}

// collectTargets expands paths into targets. Directories are walked for
// .html files, and for .ts component files when components is set. A .ts
// file named explicitly is always scanned for components.
func collectTargets(paths []string, components bool) ([]target, error) {
	files, err := collectFiles(paths, true, components)
	if err != nil {
		return nil, err
	}
	return targetsFrom(files)
}

// collectFiles lists the files named in paths and, below directories, the
// .html and component .ts files selected by html and ts.
func collectFiles(paths []string, html, ts bool) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			switch {
			case html && strings.HasSuffix(path, ".html"):
				files = append(files, path)
			case ts && isComponentSource(path):
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}
	return files, nil
}

// targetsFrom turns files into targets, listing each template once. .ts
// files contribute the templates of their components.
func targetsFrom(files []string) ([]target, error) {
	var (
		targets []target
		seen    = make(map[string]bool)
		disc    *component.Discoverer
	)
	add := func(t target) {
		key := filepath.Clean(t.templatePath)
		if t.inline {
			key = fmt.Sprintf("%s@%d", t.source.Path, t.source.BaseOffset)
		}
		if seen[key] {
			return
		}
		seen[key] = true
		targets = append(targets, t)
	}

	for _, f := range files {
		if !strings.HasSuffix(f, ".ts") {
			t, err := fileTarget(f)
			if err != nil {
				return nil, err
			}
			add(t)
			continue
		}

		if disc == nil {
			disc = component.NewDiscoverer()
		}
		source, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		templates, err := disc.Discover(f, source)
		if err != nil {
			return nil, err
		}
		for _, tpl := range templates {
			if !tpl.Inline {
				t, err := fileTarget(tpl.Path)
				if err != nil {
					return nil, fmt.Errorf("%s: templateUrl of %s: %w", f, tpl.Component, err)
				}
				add(t)
				continue
			}
			add(target{
				templatePath: inlineTemplatePath(f),
				inline:       true,
				text:         tpl.Text,
				source:       report.Source{Path: f, Text: string(source), BaseOffset: tpl.BaseOffset},
			})
		}
	}
	return targets, nil
}

func fileTarget(path string) (target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return target{}, err
	}
	return target{
		templatePath: path,
		source:       report.Source{Path: path, Text: string(data)},
	}, nil
}

func isComponentSource(path string) bool {
	return strings.HasSuffix(path, ".ts") && !strings.HasSuffix(path, ".spec.ts") && !strings.HasSuffix(path, ".d.ts")
}

// inlineTemplatePath names an inline template after its component source,
// so the engine treats it as HTML next to the component.
func inlineTemplatePath(tsPath string) string {
	return strings.TrimSuffix(tsPath, ".ts") + ".html"
}
