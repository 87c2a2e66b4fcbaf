// Package engine is the boundary to the markup lint engine. The engine lints
// one markup string as if it were a file identified by a VirtualFile.
package engine

import (
	"context"
	"errors"
	"path/filepath"
)

// ErrEngineFailed wraps every failure reported by an Engine adapter.
var ErrEngineFailed = errors.New("lint engine failed")

// VirtualFile is the identity the engine lints the markup under. Dir drives
// the engine's own configuration lookup.
type VirtualFile struct {
	Name string `json:"name"`
	Dir  string `json:"dirname"`
}

// VirtualFileFor derives the identity of the real template at templatePath.
func VirtualFileFor(templatePath string) VirtualFile {
	return VirtualFile{
		Name: filepath.Base(templatePath),
		Dir:  filepath.Dir(templatePath),
	}
}

// Violation is one raw finding as reported by the engine. Col is 1-based and
// counts characters of the linted markup.
type Violation struct {
	RuleID   string `json:"ruleId"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Reason   string `json:"reason,omitempty"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Raw      string `json:"raw"`
}

// Result is the engine's outcome for one markup string.
type Result struct {
	FilePath   string      `json:"filePath"`
	SourceCode string      `json:"sourceCode"`
	FixedCode  string      `json:"fixedCode"`
	Status     bool        `json:"status"`
	Violations []Violation `json:"violations"`
}

// Engine lints markup. A nil Result with a nil error means the engine
// declined to lint the file (e.g. it is ignored by configuration).
type Engine interface {
	Lint(ctx context.Context, markup string, file VirtualFile) (*Result, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, markup string, file VirtualFile) (*Result, error)

// Lint calls f.
func (f EngineFunc) Lint(ctx context.Context, markup string, file VirtualFile) (*Result, error) {
	return f(ctx, markup, file)
}
