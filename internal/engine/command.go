package engine

import (
	"context"
	"fmt"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/procjson"
)

// Compile-time check.
var _ Engine = (*CommandEngine)(nil)

// CommandEngine runs an external lint command once per markup string. The
// command is started in the virtual file's directory, receives
//
//	{"markup": "...", "name": "app.component.html", "dirname": "/src/app"}
//
// on stdin and answers with either null or a Result document on stdout.
type CommandEngine struct {
	Argv []string
}

// NewCommandEngine creates a CommandEngine for argv.
func NewCommandEngine(argv []string) *CommandEngine {
	return &CommandEngine{Argv: argv}
}

type lintRequest struct {
	Markup string `json:"markup"`
	VirtualFile
}

// Lint runs the command for markup.
func (e *CommandEngine) Lint(ctx context.Context, markup string, file VirtualFile) (*Result, error) {
	call := procjson.Call{
		Argv: e.Argv,
		Dir:  file.Dir,
		Env: []string{
			"NGX_MARKUPLINT_NAME=" + file.Name,
			"NGX_MARKUPLINT_DIRNAME=" + file.Dir,
		},
	}

	var res *Result
	if err := procjson.Do(ctx, call, lintRequest{Markup: markup, VirtualFile: file}, &res); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEngineFailed, file.Name, err)
	}
	return res, nil
}
