package translate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/procjson"
)

// Compile-time check.
var _ Translator = (*CommandTranslator)(nil)

// CommandTranslator delegates translation to an external command. It writes
//
//	{"template": "...", "templatePath": "...", "options": {...}}
//
// to the command's stdin and reads a JSON array of variations back.
type CommandTranslator struct {
	Argv []string
}

// NewCommandTranslator creates a CommandTranslator for argv.
func NewCommandTranslator(argv []string) *CommandTranslator {
	return &CommandTranslator{Argv: argv}
}

type translateRequest struct {
	Template     string  `json:"template"`
	TemplatePath string  `json:"templatePath"`
	Options      Options `json:"options"`
}

// ParseTemplate runs the command for one template.
func (c *CommandTranslator) ParseTemplate(ctx context.Context, template, templatePath string, opts Options) ([]Variation, error) {
	req := translateRequest{
		Template:     template,
		TemplatePath: templatePath,
		Options:      normalize(opts),
	}
	call := procjson.Call{Argv: c.Argv, Dir: filepath.Dir(templatePath)}

	var variations []Variation
	if err := procjson.Do(ctx, call, req, &variations); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTranslatorFailed, templatePath, err)
	}
	return variations, nil
}

// normalize replaces nil lists so the command always sees arrays.
func normalize(opts Options) Options {
	if opts.IncludedAttributes == nil {
		opts.IncludedAttributes = []string{}
	}
	if opts.NonEmptyItems == nil {
		opts.NonEmptyItems = []string{}
	}
	return opts
}
