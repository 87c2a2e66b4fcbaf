// Package translate is the boundary to the template-to-markup translator,
// which renders one Angular template into plain HTML variations annotated
// with offset markers.
package translate

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrTranslatorFailed wraps every failure reported by a Translator adapter.
var ErrTranslatorFailed = errors.New("template translator failed")

// Options tunes the translator.
type Options struct {
	// IncludedAttributes opts attributes into per-attribute offset markers.
	IncludedAttributes []string `json:"includedAttributes"`
	// NonEmptyItems lists expressions the translator may assume are non-empty lists.
	NonEmptyItems []string `json:"nonEmptyItems"`
}

// Variation is one HTML rendering of a template. Kind is translator metadata
// and is not interpreted here.
type Variation struct {
	Kind      string `json:"kind,omitempty"`
	Plain     string `json:"plain,omitempty"`
	Annotated string `json:"annotated"`
}

// Translator produces the ordered variations of a template.
type Translator interface {
	ParseTemplate(ctx context.Context, template, templatePath string, opts Options) ([]Variation, error)
}

// ParseTemplateFile reads templatePath and translates its contents.
func ParseTemplateFile(ctx context.Context, t Translator, templatePath string, opts Options) ([]Variation, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("translate: read %s: %w", templatePath, err)
	}
	return t.ParseTemplate(ctx, string(data), templatePath, opts)
}
