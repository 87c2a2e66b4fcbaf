// Package config loads the project configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/orchestrator"
	"github.com/nagashimam/ngx-html-bridge-markuplint/internal/translate"
)

// FileNames lists the configuration files Load looks for, in order.
var FileNames = []string{".ngx-markuplint.yml", ".ngx-markuplint.yaml", ".ngx-markuplint.toml"}

// Default collaborator commands, used when the file names none.
var (
	DefaultEngineCommand     = []string{"npx", "--no-install", "ngx-markuplint-engine"}
	DefaultTranslatorCommand = []string{"npx", "--no-install", "ngx-html-bridge"}
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Command configures an external collaborator process.
type Command struct {
	Command []string `yaml:"command,omitempty" toml:"command,omitempty"`
}

// ProjectConfig holds project-level settings loaded from .ngx-markuplint.yml.
type ProjectConfig struct {
	Engine             Command  `yaml:"engine,omitempty" toml:"engine,omitempty"`
	Translator         Command  `yaml:"translator,omitempty" toml:"translator,omitempty"`
	IncludedAttributes []string `yaml:"includedAttributes,omitempty" toml:"includedAttributes,omitempty"`
	NonEmptyItems      []string `yaml:"nonEmptyItems,omitempty" toml:"nonEmptyItems,omitempty"`
	ParallelThreshold  int      `yaml:"parallelThreshold,omitempty" toml:"parallelThreshold,omitempty"`
	// Workers is nil when unset; an explicit 0 disables the worker pool.
	Workers *int   `yaml:"workers,omitempty" toml:"workers,omitempty"`
	Format  string `yaml:"format,omitempty" toml:"format,omitempty"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-" toml:"-"`
}

// Load attempts to read one of FileNames from the given directory. Returns a
// zero-value config (not an error) if no config file exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return &ProjectConfig{}, nil
}

// LoadFile reads the config at path. The format follows the extension:
// .toml is TOML, anything else YAML.
func LoadFile(path string) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Path = path
	return &cfg, nil
}

// Validate rejects values no run can use.
func (c *ProjectConfig) Validate() error {
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("parallelThreshold must not be negative, got %d", c.ParallelThreshold)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", *c.Workers)
	}
	switch c.Format {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

// EngineCommand returns the lint engine argv. Relative paths are resolved
// against the config file's directory.
func (c *ProjectConfig) EngineCommand() []string {
	if len(c.Engine.Command) == 0 {
		return DefaultEngineCommand
	}
	return c.resolveArgv(c.Engine.Command)
}

// TranslatorCommand returns the translator argv, resolved like EngineCommand.
func (c *ProjectConfig) TranslatorCommand() []string {
	if len(c.Translator.Command) == 0 {
		return DefaultTranslatorCommand
	}
	return c.resolveArgv(c.Translator.Command)
}

// resolveArgv anchors relative paths in argv, such as "./bin/engine" or
// "scripts/engine.js", at the directory of the config file. Bare program
// names and flags are left alone, as is everything when no file was read.
func (c *ProjectConfig) resolveArgv(argv []string) []string {
	if c.Path == "" {
		return argv
	}
	dir, err := filepath.Abs(filepath.Dir(c.Path))
	if err != nil {
		dir = filepath.Dir(c.Path)
	}
	out := make([]string, len(argv))
	for i, arg := range argv {
		if strings.HasPrefix(arg, "-") || filepath.IsAbs(arg) || !strings.ContainsRune(arg, '/') {
			out[i] = arg
			continue
		}
		out[i] = filepath.Join(dir, filepath.FromSlash(arg))
	}
	return out
}

// OutputFormat returns the report format, text by default.
func (c *ProjectConfig) OutputFormat() string {
	if c.Format == "" {
		return FormatText
	}
	return c.Format
}

// Options returns the translator options.
func (c *ProjectConfig) Options() translate.Options {
	return translate.Options{
		IncludedAttributes: c.IncludedAttributes,
		NonEmptyItems:      c.NonEmptyItems,
	}
}

// Pipeline returns the orchestrator configuration with defaults applied
// to unset fields.
func (c *ProjectConfig) Pipeline() orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	if c.ParallelThreshold > 0 {
		cfg.ParallelThreshold = c.ParallelThreshold
	}
	if c.Workers != nil {
		cfg.Workers = *c.Workers
	}
	return cfg
}
