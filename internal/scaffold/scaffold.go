// Package scaffold embeds the files `ngx-markuplint init` writes into a
// project. The embedded filesystem is rooted at "files/".
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilesFS contains the embedded default files.
//
//go:embed files/*
var FilesFS embed.FS

// ConfigFileName is the name the default config is written under.
const ConfigFileName = ".ngx-markuplint.yml"

// DefaultConfig returns the embedded default configuration file.
func DefaultConfig() []byte {
	data, err := FilesFS.ReadFile("files/ngx-markuplint.yml")
	if err != nil {
		panic(fmt.Sprintf("scaffold: embedded default config missing: %v", err))
	}
	return data
}

// ErrConfigExists is returned by WriteConfig when the target already exists
// and force is false.
var ErrConfigExists = errors.New("config file already exists")

// WriteConfig writes the default configuration into dir and returns the
// path written. An existing file is only replaced when force is set.
func WriteConfig(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return path, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, err
	}
	return path, os.WriteFile(path, DefaultConfig(), 0o644)
}
