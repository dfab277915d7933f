// Package config loads optional YAML defaults for the trifc driver's
// flags, decoded in two steps: github.com/goccy/go-yaml into a generic
// map, then mapstructure.Decode into the caller's typed struct.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"

	"github.com/trif-lang/trifc/internal/diag"
)

// File is the shape of a trifc config file. Zero values mean "not set";
// the CLI driver only applies a field when its own flag is absent.
type File struct {
	Target           string `mapstructure:"target"`
	Output           string `mapstructure:"output"`
	AggressiveErrors bool   `mapstructure:"aggressive-errors"`
	Listen           string `mapstructure:"listen"`
}

// Load reads and decodes a YAML config file at path.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.IO("os.ReadFile(%q): %v", path, err)
	}

	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, diag.IO("yaml.Unmarshal(%q): %v", path, err)
	}

	var f File
	if err := mapstructure.Decode(generic, &f); err != nil {
		return nil, diag.IO("mapstructure.Decode(%q): %v", path, err)
	}
	return &f, nil
}
