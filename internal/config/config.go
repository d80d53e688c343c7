// Package config loads and validates the optional .sigrokdev YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for invocation limits.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxOutput   = 1 << 20 // 1 MB per stream
	DefaultInputFormat = "vcd"
)

// Config holds the parsed .sigrokdev configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version int `yaml:"version"`

	// SigrokCLI is an explicit path to the sigrok-cli executable.
	// When empty the executable is searched for.
	SigrokCLI string `yaml:"sigrok_cli"`

	// SearchDirs overrides the executable search directories.
	SearchDirs []string `yaml:"search_dirs"`

	RawTimeout   string `yaml:"timeout"`    // e.g. "30s", "5m"
	RawMaxOutput int    `yaml:"max_output"` // bytes per stream

	Import ImportConfig `yaml:"import"`
}

// ImportConfig supplies defaults for the import pipeline.
type ImportConfig struct {
	// InputFormat is the default input format identifier (e.g. "vcd").
	InputFormat string `yaml:"input_format"`
	// OutputFormat is the default output format. Empty means the -O
	// flag is omitted and sigrok-cli infers the format from the
	// output filename.
	OutputFormat string `yaml:"output_format"`
}

// Timeout returns the configured invocation timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured per-stream cap or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// InputFormat returns the configured default input format or "vcd".
func (c *Config) InputFormat() string {
	if c.Import.InputFormat != "" {
		return c.Import.InputFormat
	}
	return DefaultInputFormat
}

// LoadResult holds the parsed config and the discovered project root.
type LoadResult struct {
	Config *Config
	Root   string // directory containing .sigrokdev; falls back to workspace
}

// Load reads the .sigrokdev file closest to workspace, walking upward
// through parent directories. If no file exists anywhere on the path,
// a default Config is returned with Root set to the workspace.
func Load(workspace string) (*LoadResult, error) {
	root, path, err := findConfigFile(workspace)
	if err != nil {
		return &LoadResult{Config: &Config{}, Root: workspace}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading .sigrokdev: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing .sigrokdev: %w", err)
	}
	return &LoadResult{Config: cfg, Root: root}, nil
}

// findConfigFile walks upward from dir looking for a .sigrokdev file.
func findConfigFile(dir string) (root, path string, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}
	for {
		candidate := filepath.Join(dir, ".sigrokdev")
		if info, statErr := os.Stat(candidate); statErr == nil && info.Mode().IsRegular() {
			return dir, candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf(".sigrokdev not found")
		}
		dir = parent
	}
}
