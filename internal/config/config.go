// Package config loads plhub tool configuration through viper, layering
// defaults, a global config file, a per-tree local config and command flags.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultTemplate = "basic"
	DefaultTheme    = "default_light"
	DefaultVerbose  = false
)

// Config holds the tool-level options for plhub.
type Config struct {
	// Explicit path to the pohlang runtime binary; empty means auto-locate.
	RuntimePath string

	// Default project template for create.
	Template string

	// Default UI theme applied when scaffolding.
	Theme string

	// Directory for the build cache; empty means .build_cache in the
	// project root.
	CacheDir string

	// Enable verbose output.
	Verbose bool

	// Enable debug tracing.
	Debug bool
}

// Load materializes the current viper state into a Config.
func Load() (*Config, error) {
	cfg := &Config{
		RuntimePath: viper.GetString("runtime_path"),
		Template:    viper.GetString("template"),
		Theme:       viper.GetString("theme"),
		CacheDir:    viper.GetString("cache_dir"),
		Verbose:     viper.GetBool("verbose"),
		Debug:       viper.GetBool("debug"),
	}

	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}

	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate resolves paths to absolute form.
func (c *Config) Validate() error {
	if c.RuntimePath != "" {
		if abs, err := filepath.Abs(c.RuntimePath); err == nil {
			c.RuntimePath = abs
		}
	}

	if c.CacheDir != "" {
		if abs, err := filepath.Abs(c.CacheDir); err == nil {
			c.CacheDir = abs
		}
	}

	return nil
}
