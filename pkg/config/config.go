// Package config loads the YAML configuration driving an analysis run.
package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config describes one analysis run.
type Config struct {
	// Spec is the OpenAPI source: a file path or an HTTP(S) URL.
	Spec string `yaml:"spec"`
	// CacheDir overrides the HTTP cache location (default ~/.sdkgen/cache).
	CacheDir string `yaml:"cacheDir"`
	// Out is where the IR JSON is written; empty means stdout summary only.
	Out string `yaml:"out"`
	// IncludeTags/ExcludeTags are regex patterns filtering resources.
	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`
}

// Load reads a configuration file. Relative paths are absolutized;
// URL spec sources are kept as-is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Spec == "" {
		return nil, errors.New("config.spec is required")
	}

	if u, err := url.Parse(cfg.Spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		// keep URLs as-is
	} else if !filepath.IsAbs(cfg.Spec) {
		if abs, err := filepath.Abs(cfg.Spec); err == nil {
			cfg.Spec = abs
		}
	}
	if cfg.Out != "" && !filepath.IsAbs(cfg.Out) {
		if abs, err := filepath.Abs(cfg.Out); err == nil {
			cfg.Out = abs
		}
	}
	return &cfg, nil
}
