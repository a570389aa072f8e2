package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth bounds the ancestor walk when resolving the owning
// organization of a resource.
const DefaultMaxDepth = 25

// Config controls a single report run.
type Config struct {
	MaxDepth   int         `yaml:"max_depth"`
	NoiseRules []NoiseRule `yaml:"noise_rules"`
}

// NoiseRule matches resources to exclude from the report. Fields are
// regular expressions; a rule matches when every pattern it sets matches
// the resolved resource, and a rule with no patterns set matches nothing.
type NoiseRule struct {
	ID   string `yaml:"id"`   // matched against the resource ID
	Name string `yaml:"name"` // matched against the resolved display name
}

// Default returns the built-in configuration. The single default noise rule
// excludes system-owned projects, whose IDs carry a scoping prefix such as
// "sys:" that ordinary projects cannot contain.
func Default() *Config {
	return &Config{
		MaxDepth: DefaultMaxDepth,
		NoiseRules: []NoiseRule{
			{ID: ":"},
		},
	}
}

// Load reads the YAML configuration at path. A missing file yields the
// default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg, nil
}
