// Package models defines data structures for configuration and aggregation.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultField is the rating field extracted when none is configured.
const DefaultField = "movieIMDbRating"

// RunConfig holds runtime configuration for a stats run.
// Values come from CLI flags, optionally seeded from a YAML profile.
type RunConfig struct {
	Root        string `yaml:"root"`
	Field       string `yaml:"field"`
	WorkerCount int    `yaml:"workers"`
	SkipBad     bool   `yaml:"skip_bad"`
}

// LoadConfig reads a RunConfig profile from a YAML file.
func LoadConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	config := &RunConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}
