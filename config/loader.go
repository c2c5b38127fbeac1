package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadAPIConfig reads a YAML file on top of NewDefaultAPIConfig. Fields missing from the file keep
// their default values. The result is not validated.
func LoadAPIConfig(path string) (*APIConfig, error) {
	cfg := NewDefaultAPIConfig()

	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator supplied flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
