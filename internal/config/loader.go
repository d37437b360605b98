package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"anvil/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	projectConfigFile = "anvil.yaml"
	releaseConfigFile = "release.yaml"
)

// LoadProjectConfig reads anvil.yaml from the build root. A missing file is
// not an error; the zero configuration is returned.
func LoadProjectConfig(root string) (ProjectConfig, error) {
	path := filepath.Join(root, projectConfigFile)

	var cfg ProjectConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No %s found at %s, using defaults", projectConfigFile, path)
			return cfg, nil
		}
		return ProjectConfig{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("error loading project config from %s: %w", path, err)
	}
	logging.Debug("ConfigLoader", "Loaded project configuration from %s", path)
	return cfg, nil
}

// LoadReleaseConfig reads release.yaml from the build root. A missing file is
// not an error; the zero configuration is returned.
func LoadReleaseConfig(root string) (ReleaseConfig, error) {
	path := filepath.Join(root, releaseConfigFile)

	var cfg ReleaseConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return ReleaseConfig{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ReleaseConfig{}, fmt.Errorf("error loading release config from %s: %w", path, err)
	}
	logging.Debug("ConfigLoader", "Loaded release configuration from %s", path)
	return cfg, nil
}
