package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region config-loading

// LoadConfig reads a YAML config file over the defaults. Unset keys
// keep their default values; the merged result is validated before
// being returned.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// #endregion config-loading
