// Package config loads the optional YAML run configuration used by the
// CLI. All values are defaults that individual command-line flags may
// override; the engine's weight and threshold constants are not
// configurable.
package config

import (
	"fmt"
	"os"

	"firmaverify/types"

	"gopkg.in/yaml.v3"
)

// Config holds CLI-level run settings.
type Config struct {
	Preprocessing           string  `yaml:"preprocessing"`
	MinQuality              float64 `yaml:"minQuality"`
	ApplyNaturalnessPenalty bool    `yaml:"applyNaturalnessPenalty"`
	Database                string  `yaml:"database"`
	LogFile                 string  `yaml:"logFile"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Preprocessing: string(types.ModeAuto),
		MinQuality:    0.50,
		Database:      "verifications.db",
		LogFile:       "firmaverify.log",
	}
}

// Load reads a YAML configuration file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config file %s: %v", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config file %s: %v", path, err)
	}

	if !types.ValidMode(types.PreprocessMode(cfg.Preprocessing)) {
		return cfg, fmt.Errorf("%w: preprocessing mode %q in %s", types.ErrInvalidOptions, cfg.Preprocessing, path)
	}
	if cfg.MinQuality < 0 || cfg.MinQuality > 1 {
		return cfg, fmt.Errorf("%w: minQuality %.2f outside [0,1] in %s", types.ErrInvalidOptions, cfg.MinQuality, path)
	}

	return cfg, nil
}
