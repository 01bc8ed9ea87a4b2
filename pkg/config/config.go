// Package config loads tool configuration from a YAML file with environment
// variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"remap/pkg/engine"
)

// Config holds all configuration for a migration run. Values come from a
// YAML file (remap.yaml by default) or environment variables; environment
// variables override file values.
type Config struct {
	// InputDir is the directory holding the legacy CSV extract.
	InputDir string `yaml:"input_dir" env:"REMAP_INPUT_DIR" env-default:"csv/input"`
	// OutputDir is where generated target-schema CSV files are written.
	OutputDir string `yaml:"output_dir" env:"REMAP_OUTPUT_DIR" env-default:"csv/output"`
	// ColumnConfigDir holds per-entity <entity>_column_config.json files.
	ColumnConfigDir string `yaml:"column_config_dir" env:"REMAP_COLUMN_CONFIG_DIR" env-default:"config"`
	// GroupsPath is the versioned groups document (funded set + keep list).
	GroupsPath string `yaml:"groups_path" env:"REMAP_GROUPS_PATH" env-default:"config/groups.yaml"`
	// OrphanPolicy is the default policy for unresolved foreign keys:
	// "null", "strict", or "drop".
	OrphanPolicy string `yaml:"orphan_policy" env:"REMAP_ORPHAN_POLICY" env-default:"null"`
	// Workers bounds the record-processing parallelism. Zero or negative
	// means one worker per CPU.
	Workers int `yaml:"workers" env:"REMAP_WORKERS" env-default:"0"`
}

// Load reads configuration from path, falling back to environment-only
// configuration when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read config from environment: %w", err)
		}
	}

	if _, err := cfg.Policy(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Policy parses the configured orphan policy.
func (c *Config) Policy() (engine.OrphanPolicy, error) {
	switch c.OrphanPolicy {
	case "", "null":
		return engine.NullOnOrphan, nil
	case "strict":
		return engine.Strict, nil
	case "drop":
		return engine.DropOnOrphan, nil
	default:
		return engine.NullOnOrphan, fmt.Errorf("unknown orphan policy %q (want null, strict, or drop)", c.OrphanPolicy)
	}
}
