package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional taxakey.yaml in the working directory.
// Command-line flags override anything set here.
type Config struct {
	Version  int      `yaml:"version"`
	Database Database `yaml:"database"`
	MediaDir string   `yaml:"media_dir"`
}

type Database struct {
	DSN string `yaml:"dsn"`
}

func Default() *Config {
	return &Config{
		Version:  1,
		Database: Database{DSN: "sqlite://taxakey.db"},
		MediaDir: "media",
	}
}

// Load reads the config file at path. A missing file is not an error: the
// defaults apply.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	return nil
}
