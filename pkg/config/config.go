// Package config provides configuration loading for the engine binaries.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the structure of the duepilot.yaml file shared by the API and
// the dispatcher.
type Config struct {
	// Company holds the fixed template context merged into every rendered
	// message, e.g. companyName and companyPhone. Keys mirror template
	// placeholders exactly.
	Company map[string]string `yaml:"company"`

	// Schedule is the cron expression driving dispatcher evaluation runs.
	Schedule string `yaml:"schedule"`

	// Outbox configures the Redis list rendered messages are pushed to.
	// Empty queue disables the outbox.
	Outbox map[string]string `yaml:"outbox"`

	// Fixtures point at the demo data files.
	Fixtures FixturesConfig `yaml:"fixtures"`
}

type FixturesConfig struct {
	Invoices  string `yaml:"invoices"`
	Workflows string `yaml:"workflows"`
}

// Load reads and parses the YAML config at path, applying defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	applyDefaults(&cfg)

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)

	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Company == nil {
		cfg.Company = make(map[string]string)
	}

	if cfg.Schedule == "" {
		// Once a day, 08:00.
		cfg.Schedule = "0 8 * * *"
	}
}
