// Package config loads server configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store backend names accepted in the config.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the address to listen on.
	Addr string `yaml:"addr"`
	// DataDir holds the JSON collection files or the SQLite database.
	DataDir string `yaml:"data_dir"`
	// ExportsDir receives exported HTML and text files.
	ExportsDir string `yaml:"exports_dir"`
	// Store selects the persistence backend: "json" or "sqlite".
	Store string `yaml:"store"`
	// RecentLimit is the default page size of the recently-opened list.
	RecentLimit int `yaml:"recent_limit"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file or flags override it.
func Default() Config {
	return Config{
		Addr:        "localhost:5000",
		DataDir:     "./data",
		ExportsDir:  "./exports",
		Store:       StoreJSON,
		RecentLimit: 10,
		LogLevel:    "info",
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Store != StoreJSON && c.Store != StoreSQLite {
		return fmt.Errorf("unknown store backend: %q", c.Store)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("recent_limit must be positive, got %d", c.RecentLimit)
	}
	return nil
}
