// Package daemon manages the standbyd process lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	Standby StandbyConfig `toml:"standby"`
	API     APIConfig     `toml:"api"`
	Logging LoggingConfig `toml:"logging"`
}

// StandbyConfig controls the engine itself.
type StandbyConfig struct {
	DataDir      string `toml:"data_dir"`
	ScanInterval string `toml:"scan_interval"` // time.ParseDuration format, e.g. "30s"
	Settings     string `toml:"settings"`      // raw "screen_thresholds=.../elapsed_thresholds=..." string
}

// APIConfig controls the debug-only HTTP surface.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := standbyHome()
	return Config{
		Standby: StandbyConfig{
			DataDir:      filepath.Join(homeDir, "standby"),
			ScanInterval: "30s",
			Settings:     "",
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 11435,
		},
		Logging: LoggingConfig{
			Level:     "info",
			File:      filepath.Join(homeDir, "standbyd.log"),
			MaxSizeMB: 50,
			MaxFiles:  5,
		},
	}
}

// LoadConfig reads config from ~/.standbyd/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(standbyHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet - use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.standbyd/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(standbyHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// standbyHome returns the standbyd data directory.
func standbyHome() string {
	if env := os.Getenv("STANDBYD_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".standbyd")
}

// StandbyHome is exported for use by other packages.
func StandbyHome() string {
	return standbyHome()
}
