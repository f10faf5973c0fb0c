// Package daemon manages the WordKite service lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Engine    EngineConfig    `toml:"engine"`
	Remote    RemoteConfig    `toml:"remote"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// EngineConfig controls progression accounting.
type EngineConfig struct {
	MilestoneInterval  int64  `toml:"milestone_interval"`
	MilestoneBonusGems int64  `toml:"milestone_bonus_gems"`
	Timezone           string `toml:"timezone"` // IANA name; empty = host local
}

// RemoteConfig controls the authoritative store connection. Environment
// variables override the file so deployments can inject credentials
// without editing config.toml.
type RemoteConfig struct {
	Enabled      bool   `toml:"enabled" env:"WORDKITE_REMOTE_ENABLED"`
	DSN          string `toml:"dsn" env:"WORDKITE_REMOTE_DSN"`
	SyncInterval string `toml:"sync_interval" env:"WORDKITE_SYNC_INTERVAL"`
	BatchSize    int    `toml:"batch_size" env:"WORDKITE_SYNC_BATCH"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := wordkiteHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8642,
			CORSOrigins: []string{"*"},
		},
		Engine: EngineConfig{
			MilestoneInterval:  6,
			MilestoneBonusGems: 5,
		},
		Remote: RemoteConfig{
			Enabled:      false,
			SyncInterval: "5s",
			BatchSize:    50,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "wordkite.log"),
		},
	}
}

// LoadConfig reads config from $WORDKITE_HOME/config.toml, falling back
// to defaults, then applies environment overrides to the remote section.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(wordkiteHome(), "config.toml")

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg.Remote); err != nil {
		return cfg, fmt.Errorf("parse remote env overrides: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to $WORDKITE_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(wordkiteHome(), "config.toml")
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

// SyncIntervalDuration parses the configured interval, defaulting to 5s.
func (c RemoteConfig) SyncIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.SyncInterval)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// wordkiteHome returns the WordKite data directory.
func wordkiteHome() string {
	if env := os.Getenv("WORDKITE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wordkite")
}

// Home is exported for use by other packages.
func Home() string {
	return wordkiteHome()
}
