package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Acquisition AcquisitionConfig `toml:"acquisition"`
	Storage     StorageConfig     `toml:"storage"`
	Player      PlayerConfig      `toml:"player"`
}

// AcquisitionConfig controls the Invidious search/import client.
type AcquisitionConfig struct {
	Instances      []string `toml:"instances"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	MaxResults     int      `toml:"max_results"`
	RateLimit      float64  `toml:"rate_limit"`
}

// Timeout returns the per-attempt request timeout.
func (c AcquisitionConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 8 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig contains local persistence settings.
type StorageConfig struct {
	Path         string `toml:"path"`
	CacheTTLDays int    `toml:"cache_ttl_days"`
}

// PlayerConfig contains playback session settings.
type PlayerConfig struct {
	PollIntervalMs int `toml:"poll_interval_ms"`
}

// PollInterval returns the widget polling cadence.
func (c PlayerConfig) PollInterval() time.Duration {
	if c.PollIntervalMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
