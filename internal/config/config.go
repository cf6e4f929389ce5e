// Package config loads the simulator configuration from file and environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete simulator configuration.
type Config struct {
	Sim     SimConfig          `mapstructure:"sim"`
	Archive ArchiveConfig      `mapstructure:"archive"`
	API     APIConfig          `mapstructure:"api"`
	Logging LoggingConfig      `mapstructure:"logging"`
	Knobs   map[string]float64 `mapstructure:"knobs"`
}

// SimConfig controls the tick loop and simulated clock.
type SimConfig struct {
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	TimeScale     float64       `mapstructure:"time_scale"`
	Seed          int64         `mapstructure:"seed"`
	Civilizations int           `mapstructure:"civilizations"`
}

// ArchiveConfig holds the persistence sink configuration.
type ArchiveConfig struct {
	Path    string `mapstructure:"path"`
	Enabled bool   `mapstructure:"enabled"`
}

// APIConfig holds the observation API configuration.
type APIConfig struct {
	Port     int    `mapstructure:"port"`
	AdminKey string `mapstructure:"admin_key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file plus EVENTSIM_ environment
// overrides. An empty path uses defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("EVENTSIM")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sim.tick_interval", "2s")
	v.SetDefault("sim.time_scale", 86400.0) // one real second is one sim day
	v.SetDefault("sim.seed", 0)             // 0 means non-deterministic entropy
	v.SetDefault("sim.civilizations", 8)

	v.SetDefault("archive.path", "./data/events.db")
	v.SetDefault("archive.enabled", true)

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.admin_key", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Sim.TickInterval < 100*time.Millisecond {
		return fmt.Errorf("sim.tick_interval must be at least 100ms")
	}
	if c.Sim.TimeScale <= 0 {
		return fmt.Errorf("sim.time_scale must be positive")
	}
	if c.Sim.Civilizations < 1 {
		return fmt.Errorf("sim.civilizations must be at least 1")
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api.port must be a valid port")
	}
	if c.Archive.Enabled && c.Archive.Path == "" {
		return fmt.Errorf("archive.path is required when archive is enabled")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	for name, value := range c.Knobs {
		if value < 0 || value > 1 {
			return fmt.Errorf("knobs.%s must be between 0.0 and 1.0", name)
		}
	}

	return nil
}
