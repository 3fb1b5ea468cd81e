// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading TradingConfig `mapstructure:"trading"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Data    DataConfig    `mapstructure:"data"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TradingConfig holds trading-related configuration.
type TradingConfig struct {
	DefaultMode     string  `mapstructure:"default_mode"` // "real", "theoretical"
	LongTradeLimit  float64 `mapstructure:"long_trade_limit"`
	ShortTradeLimit float64 `mapstructure:"short_trade_limit"`
}

// ScoringConfig holds discipline-scoring configuration.
type ScoringConfig struct {
	// EntryMissPenalty is the score delta applied for MISS THE ENTRY /
	// ENTRY MISS trades. Only -10, -5 and 0 are accepted.
	EntryMissPenalty int `mapstructure:"entry_miss_penalty"`
}

// DataConfig holds persistence configuration.
type DataConfig struct {
	Dir string `mapstructure:"dir"` // snapshot + archive directory
}

// UIConfig holds output-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradevision"
	}
	return filepath.Join(home, ".config", "tradevision")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := writeTemplate(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("trading.default_mode", "real")
	v.SetDefault("trading.long_trade_limit", 0.0)
	v.SetDefault("trading.short_trade_limit", 0.0)
	v.SetDefault("scoring.entry_miss_penalty", -5)
	v.SetDefault("data.dir", filepath.Join(configDir, "data"))
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02 Jan 2006")
	v.SetDefault("ui.time_format", "15:04:05")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADEVISION_MODE"); v != "" {
		cfg.Trading.DefaultMode = v
	}
	if v := os.Getenv("TRADEVISION_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("TRADEVISION_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Trading.DefaultMode != "real" && c.Trading.DefaultMode != "theoretical" {
		return fmt.Errorf("invalid default mode: %s (must be 'real' or 'theoretical')", c.Trading.DefaultMode)
	}

	switch c.Scoring.EntryMissPenalty {
	case -10, -5, 0:
	default:
		return fmt.Errorf("entry_miss_penalty must be -10, -5 or 0, got %d", c.Scoring.EntryMissPenalty)
	}

	if c.Trading.LongTradeLimit < 0 {
		return fmt.Errorf("long_trade_limit must be non-negative")
	}
	if c.Trading.ShortTradeLimit < 0 {
		return fmt.Errorf("short_trade_limit must be non-negative")
	}

	return nil
}
