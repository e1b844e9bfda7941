// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppConfig holds all application configuration.
// It is instantiated by NewConfig() and passed to components that need it (dependency injection).
type AppConfig struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Audio      AudioConfig      `mapstructure:"audio" yaml:"audio"`
	Annotation AnnotationConfig `mapstructure:"annotation" yaml:"annotation"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" yaml:"analysis"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
}

// LogConfig holds comprehensive logging configuration
type LogConfig struct {
	Level    string            `mapstructure:"level" yaml:"level"`
	Format   string            `mapstructure:"format" yaml:"format"`
	Output   []LogOutputConfig `mapstructure:"output" yaml:"output"`
	Levels   map[string]string `mapstructure:"levels" yaml:"levels"`
	Context  LogContextConfig  `mapstructure:"context" yaml:"context"`
	Sampling LogSamplingConfig `mapstructure:"sampling" yaml:"sampling"`
}

// LogOutputConfig defines where logs are written
type LogOutputConfig struct {
	Type    string          `mapstructure:"type" yaml:"type"` // "file", "console"
	Enabled bool            `mapstructure:"enabled" yaml:"enabled"`
	Path    string          `mapstructure:"path" yaml:"path,omitempty"`
	Rotate  LogRotateConfig `mapstructure:"rotate" yaml:"rotate,omitempty"`
}

// LogRotateConfig defines log rotation settings
type LogRotateConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool `mapstructure:"compress" yaml:"compress"`
}

// LogContextConfig defines what context to include in logs
type LogContextConfig struct {
	IncludeCaller     bool   `mapstructure:"include_caller" yaml:"include_caller"`
	IncludeTimestamp  bool   `mapstructure:"include_timestamp" yaml:"include_timestamp"`
	IncludeStackTrace string `mapstructure:"include_stack_trace" yaml:"include_stack_trace"`
}

// LogSamplingConfig defines log sampling settings
type LogSamplingConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	Initial    uint32        `mapstructure:"initial" yaml:"initial"`
	Thereafter uint32        `mapstructure:"thereafter" yaml:"thereafter"`
	Tick       time.Duration `mapstructure:"tick" yaml:"tick"`
}

// AudioConfig controls playback.
type AudioConfig struct {
	SeekStep      time.Duration `mapstructure:"seek_step" yaml:"seek_step"`
	Rate          float64       `mapstructure:"rate" yaml:"rate"`
	MinRate       float64       `mapstructure:"min_rate" yaml:"min_rate"`
	MaxRate       float64       `mapstructure:"max_rate" yaml:"max_rate"`
	RateStep      float64       `mapstructure:"rate_step" yaml:"rate_step"`
	Autoplay      bool          `mapstructure:"autoplay" yaml:"autoplay"`
	AutoplayDelay time.Duration `mapstructure:"autoplay_delay" yaml:"autoplay_delay"`
	Refresh       time.Duration `mapstructure:"refresh" yaml:"refresh"` // playhead redraw interval
}

// AnnotationConfig controls how key sequences become annotations and where they are stored.
type AnnotationConfig struct {
	Tier            string        `mapstructure:"tier" yaml:"tier"`
	SequenceTimeout time.Duration `mapstructure:"sequence_timeout" yaml:"sequence_timeout"`
}

// AnalysisConfig holds spectrogram and pitch settings.
type AnalysisConfig struct {
	WindowLength  time.Duration `mapstructure:"window_length" yaml:"window_length"`
	MaxFrequency  float64       `mapstructure:"max_frequency" yaml:"max_frequency"`
	DynamicRange  float64       `mapstructure:"dynamic_range" yaml:"dynamic_range"`
	PitchFloor    float64       `mapstructure:"pitch_floor" yaml:"pitch_floor"`
	PitchCeiling  float64       `mapstructure:"pitch_ceiling" yaml:"pitch_ceiling"`
	PitchTimeStep time.Duration `mapstructure:"pitch_time_step" yaml:"pitch_time_step"`
}

// DatabaseConfig holds all database configuration.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"-"`
	Database string `mapstructure:"database" yaml:"database"`
	SSLMode  string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// NewConfig creates a new AppConfig by reading from a file, environment variables,
// and applying defaults.
func NewConfig(configPath string) (*AppConfig, error) {
	cfg := defaultConfig()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.toneswiper")
	}

	v.SetEnvPrefix("TONESWIPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	// Read the config file. It's okay if it doesn't exist.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.expandPaths()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers every scalar key so AutomaticEnv can see it during
// Unmarshal even when no config file mentions the key.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"log.level", "log.format",
		"audio.seek_step", "audio.rate", "audio.min_rate", "audio.max_rate", "audio.rate_step",
		"audio.autoplay", "audio.autoplay_delay", "audio.refresh",
		"annotation.tier", "annotation.sequence_timeout",
		"analysis.window_length", "analysis.max_frequency", "analysis.dynamic_range",
		"analysis.pitch_floor", "analysis.pitch_ceiling", "analysis.pitch_time_step",
		"database.driver", "database.host", "database.port", "database.username",
		"database.password", "database.database", "database.ssl_mode",
	} {
		_ = v.BindEnv(key)
	}
}

// defaultConfig returns an AppConfig with default values.
// This is more type-safe than using viper.SetDefault().
func defaultConfig() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Level:  "INFO",
			Format: "console",
			Output: []LogOutputConfig{
				{
					Type:    "file",
					Enabled: true,
					Path:    "./logs/toneswiper.log",
					Rotate: LogRotateConfig{
						MaxSizeMB:  20,
						MaxBackups: 3,
						MaxAgeDays: 30,
						Compress:   true,
					},
				},
				{
					Type:    "console",
					Enabled: false, // the terminal belongs to the UI
				},
			},
			Levels: map[string]string{
				"cli":      "INFO",
				"tui":      "INFO",
				"audio":    "WARN",
				"store":    "INFO",
				"analysis": "WARN",
			},
			Context: LogContextConfig{
				IncludeCaller:     false,
				IncludeTimestamp:  true,
				IncludeStackTrace: "ERROR",
			},
			Sampling: LogSamplingConfig{
				Enabled:    false,
				Initial:    100,
				Thereafter: 100,
				Tick:       time.Second,
			},
		},
		Audio: AudioConfig{
			SeekStep:      500 * time.Millisecond,
			Rate:          1.0,
			MinRate:       0.5,
			MaxRate:       2.0,
			RateStep:      0.1,
			Autoplay:      true,
			AutoplayDelay: 150 * time.Millisecond,
			Refresh:       40 * time.Millisecond,
		},
		Annotation: AnnotationConfig{
			Tier:            "ToDI",
			SequenceTimeout: 350 * time.Millisecond,
		},
		Analysis: AnalysisConfig{
			WindowLength:  30 * time.Millisecond,
			MaxFrequency:  8000,
			DynamicRange:  70,
			PitchFloor:    75,
			PitchCeiling:  600,
			PitchTimeStep: 10 * time.Millisecond,
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Database: "toneswiper.db",
			Host:     "localhost",
			Port:     5432,
			SSLMode:  "disable",
		},
	}
}

// Default returns the built-in configuration without reading files or the environment.
func Default() *AppConfig {
	cfg := defaultConfig()
	return &cfg
}

// expandPaths expands ~ and environment variables in path configuration values
func (c *AppConfig) expandPaths() {
	for i := range c.Log.Output {
		if c.Log.Output[i].Path != "" {
			c.Log.Output[i].Path = expandPath(c.Log.Output[i].Path)
		}
	}
	if c.Database.Driver == "sqlite" && c.Database.Database != "" {
		c.Database.Database = expandPath(c.Database.Database)
	}
}

// expandPath expands ~ to home directory and environment variables
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}

// validate checks if the configuration is valid.
func (c *AppConfig) validate() error {
	validLogLevels := map[string]bool{
		"TRACE": true, "DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "FATAL": true, "PANIC": true,
	}
	if !validLogLevels[strings.ToUpper(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	a := c.Audio
	if a.SeekStep <= 0 {
		return fmt.Errorf("audio.seek_step must be positive, got: %s", a.SeekStep)
	}
	if a.MinRate <= 0 || a.MaxRate > 4 || a.MinRate > a.MaxRate {
		return fmt.Errorf("audio rate bounds must satisfy 0 < min_rate <= max_rate <= 4, got: [%g, %g]", a.MinRate, a.MaxRate)
	}
	if a.Rate < a.MinRate || a.Rate > a.MaxRate {
		return fmt.Errorf("audio.rate %g outside [%g, %g]", a.Rate, a.MinRate, a.MaxRate)
	}
	if a.RateStep <= 0 {
		return fmt.Errorf("audio.rate_step must be positive, got: %g", a.RateStep)
	}
	if a.Refresh <= 0 {
		return fmt.Errorf("audio.refresh must be positive, got: %s", a.Refresh)
	}

	if strings.TrimSpace(c.Annotation.Tier) == "" {
		return errors.New("annotation.tier is required")
	}
	if c.Annotation.SequenceTimeout <= 0 {
		return fmt.Errorf("annotation.sequence_timeout must be positive, got: %s", c.Annotation.SequenceTimeout)
	}

	an := c.Analysis
	if an.WindowLength <= 0 || an.PitchTimeStep <= 0 {
		return errors.New("analysis window_length and pitch_time_step must be positive")
	}
	if an.MaxFrequency <= 0 || an.DynamicRange <= 0 {
		return errors.New("analysis max_frequency and dynamic_range must be positive")
	}
	if an.PitchFloor <= 0 || an.PitchFloor >= an.PitchCeiling {
		return fmt.Errorf("analysis pitch range invalid: [%g, %g]", an.PitchFloor, an.PitchCeiling)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	return nil
}

// GetDSN returns the database connection string.
func (dc *DatabaseConfig) GetDSN() string {
	switch dc.Driver {
	case "sqlite":
		dsn := dc.Database
		if dsn == ":memory:" {
			dsn = "file::memory:?cache=shared"
		}
		return dsn
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dc.Host, dc.Port, dc.Username, dc.Password, dc.Database, dc.SSLMode)
	default:
		return dc.Database
	}
}
