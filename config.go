package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	SourceAPI      = "api"
	SourceMiniflux = "miniflux"
)

type Config struct {
	BaseURL                string `mapstructure:"base_url"`
	Source                 string `mapstructure:"source"`
	MinifluxAPIKey         string `mapstructure:"miniflux_api_key"`
	PostLimit              int    `mapstructure:"post_limit"`
	RefreshIntervalMinutes int    `mapstructure:"refresh_interval_minutes"`
	Concurrency            int    `mapstructure:"concurrency"`
	RequestsPerSecond      int    `mapstructure:"requests_per_second"`
	RequestTimeoutSeconds  int    `mapstructure:"request_timeout_seconds"`
	LogPath                string `mapstructure:"log_path"`
	LogLevel               string `mapstructure:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:               "http://localhost:8080/api",
		Source:                SourceAPI,
		PostLimit:             defaultPostLimit,
		Concurrency:           4,
		RequestsPerSecond:     10,
		RequestTimeoutSeconds: 15,
		LogPath:               defaultLogPath(),
		LogLevel:              "info",
	}
}

// LoadConfig reads the config file at path, or the default location when path
// is empty. A missing default file is created with defaults. Environment
// variables prefixed NEWSTERMINAL_ override file values.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
	}
	v := newViper(path)
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return Config{}, err
		}
		if err := SaveConfig(path, DefaultConfig()); err != nil {
			return Config{}, err
		}
	}
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigType("toml")
	v.Set("base_url", cfg.BaseURL)
	v.Set("source", cfg.Source)
	v.Set("post_limit", cfg.PostLimit)
	v.Set("refresh_interval_minutes", cfg.RefreshIntervalMinutes)
	v.Set("concurrency", cfg.Concurrency)
	v.Set("requests_per_second", cfg.RequestsPerSecond)
	v.Set("request_timeout_seconds", cfg.RequestTimeoutSeconds)
	v.Set("log_path", cfg.LogPath)
	v.Set("log_level", cfg.LogLevel)
	if cfg.MinifluxAPIKey != "" {
		v.Set("miniflux_api_key", cfg.MinifluxAPIKey)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("newsterminal")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	defaults := DefaultConfig()
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("source", defaults.Source)
	v.SetDefault("miniflux_api_key", "")
	v.SetDefault("post_limit", defaults.PostLimit)
	v.SetDefault("refresh_interval_minutes", defaults.RefreshIntervalMinutes)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("requests_per_second", defaults.RequestsPerSecond)
	v.SetDefault("request_timeout_seconds", defaults.RequestTimeoutSeconds)
	v.SetDefault("log_path", defaults.LogPath)
	v.SetDefault("log_level", defaults.LogLevel)
	return v
}

func validateConfig(cfg Config) error {
	switch cfg.Source {
	case SourceAPI, SourceMiniflux:
	default:
		return fmt.Errorf("invalid source: %q", cfg.Source)
	}
	if cfg.PostLimit <= 0 {
		return fmt.Errorf("invalid post_limit: %d", cfg.PostLimit)
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("invalid concurrency: %d", cfg.Concurrency)
	}
	if cfg.RefreshIntervalMinutes < 0 {
		return fmt.Errorf("invalid refresh_interval_minutes: %d", cfg.RefreshIntervalMinutes)
	}
	if cfg.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid requests_per_second: %d", cfg.RequestsPerSecond)
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("invalid request_timeout_seconds: %d", cfg.RequestTimeoutSeconds)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

func configPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "newsterminal", "config.toml")
}

func defaultLogPath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "newsterminal.log"
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "newsterminal", "newsterminal.log")
}
