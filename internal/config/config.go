// Package config loads layered configuration: struct defaults, then an
// optional YAML file, then PLAYLOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "PLAYLOG_CONFIG"

// envPrefix prefixes every recognized environment variable:
// PLAYLOG_DATABASE_URL -> database.url, PLAYLOG_SPOTIFY_CLIENT_ID ->
// spotify.client_id, and so on.
const envPrefix = "PLAYLOG_"

// DefaultConfigPaths lists where config files are searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Spotify  SpotifyConfig  `koanf:"spotify"`
	History  HistoryConfig  `koanf:"history"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// SpotifyConfig configures catalog API access.
type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
	TokenFile    string `koanf:"token_file"`
}

// HistoryConfig configures the bulk-history import.
type HistoryConfig struct {
	ExportDir  string        `koanf:"export_dir"`
	FlushPause time.Duration `koanf:"flush_pause"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL: "postgres://localhost:5432/playlog",
		},
		Spotify: SpotifyConfig{
			RedirectURL: "http://127.0.0.1:8080/callback",
			TokenFile:   "", // resolved to the user config dir when empty
		},
		History: HistoryConfig{
			ExportDir:  "extended_history",
			FlushPause: 3 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "logfmt",
		},
	}
}

// Load builds the configuration from defaults, an optional config file and
// environment variables, highest priority last.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(key string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields every run needs.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url must be set")
	}
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return errors.New("spotify.client_id and spotify.client_secret must be set")
	}
	return nil
}

// ResolveTokenFile returns the token cache path, defaulting to
// ~/.config/playlog/token.json.
func (c *Config) ResolveTokenFile() (string, error) {
	if c.Spotify.TokenFile != "" {
		return c.Spotify.TokenFile, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config dir: %w", err)
	}
	return filepath.Join(configDir, "playlog", "token.json"), nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
