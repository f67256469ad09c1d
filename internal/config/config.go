// Package config loads photoscout settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables consulted by FromEnv.
const (
	EnvAccessKey  = "UNSPLASH_ACCESS_KEY"
	EnvAPIURL     = "PHOTOSCOUT_API_URL"
	EnvLogFile    = "PHOTOSCOUT_LOG"
	EnvConfigFile = "PHOTOSCOUT_CONFIG"
)

const (
	appDir   = "photoscout"
	fileName = "config.toml"

	defaultHoverDelayMS = 500
	defaultQuery        = "Random"
)

// Config is the merged application configuration.
type Config struct {
	AccessKey    string `toml:"access_key"`
	APIURL       string `toml:"api_url"`
	DefaultQuery string `toml:"default_query"`
	HoverDelayMS int    `toml:"hover_delay_ms"`
	Legacy       bool   `toml:"legacy"`
	Thumbnails   bool   `toml:"thumbnails"`
	CacheDir     string `toml:"cache_dir"`
	LogFile      string `toml:"log_file"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() Config {
	return Config{
		DefaultQuery: defaultQuery,
		HoverDelayMS: defaultHoverDelayMS,
		Thumbnails:   true,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appDir, fileName)
}

// LoadFromPath reads path over the defaults. A missing file is not an error.
func LoadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Load reads path, or DefaultPath when path is empty, then applies the
// environment overlay.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg, err := LoadFromPath(path)
	if err != nil {
		return cfg, err
	}
	cfg.FromEnv()
	return cfg, nil
}

// FromEnv overrides fields whose environment variables are set.
func (c *Config) FromEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAccessKey)); v != "" {
		c.AccessKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.LogFile = v
	}
}

// HoverDelay returns the hover delay as a duration.
func (c Config) HoverDelay() time.Duration {
	return time.Duration(c.HoverDelayMS) * time.Millisecond
}

// Save writes cfg to path, creating parent directories. The access key is
// never written.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	cfg.AccessKey = ""
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders cfg for logs with the access key masked.
func (c Config) String() string {
	key := "unset"
	if c.AccessKey != "" {
		key = "set"
	}
	return fmt.Sprintf("api_url=%q default_query=%q hover_delay_ms=%d legacy=%t thumbnails=%t access_key=%s",
		c.APIURL, c.DefaultQuery, c.HoverDelayMS, c.Legacy, c.Thumbnails, key)
}

func (c *Config) normalize() {
	c.AccessKey = strings.TrimSpace(c.AccessKey)
	c.DefaultQuery = strings.TrimSpace(c.DefaultQuery)
	if c.DefaultQuery == "" {
		c.DefaultQuery = defaultQuery
	}
	if c.HoverDelayMS <= 0 {
		c.HoverDelayMS = defaultHoverDelayMS
	}
}
