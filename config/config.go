// Package config holds photoboard's runtime configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aouyang1/photoboard/fetch"
	"github.com/aouyang1/photoboard/store"
)

const (
	DefaultListenAddr = "0.0.0.0:8080"
	DefaultDataPath   = "."
	databaseFileName  = "photoboard.db"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DataPath   string `yaml:"data_path"`

	SourceURL  string `yaml:"source_url"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Key      string `yaml:"s3_key"`
	AWSProfile string `yaml:"aws_profile"`
	AWSRegion  string `yaml:"aws_region"`

	PhotoLimit      int           `yaml:"photo_limit"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`

	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		ListenAddr:      DefaultListenAddr,
		DataPath:        DefaultDataPath,
		SourceURL:       fetch.DefaultSourceURL,
		PhotoLimit:      store.DefaultPhotoLimit,
		RefreshInterval: store.DefaultRefreshIntervalSeconds * time.Second,
		CacheTTL:        fetch.DefaultCacheTTL,
		LogLevel:        "info",
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file, %s, %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file, %s, %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address is required")
	}
	if c.PhotoLimit < 0 {
		return fmt.Errorf("photo limit must not be negative, got %d", c.PhotoLimit)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", c.RefreshInterval)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.CacheTTL)
	}
	if (c.S3Bucket == "") != (c.S3Key == "") {
		return errors.New("s3 bucket and s3 key must be set together")
	}
	if c.S3Bucket == "" && c.SourceURL == "" {
		return errors.New("either a source url or an s3 bucket is required")
	}
	return nil
}

// UsesS3 reports whether photos are loaded from S3 instead of SourceURL.
func (c *Config) UsesS3() bool {
	return c.S3Bucket != ""
}

func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataPath, databaseFileName)
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
