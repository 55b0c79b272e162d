package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/photoboard/fetch"
)

type fakeFlags struct {
	strings   map[string]string
	ints      map[string]int
	durations map[string]time.Duration
}

func (f fakeFlags) IsSet(name string) bool {
	_, s := f.strings[name]
	_, i := f.ints[name]
	_, d := f.durations[name]
	return s || i || d
}

func (f fakeFlags) String(name string) string          { return f.strings[name] }
func (f fakeFlags) Int(name string) int                { return f.ints[name] }
func (f fakeFlags) Duration(name string) time.Duration { return f.durations[name] }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photoboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, fetch.DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, 20, cfg.PhotoLimit)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
listen_addr: 127.0.0.1:9000
data_path: /var/lib/photoboard
photo_limit: 50
refresh_interval: 15m
cache_ttl: 30s
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, 50, cfg.PhotoLimit)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, fetch.DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, filepath.Join("/var/lib/photoboard", "photoboard.db"), cfg.DatabasePath())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "photo_limit: [oops"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no listen", func(c *Config) { c.ListenAddr = "" }, false},
		{"negative limit", func(c *Config) { c.PhotoLimit = -1 }, false},
		{"zero interval", func(c *Config) { c.RefreshInterval = 0 }, false},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, false},
		{"bucket without key", func(c *Config) { c.S3Bucket = "b" }, false},
		{"s3 only", func(c *Config) { c.SourceURL = ""; c.S3Bucket = "b"; c.S3Key = "k" }, true},
		{"no source", func(c *Config) { c.SourceURL = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestFromFlags_OverridesFile(t *testing.T) {
	path := writeConfig(t, "photo_limit: 50\nlog_level: warn\n")
	flags := fakeFlags{
		strings: map[string]string{
			"config":    path,
			"s3-bucket": "photos",
			"s3-key":    "photos.json",
		},
		ints:      map[string]int{"photo-limit": 5},
		durations: map[string]time.Duration{"refresh-interval": time.Minute},
	}

	cfg, err := FromFlags(flags)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.PhotoLimit)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
	assert.True(t, cfg.UsesS3())
}

func TestFromFlags_Invalid(t *testing.T) {
	flags := fakeFlags{durations: map[string]time.Duration{"refresh-interval": 0}}
	_, err := FromFlags(flags)
	assert.Error(t, err)
}
