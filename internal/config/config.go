// Package config provides configuration types and helpers for remapper.
package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDebounce is the watch-mode quiet period used when watch.debounce is
// unset.
const DefaultDebounce = 500 * time.Millisecond

// Config holds the application-wide configuration.
type Config struct {
	Format      string            `mapstructure:"format"`
	Verbose     bool              `mapstructure:"verbose"`
	Scan        ScanConfig        `mapstructure:"scan"`
	Compression CompressionConfig `mapstructure:"compression"`
	Watch       WatchConfig       `mapstructure:"watch"`
	S3          S3Config          `mapstructure:"s3"`
}

// ScanConfig controls how label files are read.
type ScanConfig struct {
	// MaxLineBytes bounds a single record line; 0 keeps the parser default.
	MaxLineBytes int `mapstructure:"max_line_bytes"`
}

// CompressionConfig controls compressed outputs (.gz, .zst, .lz4).
type CompressionConfig struct {
	Level int `mapstructure:"level"` // 0 selects the codec default
}

// WatchConfig controls remap --watch.
type WatchConfig struct {
	Debounce string `mapstructure:"debounce"` // e.g. "500ms", "2s"
}

// S3Config holds settings for s3:// inputs.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`   // host[:port], e.g. "s3.amazonaws.com"
	AccessKey string `mapstructure:"access_key"` // Optional: anonymous access if empty
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "text", "json", "table":
	default:
		return fmt.Errorf("invalid format %q (must be text, json or table)", c.Format)
	}

	if c.Scan.MaxLineBytes < 0 {
		return fmt.Errorf("scan.max_line_bytes must not be negative, got %d", c.Scan.MaxLineBytes)
	}

	if c.Compression.Level < 0 || c.Compression.Level > 22 {
		return fmt.Errorf("compression.level must be between 0 and 22, got %d", c.Compression.Level)
	}

	if _, err := c.DebounceDuration(); err != nil {
		return err
	}

	return nil
}

// DebounceDuration parses Watch.Debounce, falling back to DefaultDebounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Watch.Debounce) == "" {
		return DefaultDebounce, nil
	}
	d, err := ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch.debounce must not be negative, got %s", d)
	}
	return d, nil
}
