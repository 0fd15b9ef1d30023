// Package config loads annokit settings from a TOML file: the ordered
// container registration table, logging, media decoding and batch workers.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Container is one row of the registration table. Order is significant.
type Container struct {
	Pattern string `toml:"pattern"`
	Format  string `toml:"format"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Media configures the image and frame decoding collaborator.
type Media struct {
	DPI                int    `toml:"dpi"`
	FFmpeg             string `toml:"ffmpeg"`
	FFprobe            string `toml:"ffprobe"`
	FrameTimeoutSecond int    `toml:"frame_timeout_seconds"`
}

type Config struct {
	Containers []Container `toml:"containers"`
	Logging    Logging     `toml:"logging"`
	Media      Media       `toml:"media"`
	// Workers bounds parallel conversions; 0 picks the logical CPU count.
	Workers  int  `toml:"workers"`
	FileLock bool `toml:"file_lock"`
}

// Default returns the configuration used when no file is given. An empty
// container table selects the built-in registrations.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info", Format: "console"},
		Media: Media{
			DPI:                150,
			FFmpeg:             "ffmpeg",
			FFprobe:            "ffprobe",
			FrameTimeoutSecond: 30,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks values that do not depend on other packages. Format names
// are resolved later by the registry.
func (c *Config) Validate() error {
	for i, ct := range c.Containers {
		if strings.TrimSpace(ct.Pattern) == "" {
			return fmt.Errorf("containers[%d]: pattern is required", i)
		}
		if strings.TrimSpace(ct.Format) == "" {
			return fmt.Errorf("containers[%d] (%s): format is required", i, ct.Pattern)
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Media.DPI < 0 {
		return fmt.Errorf("media.dpi must be >= 0, got %d", c.Media.DPI)
	}
	return nil
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
