// Package config builds loggers from declarative configuration: TOML
// documents, environment overrides, or fluent Go code, with optional
// hot-reload of a watched file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/j-raghavan/goguru/async"
	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/formatter"
	"github.com/j-raghavan/goguru/handler"
	"github.com/j-raghavan/goguru/logger"
)

// Environment variables recognized by WithEnvOverrides.
const (
	EnvLevel         = "GOGURU_LEVEL"
	EnvCaptureSource = "GOGURU_CAPTURE_SOURCE"
	EnvUseColors     = "GOGURU_USE_COLORS"
	EnvFormat        = "GOGURU_FORMAT"
)

// Config is the declarative shape of a logger. Zero values fall back to
// the defaults at Build time.
type Config struct {
	// Level is the logger's severity floor, e.g. "INFO"
	Level string `toml:"level"`
	// Format selects the formatter: "text" or "json"
	Format string `toml:"format"`
	// Pattern is the text formatter's layout
	Pattern string `toml:"pattern"`
	// Colors enables ANSI colored levels in text output
	Colors bool `toml:"colors"`
	// CaptureSource resolves caller locations on convenience methods
	CaptureSource bool `toml:"capture_source"`
	// Async configures the worker pool
	Async AsyncConfig `toml:"async"`
}

// AsyncConfig shapes the batched dispatch pool.
type AsyncConfig struct {
	Enabled         bool `toml:"enabled"`
	QueueSize       int  `toml:"queue_size"`
	BatchSize       int  `toml:"batch_size"`
	FlushIntervalMS int  `toml:"flush_interval_ms"`
	Workers         int  `toml:"workers"`
}

// Default returns the baseline configuration: synchronous, info level,
// text format without colors.
func Default() Config {
	return Config{
		Level:   core.InfoLevel.String(),
		Format:  "text",
		Pattern: formatter.DefaultPattern,
		Async: AsyncConfig{
			QueueSize:       async.DefaultQueueSize,
			BatchSize:       async.DefaultBatchSize,
			FlushIntervalMS: int(async.DefaultFlushInterval / time.Millisecond),
			Workers:         async.DefaultWorkers,
		},
	}
}

// FromTOML parses a TOML document over the defaults.
func FromTOML(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse toml: %w", err)
	}
	return cfg, nil
}

// FromTOMLFile reads and parses a TOML file over the defaults.
func FromTOMLFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	return FromTOML(data)
}

// WithLevel sets the severity floor.
func (c *Config) WithLevel(level core.Level) *Config {
	c.Level = level.String()
	return c
}

// WithFormat selects "text" or "json" output.
func (c *Config) WithFormat(format string) *Config {
	c.Format = format
	return c
}

// WithPattern sets the text formatter's layout.
func (c *Config) WithPattern(pattern string) *Config {
	c.Pattern = pattern
	return c
}

// WithColors toggles ANSI colored levels.
func (c *Config) WithColors(colors bool) *Config {
	c.Colors = colors
	return c
}

// WithCaptureSource toggles caller resolution.
func (c *Config) WithCaptureSource(capture bool) *Config {
	c.CaptureSource = capture
	return c
}

// WithAsync enables the worker pool with the given queue capacity.
// queueSize <= 0 keeps the current capacity.
func (c *Config) WithAsync(queueSize int) *Config {
	c.Async.Enabled = true
	if queueSize > 0 {
		c.Async.QueueSize = queueSize
	}
	return c
}

// WithEnvOverrides applies the GOGURU_* environment variables on top of
// the current values. Unset variables leave their fields untouched;
// unparsable values are ignored.
func (c *Config) WithEnvOverrides() *Config {
	if v := os.Getenv(EnvLevel); v != "" {
		if level, err := core.ParseLevel(v); err == nil {
			c.Level = level.String()
		}
	}
	if v := os.Getenv(EnvCaptureSource); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CaptureSource = b
		}
	}
	if v := os.Getenv(EnvUseColors); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Colors = b
		}
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	return c
}

// Formatter materializes the configured formatter.
func (c *Config) Formatter() (formatter.Formatter, error) {
	switch c.Format {
	case "", "text":
		return formatter.NewTextFormatter(formatter.Config{
			Pattern: c.Pattern,
			Colors:  c.Colors,
		}), nil
	case "json":
		return formatter.NewJSONFormatter(formatter.Config{}), nil
	default:
		return nil, fmt.Errorf("config: unknown format %q", c.Format)
	}
}

// Build materializes a logger with one console handler on stdout,
// shaped by the configuration.
func (c *Config) Build() (*logger.Logger, error) {
	level, err := core.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	fmtr, err := c.Formatter()
	if err != nil {
		return nil, err
	}

	l := logger.New(level)
	l.SetCaptureSource(c.CaptureSource)
	l.AddHandler(handler.NewRef(handler.NewConsoleHandler(handler.ConsoleConfig{
		Level:     core.TraceLevel,
		Formatter: fmtr,
	})))

	if c.Async.Enabled {
		if c.Async.BatchSize > 0 {
			l.SetBatchSize(c.Async.BatchSize)
		}
		if c.Async.FlushIntervalMS > 0 {
			l.SetFlushInterval(time.Duration(c.Async.FlushIntervalMS) * time.Millisecond)
		}
		if c.Async.Workers > 0 {
			l.SetWorkerThreads(c.Async.Workers)
		}
		l.SetAsync(true, c.Async.QueueSize)
	}
	return l, nil
}
