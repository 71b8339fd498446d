// Package config loads the server configuration: defaults, then an
// optional YAML file, then command line flags.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/kingdom-api/internal/errors"
)

// Storage backends
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Storage selects and configures the kingdom repository
type Storage struct {
	Backend    string `yaml:"backend"`
	RedisAddr  string `yaml:"redis_addr"`
	RedisURL   string `yaml:"redis_url"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Config is the server configuration
type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	MaxCatchUpTicks int           `yaml:"max_catch_up_ticks"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	RulesFile       string        `yaml:"rules_file"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	Storage         Storage       `yaml:"storage"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		HTTPAddr:        ":8080",
		TickInterval:    time.Second,
		MaxCatchUpTicks: 3600,
		LogLevel:        "info",
		LogFormat:       LogFormatText,
		AllowedOrigins:  []string{"http://localhost:3000"},
		Storage: Storage{
			Backend:   BackendRedis,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse config file")
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("http_addr", c.HTTPAddr, vb)
	if c.TickInterval <= 0 {
		vb.Field("tick_interval", "must be positive")
	}
	if c.MaxCatchUpTicks < 0 {
		vb.Field("max_catch_up_ticks", "must not be negative")
	}
	errors.ValidateEnum("log_level", strings.ToLower(c.LogLevel),
		[]string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("log_format", c.LogFormat, []string{LogFormatText, LogFormatJSON}, vb)

	errors.ValidateEnum("storage.backend", c.Storage.Backend,
		[]string{BackendRedis, BackendSQLite, BackendMemory}, vb)
	switch c.Storage.Backend {
	case BackendRedis:
		if c.Storage.RedisAddr == "" && c.Storage.RedisURL == "" {
			vb.Field("storage.redis_addr", "redis_addr or redis_url is required for the redis backend")
		}
	case BackendSQLite:
		errors.ValidateRequired("storage.sqlite_path", c.Storage.SQLitePath, vb)
	}

	return vb.Build()
}

// SlogLevel converts LogLevel for slog
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from LogFormat and LogLevel
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
