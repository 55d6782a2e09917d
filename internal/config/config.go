// Package config loads notes-server settings from built-in defaults, an
// optional YAML file and NOTES_* environment variables, in that order.
// Command-line flags are applied on top by cmd/notes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr            = ":3000"
	DefaultRateLimitPerMin = 0
	defaultPublicDirName   = "public"
	envPrefix              = "NOTES_"
)

// Config is the full runtime configuration.
type Config struct {
	Addr      string          `yaml:"addr"`
	PublicDir string          `yaml:"public_dir"`
	Features  Features        `yaml:"features"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Features toggles the optional parts of the note API.
// Both on is the full API; both off drops createdAt and DELETE /api/notes.
type Features struct {
	Timestamps bool `yaml:"timestamps"`
	Clear      bool `yaml:"clear"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RateLimitConfig struct {
	// PerMinute is requests per minute per client IP; 0 disables limiting.
	PerMinute int `yaml:"per_minute"`
	// TrustProxy keys clients by X-Forwarded-For / X-Real-IP. Only enable it
	// behind a reverse proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Addr:      DefaultAddr,
		PublicDir: DefaultPublicDir(),
		Features: Features{
			Timestamps: true,
			Clear:      true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		RateLimit: RateLimitConfig{PerMinute: DefaultRateLimitPerMin},
	}
}

// DefaultPublicDir is the "public" directory next to the running executable.
// It falls back to a path relative to the working directory.
func DefaultPublicDir() string {
	exe, err := os.Executable()
	if err != nil {
		return defaultPublicDirName
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), defaultPublicDirName)
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the process environment, then validates it.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path == "" {
		path, _ = lookup(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	v := NewConfigValidator()

	if s, ok := lookupNonEmpty(lookup, "ADDR"); ok {
		c.Addr = s
	}
	if s, ok := lookupNonEmpty(lookup, "PUBLIC_DIR"); ok {
		c.PublicDir = s
	}
	if s, ok := lookupNonEmpty(lookup, "TIMESTAMPS"); ok {
		c.Features.Timestamps = v.ParseBool(envPrefix+"TIMESTAMPS", s, c.Features.Timestamps)
	}
	if s, ok := lookupNonEmpty(lookup, "CLEAR"); ok {
		c.Features.Clear = v.ParseBool(envPrefix+"CLEAR", s, c.Features.Clear)
	}
	if s, ok := lookupNonEmpty(lookup, "LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(s)
	}
	if s, ok := lookupNonEmpty(lookup, "LOG_FORMAT"); ok {
		c.Log.Format = strings.ToLower(s)
	}
	if s, ok := lookupNonEmpty(lookup, "RATE_LIMIT"); ok {
		c.RateLimit.PerMinute = v.ParseNonNegativeInt(envPrefix+"RATE_LIMIT", s, c.RateLimit.PerMinute)
	}
	if s, ok := lookupNonEmpty(lookup, "TRUST_PROXY"); ok {
		c.RateLimit.TrustProxy = v.ParseBool(envPrefix+"TRUST_PROXY", s, c.RateLimit.TrustProxy)
	}

	return v.Err()
}

func lookupNonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	s, ok := lookup(envPrefix + key)
	s = strings.TrimSpace(s)
	return s, ok && s != ""
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	v := NewConfigValidator()

	v.ValidateRequired("addr", c.Addr)
	v.ValidateAddr("addr", c.Addr)
	v.ValidateRequired("public_dir", c.PublicDir)
	v.ValidateEnum("log.level", c.Log.Level, []string{"debug", "info", "warn", "error"})
	v.ValidateEnum("log.format", c.Log.Format, []string{"text", "json"})
	if c.RateLimit.PerMinute < 0 {
		v.AddError("rate_limit.per_minute", "must not be negative")
	}

	return v.Err()
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}
