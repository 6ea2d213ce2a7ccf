// Package config loads bubblepack settings from a file and the environment.
//
// Settings are resolved in order, later sources winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML or YAML file, by default $XDG_CONFIG_HOME/bubblepack/config.toml
//  3. A .env file in the working directory (see [LoadDotenv])
//  4. BUBBLEPACK_* environment variables
//
// # Usage
//
//	if err := config.LoadDotenv(); err != nil {
//	    return err
//	}
//	cfg, err := config.Load(path) // "" uses the default location
//	if err != nil {
//	    return err
//	}
//	opts := cfg.Layout.PipelineOptions()
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bubblepack/pkg/cache"
	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/engine"
	"github.com/matzehuels/bubblepack/pkg/errors"
	"github.com/matzehuels/bubblepack/pkg/pipeline"
	"github.com/matzehuels/bubblepack/pkg/session"
)

// AppName names the configuration and cache directories.
const AppName = "bubblepack"

// Config is the complete set of settings.
type Config struct {
	Layout LayoutConfig  `toml:"layout" yaml:"layout" json:"layout"`
	Cache  cache.Options `toml:"cache" yaml:"cache" json:"cache"`
	Server ServerConfig  `toml:"server" yaml:"server" json:"server"`
}

// LayoutConfig holds the defaults for new engines and one-shot layouts.
type LayoutConfig struct {
	Count           int           `toml:"count" yaml:"count" json:"count"`
	Groups          int           `toml:"groups" yaml:"groups" json:"groups"`
	Columns         int           `toml:"columns" yaml:"columns" json:"columns"`
	Radius          bubble.Range  `toml:"radius" yaml:"radius" json:"radius"`
	Limits          bubble.Limits `toml:"limits" yaml:"limits" json:"limits"`
	Width           float64       `toml:"width" yaml:"width" json:"width"`
	Height          float64       `toml:"height" yaml:"height" json:"height"`
	Seed            uint64        `toml:"seed" yaml:"seed" json:"seed"`
	ConvergeTimeout Duration      `toml:"converge_timeout" yaml:"converge_timeout" json:"converge_timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr" yaml:"addr" json:"addr"`
	SessionTTL   Duration `toml:"session_ttl" yaml:"session_ttl" json:"session_ttl"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`
	LogFile      string   `toml:"log_file" yaml:"log_file" json:"log_file,omitempty"`
}

// Duration is a time.Duration written as a string such as "700ms" or "30m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Count:           engine.DefaultCount,
			Groups:          engine.DefaultGroups,
			Columns:         engine.DefaultColumns,
			Radius:          bubble.Range{Min: engine.DefaultMinRadius, Max: engine.DefaultMaxRadius},
			Limits:          bubble.Limits{Lo: 4, Hi: 160},
			Width:           engine.DefaultWidth,
			Height:          engine.DefaultHeight,
			Seed:            engine.DefaultSeed,
			ConvergeTimeout: Duration{engine.DefaultConvergeTimeout},
		},
		Cache: cache.Options{
			Backend: cache.BackendFile,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			SessionTTL:   Duration{session.DefaultTTL},
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Dir returns the configuration directory using the XDG standard
// (~/.config/bubblepack/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/bubblepack/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration file at path on top of the defaults, then
// applies environment overrides and validates the result. An empty path
// uses [DefaultPath], and a missing default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config")
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(data, filepath.Ext(path), &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses data in the format named by ext (".toml", ".yaml" or
// ".yml") into cfg. Fields missing from data keep their current values.
func Decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml", "":
		_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// finish fills paths that depend on the environment and validates.
func (c *Config) finish() error {
	if c.Cache.Dir == "" && (c.Cache.Backend == "" || c.Cache.Backend == cache.BackendFile || c.Cache.Backend == cache.BackendSQLite) {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	return c.Validate()
}

// Validate checks every setting.
func (c *Config) Validate() error {
	l := c.Layout
	if err := errors.ValidateCount(l.Count); err != nil {
		return err
	}
	if err := errors.ValidateGroups(l.Groups, l.Count); err != nil {
		return err
	}
	if err := errors.ValidateColumns(l.Columns); err != nil {
		return err
	}
	if err := errors.ValidateRadiusRange(l.Radius.Min, l.Radius.Max); err != nil {
		return err
	}
	if l.Limits.Lo > l.Limits.Hi {
		return errors.New(errors.ErrCodeInvalidConfig, "radius limits inverted: [%v, %v]", l.Limits.Lo, l.Limits.Hi)
	}
	if err := errors.ValidateViewport(l.Width, l.Height, 0); err != nil {
		return err
	}
	if l.ConvergeTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "converge timeout must be >= 0, got %s", l.ConvergeTimeout)
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendSQLite, cache.BackendNone:
	case cache.BackendRedis, cache.BackendMongo:
		if c.Cache.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend %s requires a url", c.Cache.Backend)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max body size must be >= 0")
	}
	return nil
}

// PipelineOptions returns one-shot layout options seeded from the layout
// defaults.
func (l LayoutConfig) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Count:     l.Count,
		Empty:     l.Count == 0,
		Groups:    l.Groups,
		Columns:   l.Columns,
		MinRadius: l.Radius.Min,
		MaxRadius: l.Radius.Max,
		Width:     l.Width,
		Height:    l.Height,
		Seed:      l.Seed,
	}
}

// EngineOptions returns options for a new interactive engine.
func (l LayoutConfig) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithCount(l.Count),
		engine.WithGroups(l.Groups),
		engine.WithColumns(l.Columns),
		engine.WithRange(l.Radius),
		engine.WithLimits(l.Limits),
		engine.WithViewport(engine.Viewport{Width: l.Width, Height: l.Height}),
		engine.WithSeed(l.Seed),
		engine.WithConvergeTimeout(l.ConvergeTimeout.Duration),
	}
}
