// Package config loads jsonscope settings from a TOML file.
//
// The file is optional. Values missing from it keep their defaults, and
// command-line flags override both:
//
//	[layout]
//	node_width = 200
//	node_height = 40
//	node_sep = 30
//	rank_sep = 60
//
//	[cache]
//	backend = "file"        # none, file, memory, redis
//	dir = "~/.cache/jsonscope"
//	size = 1024             # memory backend entries
//
//	[cache.redis]
//	addr = "localhost:6379"
//	db = 0
//
//	[server]
//	addr = ":8080"
//	metrics = true
//	session_ttl = "30m"
//
//	[log]
//	level = "info"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonscope/pkg/cache"
	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/layout"
)

// AppName names the config and cache directories.
const AppName = "jsonscope"

// Config is the decoded configuration file.
type Config struct {
	Layout layout.Options `toml:"layout"`
	Cache  Cache          `toml:"cache"`
	Server Server         `toml:"server"`
	Log    Log            `toml:"log"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Size    int    `toml:"size"`
	Redis   Redis  `toml:"redis"`
}

// Redis configures the redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Server configures "jsonscope serve".
type Server struct {
	Addr       string   `toml:"addr"`
	Metrics    bool     `toml:"metrics"`
	SessionTTL Duration `toml:"session_ttl"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string ("30m") in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultOptions(),
		Cache: Cache{
			Backend: cache.BackendFile,
			Dir:     DefaultCacheDir(),
			Size:    cache.DefaultMemorySize,
			Redis:   Redis{Addr: "localhost:6379", Prefix: AppName + ":"},
		},
		Server: Server{
			Addr:       ":8080",
			Metrics:    true,
			SessionTTL: Duration(30 * time.Minute),
		},
		Log: Log{Level: "info"},
	}
}

// Load reads the file at path over the defaults. An empty path reads
// DefaultPath and tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML text into cfg and validates the result. Keys not
// present in the text leave cfg unchanged.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errs.New(errs.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	return cfg.Validate()
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendMemory, cache.BackendRedis:
	default:
		return errs.New(errs.ErrCodeInvalidOptions, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Size < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "cache size must not be negative")
	}
	if c.Server.SessionTTL < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "session_ttl must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); c.Log.Level != "" && err != nil {
		return errs.New(errs.ErrCodeInvalidOptions, "unknown log level %q", c.Log.Level)
	}
	return nil
}

// CacheOptions converts the cache section for cache.Open.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Size:    c.Cache.Size,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		},
	}
}

// LogLevel returns the configured level, info when unset or unknown.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// DefaultPath returns the config file location using XDG standard
// (~/.config/jsonscope/config.toml).
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// DefaultCacheDir returns the cache directory using XDG standard
// (~/.cache/jsonscope/).
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
