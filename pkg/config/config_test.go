package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonscope/pkg/cache"
	errs "github.com/matzehuels/jsonscope/pkg/errors"
)

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg := Default()
	err := Decode(`
[layout]
node_width = 120

[cache]
backend = "redis"

[cache.redis]
addr = "cache:6379"
db = 2

[server]
addr = "127.0.0.1:9000"
session_ttl = "5m"

[log]
level = "debug"
`, &cfg)
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Layout.NodeWidth = 120
	want.Cache.Backend = cache.BackendRedis
	want.Cache.Redis.Addr = "cache:6379"
	want.Cache.Redis.DB = 2
	want.Server.Addr = "127.0.0.1:9000"
	want.Server.SessionTTL = Duration(5 * time.Minute)
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}

	opts := cfg.CacheOptions()
	if opts.Backend != "redis" || opts.Redis.Addr != "cache:6379" || opts.Redis.DB != 2 {
		t.Errorf("CacheOptions() = %+v", opts)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
		code errs.Code
	}{
		{"syntax", `[layout`, errs.ErrCodeInvalidInput},
		{"unknown key", "[layout]\nzoom = 2", errs.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"s3\"", errs.ErrCodeInvalidOptions},
		{"negative gap", "[layout]\nnode_sep = -1", errs.ErrCodeInvalidOptions},
		{"bad level", "[log]\nlevel = \"loud\"", errs.ErrCodeInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := Decode(tt.text, &cfg)
			if !errs.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want code %s", err, tt.code)
			}
		})
	}

	cfg := Default()
	if err := Decode("[server]\nsession_ttl = \"soon\"", &cfg); err == nil {
		t.Error("invalid duration should fail")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	// Missing default file is fine.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch:\n%s", diff)
	}

	path := filepath.Join(dir, AppName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[server]\nmetrics = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Metrics {
		t.Error("metrics should be disabled by the file")
	}

	// An explicit path must exist.
	_, err = Load(filepath.Join(dir, "nope.toml"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v", err)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	if got, want := DefaultCacheDir(), filepath.Join(home, ".cache", AppName); got != want {
		t.Errorf("DefaultCacheDir() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if got := DefaultCacheDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("DefaultCacheDir() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/c"); got != filepath.Join(home, "c") {
		t.Errorf("expandHome(~/c) = %q", got)
	}
	if got := expandHome("/abs/~"); !strings.HasPrefix(got, "/abs") {
		t.Errorf("expandHome(/abs/~) = %q", got)
	}
}
