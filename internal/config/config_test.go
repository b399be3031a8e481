package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/bubblecloud/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Surface.Width != 300 || cfg.Surface.Height != 600 {
		t.Errorf("surface = %vx%v, want 300x600", cfg.Surface.Width, cfg.Surface.Height)
	}
	if !cfg.Surface.MultipleSelection {
		t.Error("default multiple selection should be on")
	}
	if cfg.Physics.PointsPerMeter != 150 {
		t.Errorf("points per meter = %v, want 150", cfg.Physics.PointsPerMeter)
	}
	if cfg.Store.Backend != BackendFile {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, BackendFile)
	}
	if len(cfg.Nodes.Labels) == 0 {
		t.Error("default labels should not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if got := Dir(); got != "/tmp/test-xdg/bubblecloud" {
		t.Errorf("Dir() = %q", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if got, want := Dir(), filepath.Join(home, ".config", "bubblecloud"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/test-data")
	if got := DataDir(); got != "/tmp/test-data/bubblecloud" {
		t.Errorf("DataDir() = %q", got)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/test-cache")
	if got := CacheDir(); got != "/tmp/test-cache/bubblecloud" {
		t.Errorf("CacheDir() = %q", got)
	}
	if got := (CacheConfig{TTLHours: 2}).TTL(); got != 2*time.Hour {
		t.Errorf("TTL() = %v, want 2h", got)
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Surface.Width != Default().Surface.Width {
		t.Error("missing file should yield defaults")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Surface.MultipleSelection = false
	cfg.Physics.LinearDamping = 3.5
	cfg.Store.Backend = BackendRedis
	cfg.Store.Redis.DB = 2
	cfg.Nodes.Labels = []string{"a", "b"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Surface.MultipleSelection {
		t.Error("multiple_selection = false not persisted")
	}
	if loaded.Physics.LinearDamping != 3.5 {
		t.Errorf("linear_damping = %v, want 3.5", loaded.Physics.LinearDamping)
	}
	if loaded.Store.Backend != BackendRedis || loaded.Store.Redis.DB != 2 {
		t.Errorf("store = %+v", loaded.Store)
	}
	if len(loaded.Nodes.Labels) != 2 {
		t.Errorf("labels = %v", loaded.Nodes.Labels)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[surface]\nwidth = 800\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Surface.Width != 800 {
		t.Errorf("width = %v, want 800", cfg.Surface.Width)
	}
	if cfg.Surface.Height != 600 {
		t.Errorf("height = %v, want default 600", cfg.Surface.Height)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[surface\n"},
		{"negative width", "[surface]\nwidth = -1\n"},
		{"zero radius", "[nodes]\nradius = 0\n"},
		{"unknown backend", "[store]\nbackend = \"s3\"\n"},
		{"redis without addr", "[store]\nbackend = \"redis\"\n[store.redis]\naddr = \"\"\n"},
		{"negative tick rate", "[server]\ntick_rate = -5\n"},
		{"cache without dir", "[cache]\nenabled = true\ndir = \"\"\n"},
		{"negative ttl", "[cache]\nttl_hours = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}
