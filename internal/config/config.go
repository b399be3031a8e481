// Package config loads bubblecloud's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/bubblecloud/config.toml (falling back to
// ~/.config). A missing file is not an error; every field has a default and
// CLI flags override whatever the file sets.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bubblecloud/pkg/errors"
	"github.com/matzehuels/bubblecloud/pkg/physics"
	"github.com/matzehuels/bubblecloud/pkg/store/mongo"
	"github.com/matzehuels/bubblecloud/pkg/store/redis"
)

const appName = "bubblecloud"

// Store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config holds bubblecloud configuration.
type Config struct {
	Surface SurfaceConfig  `toml:"surface"`
	Physics physics.Config `toml:"physics"`
	Nodes   NodesConfig    `toml:"nodes"`
	Store   StoreConfig    `toml:"store"`
	Server  ServerConfig   `toml:"server"`
	Cache   CacheConfig    `toml:"cache"`
}

// SurfaceConfig sets the initial surface.
type SurfaceConfig struct {
	Width             float64 `toml:"width"`
	Height            float64 `toml:"height"`
	MultipleSelection bool    `toml:"multiple_selection"`
	FPS               int     `toml:"fps"`
}

// NodesConfig controls the nodes created by simulate and play.
type NodesConfig struct {
	Radius float64  `toml:"radius"`
	Labels []string `toml:"labels"`
}

// StoreConfig selects the snapshot backend.
type StoreConfig struct {
	Backend string       `toml:"backend"` // "file", "redis", "mongo"
	Dir     string       `toml:"dir"`
	Redis   redis.Config `toml:"redis"`
	Mongo   mongo.Config `toml:"mongo"`
}

// ServerConfig controls the HTTP host.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// TickRate is the number of physics steps per second run in the
	// background. Zero disables the ticker; clients drive POST /step.
	TickRate int `toml:"tick_rate"`
}

// CacheConfig controls the rendered artifact cache used by render.
type CacheConfig struct {
	Enabled  bool   `toml:"enabled"`
	Dir      string `toml:"dir"`
	TTLHours int    `toml:"ttl_hours"` // 0 keeps entries until cleared
}

// TTL returns the entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Surface: SurfaceConfig{Width: 300, Height: 600, MultipleSelection: true, FPS: 60},
		Physics: physics.DefaultConfig(),
		Nodes: NodesConfig{
			Radius: 30,
			Labels: []string{"Jazz", "Rock", "Soul", "Blues", "Funk", "Pop", "Folk", "Metal", "Disco", "Punk", "House", "Opera"},
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(DataDir(), "snapshots"),
			Redis:   redis.Config{Addr: "localhost:6379", Key: redis.DefaultKey},
			Mongo: mongo.Config{
				URI:        "mongodb://localhost:27017",
				Database:   mongo.DefaultDatabase,
				Collection: mongo.DefaultCollection,
			},
		},
		Server: ServerConfig{Addr: "127.0.0.1:8080", TickRate: 60},
		Cache:  CacheConfig{Enabled: true, Dir: CacheDir(), TTLHours: 24 * 7},
	}
}

// Dir returns the bubblecloud config directory.
func Dir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the directory for saved snapshots.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// CacheDir returns the directory for cached render artifacts.
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env, fallback string) string {
	dir := os.Getenv(env)
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, fallback)
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config at path over the defaults. An empty path selects
// Path(). A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories. An empty path
// selects Path().
func Save(path string, cfg *Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if err := errors.ValidateDimension("surface width", c.Surface.Width); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[surface]")
	}
	if err := errors.ValidateDimension("surface height", c.Surface.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[surface]")
	}
	if c.Surface.FPS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[surface] fps must be positive, got %d", c.Surface.FPS)
	}
	if err := errors.ValidateDimension("node radius", c.Nodes.Radius); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[nodes]")
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] dir is required when the cache is enabled")
	}
	if c.Cache.TTLHours < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] ttl_hours must not be negative, got %d", c.Cache.TTLHours)
	}
	if c.Server.TickRate < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] tick_rate must not be negative, got %d", c.Server.TickRate)
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[store] dir is required for the file backend")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[store.redis] addr is required")
		}
	case BackendMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[store.mongo] uri is required")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[store] unknown backend %q", c.Store.Backend)
	}
	return nil
}
