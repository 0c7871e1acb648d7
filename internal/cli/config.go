package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/artatlas/artgraph/pkg/interact"
	"github.com/artatlas/artgraph/pkg/layout"
	"github.com/artatlas/artgraph/pkg/viz"
)

// =============================================================================
// Configuration File
// =============================================================================

// Config is the TOML configuration shared by all commands.
type Config struct {
	Layout  layout.Config   `toml:"layout"`
	Gesture interact.Config `toml:"gesture"`
	Viz     viz.Config      `toml:"viz"`
	Cache   CacheConfig     `toml:"cache"`
	Serve   ServeConfig     `toml:"serve"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis" or "null".
	Backend string `toml:"backend"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
	// Addr, Password and DB configure the redis backend.
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Listen string `toml:"listen"`
	// MongoURI selects the MongoDB store; empty uses the in-memory store.
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
	// Seed is a snapshot file loaded into the store at startup.
	Seed string `toml:"seed"`
}

// DefaultCLIConfig returns the baseline configuration.
func DefaultCLIConfig() Config {
	return Config{
		Layout:  layout.DefaultConfig(),
		Gesture: interact.DefaultConfig(),
		Viz:     viz.DefaultConfig(),
		Cache:   CacheConfig{Backend: "file"},
		Serve:   ServeConfig{Listen: ":8080", Database: "artgraph"},
	}
}

// LoadConfig reads the TOML config at path, falling back to the default
// location and then to defaults when no file exists.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultCLIConfig()

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Layout.ValidateAndSetDefaults(); err != nil {
		return cfg, err
	}
	if err := cfg.Gesture.ValidateAndSetDefaults(); err != nil {
		return cfg, err
	}
	if err := cfg.Viz.ValidateAndSetDefaults(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
