package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/dsgit/internal/logging"
	"github.com/odvcencio/dsgit/pkg/object"
)

// ConfigFile is the name of the repository config file inside .dsgit/.
const ConfigFile = "config.toml"

// Config stores repository-local settings.
type Config struct {
	Core   CoreConfig   `toml:"core"`
	Ignore IgnoreConfig `toml:"ignore"`
	Log    LogConfig    `toml:"log"`
}

// CoreConfig controls the object store.
type CoreConfig struct {
	Compression string `toml:"compression"`
	CacheSize   int    `toml:"cache_size"`
}

// IgnoreConfig adds ignore patterns on top of .dsgitignore.
type IgnoreConfig struct {
	// Glob also matches each pattern as a gitignore glob, in addition to the
	// substring match.
	Glob     bool     `toml:"glob"`
	Patterns []string `toml:"patterns"`
}

// LogConfig sets the default log level for commands run in the repository.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the settings used when config.toml is missing or
// leaves a key unset.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			Compression: string(object.CompressionNone),
			CacheSize:   object.DefaultCacheSize,
		},
		Ignore: IgnoreConfig{Patterns: []string{}},
		Log:    LogConfig{Level: logging.DefaultLevel},
	}
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	if _, err := object.ParseCompression(c.Core.Compression); err != nil {
		return fmt.Errorf("core.compression: %w", err)
	}
	if c.Core.CacheSize < 0 {
		return fmt.Errorf("core.cache_size: must not be negative, got %d", c.Core.CacheSize)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func (r *Repo) configPath() string {
	return filepath.Join(r.DsgitDir, ConfigFile)
}

// ReadConfig reads .dsgit/config.toml. Missing config returns DefaultConfig,
// and keys absent from the file keep their default values.
func (r *Repo) ReadConfig() (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(r.configPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w: %w", object.ErrIO, err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// WriteConfig validates cfg and atomically writes .dsgit/config.toml. The
// new settings take effect the next time the repository is opened.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := writeConfigFile(r.DsgitDir, cfg); err != nil {
		return err
	}
	r.Config = cfg
	return nil
}

func writeConfigFile(dsgitDir string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dsgitDir, ConfigFile), buf.Bytes()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w: %w", object.ErrIO, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("tmpfile: %w: %w", object.ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write: %w: %w", object.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close: %w: %w", object.ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w: %w", object.ErrIO, err)
	}
	return nil
}
