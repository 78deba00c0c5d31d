// Package config holds the persisted UI preferences (the colour theme) and
// the runtime settings assembled from defaults, settings file, environment
// and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// AppName names the configuration and cache directories.
const AppName = "pacfront"

// Config is the state saved at shutdown and restored at startup.
type Config struct {
	ColorTheme *Theme `yaml:"color_theme,omitempty"` // nil when custom colours are off
}

// Dir returns $XDG_CONFIG_HOME/pacfront (or the platform equivalent).
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultPath returns the location of the persisted Config.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the Config stored at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to the zero Config on any error.
// A missing file is expected on first run and is only logged at debug level.
func LoadOrDefault(path string, log logrus.FieldLogger) Config {
	cfg, err := Load(path)
	if err != nil {
		entry := log.WithError(err).WithField("path", path)
		if errors.Is(err, fs.ErrNotExist) {
			entry.Debug("no saved config, using defaults")
		} else {
			entry.Warn("error loading config, using defaults")
		}
		return Config{}
	}
	return cfg
}

// Save writes c to path, creating its directory.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
