package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings are the runtime options. They are not written back.
type Settings struct {
	DBPath      string   `mapstructure:"db_path"`
	PacmanConf  string   `mapstructure:"pacman_conf"`
	ConfigFile  string   `mapstructure:"config_file"` // persisted Config location
	SyncCommand []string `mapstructure:"sync_command"`
	LogFile     string   `mapstructure:"log_file"`
	LogLevel    string   `mapstructure:"log_level"`
	Watch       bool     `mapstructure:"watch"`

	// Warnings are problems that fell back to defaults. They are logged
	// once a logger exists.
	Warnings []error `mapstructure:"-"`
}

// flag name -> settings key
var flagKeys = map[string]string{
	"dbpath":      "db_path",
	"pacman-conf": "pacman_conf",
	"config":      "config_file",
	"log-file":    "log_file",
	"debug":       "debug",
	"no-watch":    "no_watch",
}

// LoadSettings resolves Settings from, in increasing priority: defaults,
// settings.yaml in the config dir (or $PACFRONT_SETTINGS), PACFRONT_*
// environment variables, and the flags in fs that were set. An unreadable
// settings file or an unknown log level falls back to the defaults and is
// reported in Warnings.
func LoadSettings(fs *pflag.FlagSet) (Settings, error) {
	v := viper.New()

	v.SetDefault("db_path", "/var/lib/pacman")
	v.SetDefault("pacman_conf", "/etc/pacman.conf")
	v.SetDefault("sync_command", []string{"pkexec", "pacman", "-Sy"})
	v.SetDefault("log_level", "info")
	v.SetDefault("watch", true)
	if path, err := DefaultPath(); err == nil {
		v.SetDefault("config_file", path)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		v.SetDefault("log_file", filepath.Join(dir, AppName, AppName+".log"))
	}

	v.SetConfigType("yaml")
	if path := os.Getenv("PACFRONT_SETTINGS"); path != "" {
		v.SetConfigFile(path)
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("settings")
	}

	v.SetEnvPrefix("PACFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var warnings []error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			warnings = append(warnings, fmt.Errorf("reading settings, using defaults: %w", err))
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if v.GetBool("debug") {
		s.LogLevel = "debug"
	}
	if v.GetBool("no_watch") {
		s.Watch = false
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		warnings = append(warnings, fmt.Errorf("log_level, using info: %w", err))
		s.LogLevel = "info"
	}
	s.Warnings = warnings
	return s, nil
}

// Level returns the configured log level, defaulting to info.
func (s Settings) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
