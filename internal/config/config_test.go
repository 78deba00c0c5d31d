package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRGB(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"#007dff", RGB{0, 125, 255}, false},
		{"fef774", RGB{254, 247, 116}, false},
		{" #FFFFFF ", RGB{255, 255, 255}, false},
		{"#fff", RGB{}, true},
		{"#gggggg", RGB{}, true},
		{"", RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRGB(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, mustRGB(got.Hex()))
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	custom := DefaultTheme()
	custom.Colors[SlotText] = RGB{1, 2, 3}
	custom.Light = true

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no custom theme", Config{}},
		{"default preset", Config{ColorTheme: DefaultTheme()}},
		{"edited light theme", Config{ColorTheme: custom}},
		{"all black", Config{ColorTheme: &Theme{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "config.yaml")
			require.NoError(t, tt.cfg.Save(path))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.cfg, got)
		})
	}
}

func TestSave_HexColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Config{ColorTheme: DefaultTheme()}.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"#007dff"`)
}

func TestLoadOrDefault(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		hook.Reset()
		cfg := LoadOrDefault(filepath.Join(dir, "absent.yaml"), log)
		assert.Equal(t, Config{}, cfg)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	})

	t.Run("corrupt file", func(t *testing.T) {
		hook.Reset()
		path := filepath.Join(dir, "corrupt.yaml")
		require.NoError(t, os.WriteFile(path, []byte("color_theme: [oops"), 0o644))

		cfg := LoadOrDefault(path, log)
		assert.Equal(t, Config{}, cfg)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("bad color", func(t *testing.T) {
		hook.Reset()
		path := filepath.Join(dir, "color.yaml")
		require.NoError(t, os.WriteFile(path, []byte("color_theme:\n  colors: [\"#zzzzzz\"]\n"), 0o644))

		assert.Equal(t, Config{}, LoadOrDefault(path, log))
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PACFRONT_SETTINGS", "")

	s, err := LoadSettings(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Warnings)
	assert.Equal(t, "/var/lib/pacman", s.DBPath)
	assert.Equal(t, "/etc/pacman.conf", s.PacmanConf)
	assert.Equal(t, []string{"pkexec", "pacman", "-Sy"}, s.SyncCommand)
	assert.Equal(t, logrus.InfoLevel, s.Level())
	assert.True(t, s.Watch)
	assert.Equal(t, "config.yaml", filepath.Base(s.ConfigFile))
}

func TestLoadSettings_Precedence(t *testing.T) {
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("PACFRONT_SETTINGS", "")
	require.NoError(t, os.MkdirAll(filepath.Join(cfgHome, AppName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgHome, AppName, "settings.yaml"), []byte(`
db_path: /from/file
pacman_conf: /from/file/pacman.conf
sync_command: [sudo, pacman, -Syu]
`), 0o644))
	t.Setenv("PACFRONT_PACMAN_CONF", "/from/env/pacman.conf")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("dbpath", "", "")
	fs.String("pacman-conf", "", "")
	fs.Bool("debug", false, "")
	fs.Bool("no-watch", false, "")
	require.NoError(t, fs.Parse([]string{"--dbpath", "/from/flag", "--debug", "--no-watch"}))

	s, err := LoadSettings(fs)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", s.DBPath)
	assert.Equal(t, "/from/env/pacman.conf", s.PacmanConf)
	assert.Equal(t, []string{"sudo", "pacman", "-Syu"}, s.SyncCommand)
	assert.Equal(t, logrus.DebugLevel, s.Level())
	assert.False(t, s.Watch)
}

func TestLoadSettings_InvalidLevel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PACFRONT_SETTINGS", "")
	t.Setenv("PACFRONT_LOG_LEVEL", "chatty")

	s, err := LoadSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, s.Level())
	assert.Equal(t, "/var/lib/pacman", s.DBPath)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0].Error(), "log_level")
}

func TestLoadSettings_CorruptFile(t *testing.T) {
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("PACFRONT_SETTINGS", "")
	require.NoError(t, os.MkdirAll(filepath.Join(cfgHome, AppName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgHome, AppName, "settings.yaml"),
		[]byte("db_path: [unclosed\n"), 0o644))

	s, err := LoadSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/pacman", s.DBPath)
	assert.Equal(t, "/etc/pacman.conf", s.PacmanConf)
	assert.Equal(t, []string{"pkexec", "pacman", "-Sy"}, s.SyncCommand)
	assert.True(t, s.Watch)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0].Error(), "reading settings")
}
