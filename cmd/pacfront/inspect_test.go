package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/h0rv/pacfront/internal/config"
	"github.com/h0rv/pacfront/internal/domain"
	"github.com/h0rv/pacfront/internal/pacdb"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB() *pacdb.DB {
	local := []*domain.Package{
		{Name: "bash", Version: "5.2.037-1", Description: "The GNU Bourne Again shell",
			OptDepends: []domain.Depend{pacdb.ParseDepend("bash-completion: for tab completion")}},
	}
	core := []*domain.Package{
		{Name: "bash", Version: "5.2.037-2"},
		{Name: "zsh", Version: "5.9-5", InstalledSize: 8 << 20},
	}
	return pacdb.New(local, []pacdb.Repo{{Name: "core", Packages: core}})
}

func TestLookupTarget(t *testing.T) {
	db := testDB()

	pkg, err := lookupTarget(db, "bash")
	require.NoError(t, err)
	assert.Equal(t, domain.LocalID("bash"), pkg.ID())

	pkg, err = lookupTarget(db, "core/bash")
	require.NoError(t, err)
	assert.Equal(t, "5.2.037-2", pkg.Version)

	pkg, err = lookupTarget(db, "zsh")
	require.NoError(t, err)
	assert.Equal(t, "core", pkg.Repo)

	_, err = lookupTarget(db, "zhs")
	require.ErrorIs(t, err, pacdb.ErrPackageNotFound)
	assert.Contains(t, err.Error(), "did you mean zsh")

	_, err = lookupTarget(db, "extra/zsh")
	require.ErrorIs(t, err, pacdb.ErrPackageNotFound)
}

func TestPrintInfo(t *testing.T) {
	db := testDB()
	var buf bytes.Buffer

	pkg, err := lookupTarget(db, "bash")
	require.NoError(t, err)
	printInfo(&buf, db, pkg)
	out := buf.String()
	assert.Contains(t, out, "Name            : bash\n")
	assert.Contains(t, out, "Optional Deps   : bash-completion: for tab completion\n")
	assert.Contains(t, out, "Install Reason  : Explicitly installed\n")

	buf.Reset()
	pkg, err = lookupTarget(db, "core/zsh")
	require.NoError(t, err)
	printInfo(&buf, db, pkg)
	assert.Contains(t, buf.String(), "Installed Size  : 8.0 MiB\n")
	assert.NotContains(t, buf.String(), "Install Reason")
}

func TestQuietLevel(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, quietLevel(config.Settings{LogLevel: "info"}))
	assert.Equal(t, logrus.WarnLevel, quietLevel(config.Settings{}))
	assert.Equal(t, logrus.WarnLevel, quietLevel(config.Settings{LogLevel: "error"}))
	assert.Equal(t, logrus.DebugLevel, quietLevel(config.Settings{LogLevel: "debug"}))
	assert.Equal(t, logrus.TraceLevel, quietLevel(config.Settings{LogLevel: "trace"}))
}

func TestSaveConfig(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	dir := t.TempDir()

	t.Run("no location", func(t *testing.T) {
		hook.Reset()
		saveConfig(config.Config{}, "", log)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("unwritable", func(t *testing.T) {
		hook.Reset()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))
		saveConfig(config.Config{}, filepath.Join(blocker, "config.yaml"), log)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("saved", func(t *testing.T) {
		hook.Reset()
		path := filepath.Join(dir, "pacfront", "config.yaml")
		saveConfig(config.Config{ColorTheme: config.DefaultTheme()}, path, log)
		assert.FileExists(t, path)
		assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	})
}
