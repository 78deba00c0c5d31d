package pacdb

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/h0rv/pacfront/internal/domain"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// record renders desc-style blocks in the order given.
func record(blocks ...[]string) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString("%" + block[0] + "%\n")
		for _, v := range block[1:] {
			b.WriteString(v + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func block(header string, values ...string) []string {
	return append([]string{header}, values...)
}

type archiveEntry struct {
	name, body string
}

func tarball(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	dirs := map[string]bool{}
	for _, e := range entries {
		dir := filepath.Dir(e.name) + "/"
		if !dirs[dir] {
			dirs[dir] = true
			require.NoError(t, tw.WriteHeader(&tar.Header{Name: dir, Typeflag: tar.TypeDir, Mode: 0o755}))
		}
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: e.name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(e.body))}))
		_, err := tw.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func compress(t *testing.T, codec string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch codec {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "zstd":
		w, err = zstd.NewWriter(&buf)
	case "xz":
		w, err = xz.NewWriter(&buf)
	case "none":
		return data
	}
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func syncEntries() []archiveEntry {
	return []archiveEntry{
		{"bash-5.2.037-1/desc", record(
			block("FILENAME", "bash-5.2.037-1-x86_64.pkg.tar.zst"),
			block("NAME", "bash"),
			block("VERSION", "5.2.037-1"),
			block("DESC", "The GNU Bourne Again shell"),
			block("CSIZE", "1800000"),
			block("ISIZE", "9000000"),
			block("DEPENDS", "readline>=7.0", "glibc"),
			block("OPTDEPENDS", "bash-completion: for tab completion"),
			block("PROVIDES", "sh"),
		)},
		{"bash-5.2.037-1/files", record(block("FILES", "usr/", "usr/bin/", "usr/bin/bash", "usr/bin/sh"))},
		{"glibc-2.40-1/desc", record(
			block("NAME", "glibc"),
			block("VERSION", "2.40-1"),
			block("PROVIDES", "libc.so=6-64"),
		)},
		{"readline-8.2-1/desc", record(block("NAME", "readline"), block("VERSION", "8.2-1"))},
		{"readline-8.2-1/depends", record(block("DEPENDS", "glibc", "ncurses"))},
	}
}

func TestParseSyncArchive_Codecs(t *testing.T) {
	raw := tarball(t, syncEntries())

	for _, codec := range []string{"gzip", "zstd", "xz", "none"} {
		t.Run(codec, func(t *testing.T) {
			pkgs, err := ParseSyncArchive(bytes.NewReader(compress(t, codec, raw)), "core")
			require.NoError(t, err)
			require.Len(t, pkgs, 3)

			assert.Equal(t, "bash", pkgs[0].Name)
			assert.Equal(t, "glibc", pkgs[1].Name)
			assert.Equal(t, "readline", pkgs[2].Name)

			bash := pkgs[0]
			assert.Equal(t, "core", bash.Repo)
			assert.Equal(t, "5.2.037-1", bash.Version)
			assert.Equal(t, int64(9000000), bash.InstalledSize)
			assert.Equal(t, int64(1800000), bash.DownloadSize)
			assert.Equal(t, []domain.Depend{
				{Name: "readline", Mod: domain.DepModGE, Version: "7.0"},
				{Name: "glibc"},
			}, bash.Depends)
			assert.Equal(t, "for tab completion", bash.OptDepends[0].Description)
			assert.Equal(t, []domain.File{
				{Path: "/usr", IsDir: true},
				{Path: "/usr/bin", IsDir: true},
				{Path: "/usr/bin/bash"},
				{Path: "/usr/bin/sh"},
			}, bash.Files)

			// legacy depends record merged into the same package
			assert.Equal(t, []domain.Depend{{Name: "glibc"}, {Name: "ncurses"}}, pkgs[2].Depends)
		})
	}
}

func TestParseSyncArchive_Empty(t *testing.T) {
	pkgs, err := ParseSyncArchive(bytes.NewReader(nil), "empty")
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}

func TestParseSyncArchive_Corrupt(t *testing.T) {
	_, err := ParseSyncArchive(bytes.NewReader([]byte{0x1f, 0x8b, 0x00, 0x01}), "bad")
	assert.Error(t, err)
}

// writeFixtureDB lays out a database root with a local db and two sync repos.
func writeFixtureDB(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	localPkgs := map[string]string{
		"bash-5.2.037-1": record(
			block("NAME", "bash"),
			block("VERSION", "5.2.037-1"),
			block("DESC", "The GNU Bourne Again shell"),
			block("INSTALLDATE", "1700000000"),
			block("SIZE", "9000000"),
			block("DEPENDS", "readline>=7.0", "glibc", "libncursesw.so=6-64"),
			block("PROVIDES", "sh"),
		),
		"glibc-2.40-1": record(
			block("NAME", "glibc"),
			block("VERSION", "2.40-1"),
			block("REASON", "1"),
		),
		"readline-8.2-1": record(
			block("NAME", "readline"),
			block("VERSION", "8.2-1"),
			block("DEPENDS", "glibc"),
			block("OPTDEPENDS", "bash: for the shell"),
		),
		"ncurses-6.5-3": record(
			block("NAME", "ncurses"),
			block("VERSION", "6.5-3"),
			block("PROVIDES", "libncursesw.so=6-64"),
		),
	}
	for dir, desc := range localPkgs {
		p := filepath.Join(root, "local", dir)
		require.NoError(t, os.MkdirAll(p, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(p, "desc"), []byte(desc), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "local", "ALPM_DB_VERSION"), []byte("9\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "local", "bash-5.2.037-1", "files"),
		[]byte(record(block("FILES", "usr/", "usr/bin/", "usr/bin/bash"), block("BACKUP", "etc/bash.bashrc\tabc"))),
		0o644))

	syncDir := filepath.Join(root, "sync")
	require.NoError(t, os.MkdirAll(syncDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(syncDir, "core.files"), compress(t, "zstd", tarball(t, syncEntries())), 0o644))
	extra := tarball(t, []archiveEntry{
		{"vim-9.1-1/desc", record(
			block("NAME", "vim"),
			block("VERSION", "9.1-1"),
			block("DEPENDS", "glibc", "sh", "libsodium"),
		)},
	})
	require.NoError(t, os.WriteFile(filepath.Join(syncDir, "extra.db"), compress(t, "gzip", extra), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(syncDir, "broken.db"), []byte{0x1f, 0x8b, 0x08, 0x00}, 0o644))

	return root
}

func quietLogger() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}

func TestLoad(t *testing.T) {
	root := writeFixtureDB(t)

	db, err := Load(Options{DBPath: root, Logger: quietLogger()})
	require.NoError(t, err)

	local := db.Local()
	require.Len(t, local, 4)
	assert.Equal(t, []string{"bash", "glibc", "ncurses", "readline"}, names(local))

	bash, err := db.Lookup(domain.LocalID("bash"))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), bash.InstallDate)
	assert.Len(t, bash.Files, 3)

	glibc, err := db.Lookup(domain.LocalID("glibc"))
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonDepend, glibc.Reason)
	assert.Equal(t, []string{"bash", "readline"}, glibc.RequiredBy)

	// provision-satisfied dependency shows up as a reverse dependency
	ncurses, err := db.Lookup(domain.LocalID("ncurses"))
	require.NoError(t, err)
	assert.Equal(t, []string{"bash"}, ncurses.RequiredBy)

	assert.Equal(t, []string{"readline"}, bash.OptionalFor)
	assert.True(t, db.IsInstalled("readline"))
	assert.False(t, db.IsInstalled("vim"))

	// broken.db is skipped, the rest are enumerated in name order
	repos := db.Repos()
	require.Len(t, repos, 2)
	assert.Equal(t, "core", repos[0].Name)
	assert.Equal(t, "extra", repos[1].Name)
	assert.Len(t, db.SyncPackages(), 4)

	vim, err := db.Lookup(domain.PackageID{Repo: "extra", Name: "vim"})
	require.NoError(t, err)
	assert.Equal(t, "extra", vim.Repo)

	// required-by spans repositories for sync packages
	coreGlibc, err := db.Lookup(domain.PackageID{Repo: "core", Name: "glibc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bash", "readline", "vim"}, coreGlibc.RequiredBy)
	coreBash, err := db.Lookup(domain.PackageID{Repo: "core", Name: "bash"})
	require.NoError(t, err)
	assert.Equal(t, []string{"vim"}, coreBash.RequiredBy)
}

func TestLoad_PacmanConfOrder(t *testing.T) {
	root := writeFixtureDB(t)
	conf := filepath.Join(t.TempDir(), "pacman.conf")
	require.NoError(t, os.WriteFile(conf, []byte(`
[options]
HoldPkg = pacman glibc
#[testing]
[extra]
Include = /etc/pacman.d/mirrorlist

[core]   # trailing comment
Include = /etc/pacman.d/mirrorlist
[multilib]
`), 0o644))

	db, err := Load(Options{DBPath: root, PacmanConf: conf, Logger: quietLogger()})
	require.NoError(t, err)

	// multilib has no database on disk and is skipped
	repos := db.Repos()
	require.Len(t, repos, 2)
	assert.Equal(t, "extra", repos[0].Name)
	assert.Equal(t, "core", repos[1].Name)
}

func TestLoad_MissingLocalIsFatal(t *testing.T) {
	_, err := Load(Options{DBPath: t.TempDir(), Logger: quietLogger()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatabaseUnavailable)
}

func TestLookup_NotFound(t *testing.T) {
	db := New(nil, nil)
	_, err := db.Lookup(domain.PackageID{Repo: "core", Name: "nope"})
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestResolutionList_OriginFirst(t *testing.T) {
	a := &domain.Package{Name: "a"}
	b := &domain.Package{Name: "b"}
	c := &domain.Package{Name: "c"}
	db := New([]*domain.Package{{Name: "l"}}, []Repo{
		{Name: "core", Packages: []*domain.Package{a}},
		{Name: "extra", Packages: []*domain.Package{b}},
		{Name: "multilib", Packages: []*domain.Package{c}},
	})

	assert.Equal(t, []string{"b", "a", "c"}, names(db.ResolutionList(domain.PackageID{Repo: "extra", Name: "b"})))
	assert.Equal(t, []string{"l"}, names(db.ResolutionList(domain.LocalID("l"))))
}

func TestResolve_ThroughProvision(t *testing.T) {
	provider := &domain.Package{Name: "foo-libs", Version: "1.0-1", Provides: []domain.Depend{ParseDepend("libfoo.so=1-64")}}
	list := []*domain.Package{{Name: "other", Version: "1"}, provider}

	got, ok := Resolve(list, ParseDepend("libfoo.so"))
	require.True(t, ok)
	assert.Same(t, provider, got)

	_, ok = Resolve(list, ParseDepend("libbar.so"))
	assert.False(t, ok)
}

func TestResolve_PrefersName(t *testing.T) {
	provider := &domain.Package{Name: "busybox", Version: "1", Provides: []domain.Depend{{Name: "sh"}}}
	real := &domain.Package{Name: "sh", Version: "1"}

	got, ok := Resolve([]*domain.Package{provider, real}, ParseDepend("sh"))
	require.True(t, ok)
	assert.Same(t, real, got)
}

func TestSuggest(t *testing.T) {
	list := []*domain.Package{{Name: "firefox"}, {Name: "firejail"}, {Name: "vim"}, {Name: "firefox-i18n-de"}}

	assert.Equal(t, []string{"firefox", "firejail"}, Suggest(list, "firefx", 3))
	assert.Equal(t, []string{"firefox"}, Suggest(list, "firefx", 1))
	assert.Empty(t, Suggest(list, "zzzzzz", 3))
}

func TestParseRepos(t *testing.T) {
	repos, err := ParseRepos(strings.NewReader("[options]\n[core]\n[extra]\n[core]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "extra"}, repos)
}

func TestWatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "local"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed, err := Watch(ctx, root, quietLogger())
	require.NoError(t, err)

	require.NoError(t, os.Mkdir(filepath.Join(root, "local", "foo-1-1"), 0o755))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changed:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func names(list []*domain.Package) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Name
	}
	return out
}
