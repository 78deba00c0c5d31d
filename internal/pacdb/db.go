// Package pacdb loads a pacman package database (local and sync repositories)
// into read-only package records. The database is read once; every list it
// hands out is owned by the DB and never mutated after Load returns.
package pacdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/h0rv/pacfront/internal/domain"
	"github.com/sirupsen/logrus"
)

var (
	// ErrDatabaseUnavailable indicates the local database could not be read.
	ErrDatabaseUnavailable = errors.New("package database unavailable")
	// ErrPackageNotFound indicates no package exists for the requested id.
	ErrPackageNotFound = errors.New("package not found")
)

// Default locations used by pacman.
const (
	DefaultDBPath     = "/var/lib/pacman"
	DefaultPacmanConf = "/etc/pacman.conf"
)

// Options configures Load.
type Options struct {
	DBPath     string             // Database root (contains local/ and sync/)
	PacmanConf string             // pacman.conf used to order sync repositories, optional
	Logger     logrus.FieldLogger // Defaults to the logrus standard logger
}

// Repo is a named sync repository and its packages sorted by name.
type Repo struct {
	Name     string
	Packages []*domain.Package
}

// DB owns every package record loaded at startup.
type DB struct {
	local       []*domain.Package
	localByName map[string]*domain.Package

	repos  []Repo
	sync   []*domain.Package                      // all sync packages in repo order
	byRepo map[string]map[string]*domain.Package // repo -> name -> package
}

// New builds a DB from already parsed packages and computes reverse
// dependencies. Package Repo fields are set from their list.
func New(local []*domain.Package, repos []Repo) *DB {
	db := &DB{
		local:       local,
		localByName: make(map[string]*domain.Package, len(local)),
		repos:       repos,
		byRepo:      make(map[string]map[string]*domain.Package, len(repos)),
	}

	for _, p := range local {
		p.Repo = domain.LocalRepo
		db.localByName[p.Name] = p
	}
	computeReverseDeps(local)

	for _, r := range repos {
		names := make(map[string]*domain.Package, len(r.Packages))
		for _, p := range r.Packages {
			p.Repo = r.Name
			names[p.Name] = p
		}
		db.byRepo[r.Name] = names
		db.sync = append(db.sync, r.Packages...)
	}
	// required-by for sync packages spans all sync repositories
	computeReverseDeps(db.sync)

	return db
}

// Load reads the local database and the configured sync repositories.
// A missing or unreadable local database is fatal; a broken sync
// repository is logged and skipped.
func Load(opts Options) (*DB, error) {
	if opts.DBPath == "" {
		opts.DBPath = DefaultDBPath
	}
	l := &loader{opts: opts, log: opts.Logger}
	if l.log == nil {
		l.log = logrus.StandardLogger()
	}

	local, err := l.loadLocal()
	if err != nil {
		return nil, err
	}
	l.log.WithField("count", len(local)).Info("loaded local database")

	var repos []Repo
	for _, name := range l.syncRepos() {
		pkgs, err := l.loadSync(name)
		if err != nil {
			l.log.WithError(err).WithField("repo", name).Warn("skipping sync database")
			continue
		}
		l.log.WithFields(logrus.Fields{"repo": name, "count": len(pkgs)}).Info("loaded sync database")
		repos = append(repos, Repo{Name: name, Packages: pkgs})
	}

	return New(local, repos), nil
}

type loader struct {
	opts Options
	log  logrus.FieldLogger
}

// loadLocal reads <dbpath>/local/<name>-<ver>-<rel>/{desc,files}.
func (l *loader) loadLocal() ([]*domain.Package, error) {
	dir := filepath.Join(l.opts.DBPath, "local")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}

	packages := make([]*domain.Package, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue // ALPM_DB_VERSION
		}

		pkg := &domain.Package{Repo: domain.LocalRepo}
		pkgDir := filepath.Join(dir, e.Name())
		if err := parseRecord(filepath.Join(pkgDir, "desc"), pkg); err != nil {
			l.log.WithError(err).WithField("path", pkgDir).Warn("skipping unreadable local package")
			continue
		}
		if pkg.Name == "" {
			l.log.WithField("path", pkgDir).Warn("skipping local package without a name")
			continue
		}
		if err := parseRecord(filepath.Join(pkgDir, "files"), pkg); err != nil && !errors.Is(err, os.ErrNotExist) {
			l.log.WithError(err).WithField("package", pkg.Name).Warn("reading file manifest")
		}
		packages = append(packages, pkg)
	}

	sortByName(packages)
	return packages, nil
}

// loadSync prefers repo.files, which carries file manifests, over repo.db.
func (l *loader) loadSync(repo string) ([]*domain.Package, error) {
	syncDir := filepath.Join(l.opts.DBPath, "sync")

	var lastErr error
	for _, name := range []string{repo + ".files", repo + ".db"} {
		f, err := os.Open(filepath.Join(syncDir, name))
		if err != nil {
			lastErr = err
			continue
		}
		pkgs, err := ParseSyncArchive(f, repo)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return pkgs, nil
	}
	return nil, lastErr
}

func parseRecord(path string, pkg *domain.Package) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return parseDesc(f, pkg)
}

// computeReverseDeps fills RequiredBy and OptionalFor. P is required by Q
// when some dependency of Q is satisfied by P through its name or a provision.
func computeReverseDeps(list []*domain.Package) {
	// candidates by name and by provided capability
	index := make(map[string][]*domain.Package)
	for _, p := range list {
		index[p.Name] = append(index[p.Name], p)
		for _, prov := range p.Provides {
			if prov.Name != p.Name {
				index[prov.Name] = append(index[prov.Name], p)
			}
		}
	}

	requiredBy := make(map[*domain.Package]map[string]bool)
	optionalFor := make(map[*domain.Package]map[string]bool)
	link := func(deps []domain.Depend, q *domain.Package, into map[*domain.Package]map[string]bool) {
		for _, d := range deps {
			for _, p := range index[d.Name] {
				if !Satisfies(p, d) {
					continue
				}
				if into[p] == nil {
					into[p] = make(map[string]bool)
				}
				into[p][q.Name] = true
			}
		}
	}

	for _, q := range list {
		link(q.Depends, q, requiredBy)
		link(q.OptDepends, q, optionalFor)
	}

	for _, p := range list {
		p.RequiredBy = sortedKeys(requiredBy[p])
		p.OptionalFor = sortedKeys(optionalFor[p])
	}
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Local returns the installed packages sorted by name.
func (db *DB) Local() []*domain.Package {
	return db.local
}

// Repos returns the sync repositories in configured order.
func (db *DB) Repos() []Repo {
	return db.repos
}

// SyncPackages returns every sync package, repository by repository.
func (db *DB) SyncPackages() []*domain.Package {
	return db.sync
}

// Lookup returns the package identified by id.
func (db *DB) Lookup(id domain.PackageID) (*domain.Package, error) {
	var pkg *domain.Package
	if id.IsRemote() {
		pkg = db.byRepo[id.Repo][id.Name]
	} else {
		pkg = db.localByName[id.Name]
	}
	if pkg == nil {
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, id)
	}
	return pkg, nil
}

// IsInstalled reports whether a package with this name is installed.
func (db *DB) IsInstalled(name string) bool {
	_, ok := db.localByName[name]
	return ok
}

// ResolutionList returns the packages dependency names of id are resolved
// against: the local list for installed packages, otherwise the originating
// repository followed by the remaining sync repositories.
func (db *DB) ResolutionList(id domain.PackageID) []*domain.Package {
	if !id.IsRemote() {
		return db.local
	}

	list := make([]*domain.Package, 0, len(db.sync))
	for _, r := range db.repos {
		if r.Name == id.Repo {
			list = append(list, r.Packages...)
		}
	}
	for _, r := range db.repos {
		if r.Name != id.Repo {
			list = append(list, r.Packages...)
		}
	}
	return list
}
