// Package domain defines the normalized package database types.
// These types represent installed and sync packages independent of the on-disk
// database layout they were read from.
package domain

import "strings"

// LocalRepo is the repository name used for installed packages.
const LocalRepo = "local"

// PackageID identifies a package within the local list or a sync repository.
type PackageID struct {
	Repo string // "local" for installed packages, otherwise the sync repository name
	Name string // Package name
}

// LocalID returns the id of an installed package.
func LocalID(name string) PackageID {
	return PackageID{Repo: LocalRepo, Name: name}
}

// IsRemote reports whether the id refers to a sync repository package.
func (id PackageID) IsRemote() bool {
	return id.Repo != LocalRepo
}

func (id PackageID) String() string {
	return id.Repo + "/" + id.Name
}

// DepMod is the comparison operator of a versioned dependency.
type DepMod int

const (
	DepModAny DepMod = iota // no version constraint
	DepModEQ                // =
	DepModGE                // >=
	DepModLE                // <=
	DepModGT                // >
	DepModLT                // <
)

func (m DepMod) String() string {
	switch m {
	case DepModEQ:
		return "="
	case DepModGE:
		return ">="
	case DepModLE:
		return "<="
	case DepModGT:
		return ">"
	case DepModLT:
		return "<"
	}
	return ""
}

// Depend is a dependency, optional dependency, provision, conflict or replacement.
type Depend struct {
	Name        string // Dependency or capability name (e.g., "libfoo.so")
	Mod         DepMod // Version comparison, DepModAny when unversioned
	Version     string // Version operand, empty when Mod is DepModAny
	Description string // Only set for optional dependencies ("name: desc")
}

// String renders the dependency the way pacman writes it, without description.
func (d Depend) String() string {
	if d.Mod == DepModAny {
		return d.Name
	}
	return d.Name + d.Mod.String() + d.Version
}

// File is a single entry of a package file manifest.
type File struct {
	Path  string // Absolute path without trailing slash (e.g., "/usr/bin")
	IsDir bool   // Directory entries are stored with a trailing slash in the database
}

// NewFile converts a database manifest entry ("usr/bin/") into a File.
func NewFile(name string) File {
	isDir := strings.HasSuffix(name, "/")
	p := "/" + strings.Trim(name, "/")
	return File{Path: p, IsDir: isDir}
}

// InstallReason records why a local package was installed.
type InstallReason int

const (
	ReasonExplicit InstallReason = iota
	ReasonDepend
)

func (r InstallReason) String() string {
	if r == ReasonDepend {
		return "Installed as a dependency"
	}
	return "Explicitly installed"
}

// Package is a read-only package record produced at database load time.
type Package struct {
	Repo          string        // Owning repository, LocalRepo for installed packages
	Name          string        // Package name
	Version       string        // Full version (epoch:pkgver-pkgrel)
	Base          string        // pkgbase
	Description   string        // Empty when the database has none
	URL           string        // Upstream URL, may be empty
	Arch          string        // Architecture (e.g., "x86_64")
	Packager      string        // Packager identity
	Licenses      []string      // License identifiers
	Groups        []string      // Package groups
	InstalledSize int64         // Bytes on disk once installed
	DownloadSize  int64         // Compressed package size, sync packages only
	BuildDate     int64         // Unix seconds
	InstallDate   int64         // Unix seconds, local packages only
	Reason        InstallReason // Local packages only
	Depends       []Depend
	OptDepends    []Depend
	Provides      []Depend
	Conflicts     []Depend
	Replaces      []Depend
	RequiredBy    []string // Names of packages in the same list depending on this one
	OptionalFor   []string // Names of packages optionally depending on this one
	Files         []File   // File manifest in database order
}

// ID returns the package's identifier.
func (p *Package) ID() PackageID {
	return PackageID{Repo: p.Repo, Name: p.Name}
}
