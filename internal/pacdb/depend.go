package pacdb

import (
	"strings"

	"github.com/h0rv/pacfront/internal/domain"
)

// ParseDepend parses a pacman dependency string such as "glibc>=2.35",
// "sh", "libfoo.so=1-64" or the optional form "python-pip: for pip support".
func ParseDepend(s string) domain.Depend {
	var dep domain.Depend

	if i := strings.Index(s, ": "); i >= 0 {
		dep.Description = strings.TrimSpace(s[i+2:])
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	i := strings.IndexAny(s, "<>=")
	if i < 0 {
		dep.Name = s
		return dep
	}

	dep.Name = s[:i]
	op := s[i:]
	switch {
	case strings.HasPrefix(op, ">="):
		dep.Mod, dep.Version = domain.DepModGE, op[2:]
	case strings.HasPrefix(op, "<="):
		dep.Mod, dep.Version = domain.DepModLE, op[2:]
	case strings.HasPrefix(op, "="):
		dep.Mod, dep.Version = domain.DepModEQ, op[1:]
	case strings.HasPrefix(op, ">"):
		dep.Mod, dep.Version = domain.DepModGT, op[1:]
	case strings.HasPrefix(op, "<"):
		dep.Mod, dep.Version = domain.DepModLT, op[1:]
	}
	return dep
}

func parseDepends(lines []string) []domain.Depend {
	if len(lines) == 0 {
		return nil
	}
	deps := make([]domain.Depend, 0, len(lines))
	for _, l := range lines {
		deps = append(deps, ParseDepend(l))
	}
	return deps
}

// VersionSatisfies reports whether version meets the constraint mod/want.
func VersionSatisfies(version string, mod domain.DepMod, want string) bool {
	if mod == domain.DepModAny {
		return true
	}

	cmp := VerCmp(version, want)
	switch mod {
	case domain.DepModEQ:
		return cmp == 0
	case domain.DepModGE:
		return cmp >= 0
	case domain.DepModLE:
		return cmp <= 0
	case domain.DepModGT:
		return cmp > 0
	case domain.DepModLT:
		return cmp < 0
	}
	return false
}

// SatisfiedByName reports whether pkg satisfies dep through its own name.
func SatisfiedByName(pkg *domain.Package, dep domain.Depend) bool {
	return pkg.Name == dep.Name && VersionSatisfies(pkg.Version, dep.Mod, dep.Version)
}

// SatisfiedByProvision reports whether one of pkg's provisions satisfies dep.
// An unversioned provision never satisfies a versioned dependency.
func SatisfiedByProvision(pkg *domain.Package, dep domain.Depend) bool {
	for _, prov := range pkg.Provides {
		if prov.Name != dep.Name {
			continue
		}
		if dep.Mod == domain.DepModAny {
			return true
		}
		if prov.Mod != domain.DepModEQ {
			continue
		}
		if VersionSatisfies(prov.Version, dep.Mod, dep.Version) {
			return true
		}
	}
	return false
}

// Satisfies reports whether pkg satisfies dep by name or by provision.
func Satisfies(pkg *domain.Package, dep domain.Depend) bool {
	return SatisfiedByName(pkg, dep) || SatisfiedByProvision(pkg, dep)
}
