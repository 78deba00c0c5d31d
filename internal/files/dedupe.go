// Package files provides transforms over package file manifests.
package files

import (
	"iter"
	"path"
	"strings"

	"github.com/gobwas/glob"
	"github.com/h0rv/pacfront/internal/domain"
)

// Dedupe yields the manifest without entries that are the exact parent
// directory of the entry immediately following them. "/usr/bin" is dropped
// when followed by "/usr/bin/cat" but kept when followed by "/usr/bin2/x".
// The last entry is always kept. The manifest is expected in database order
// (ascending) and is not modified.
func Dedupe(manifest []domain.File) iter.Seq[domain.File] {
	return func(yield func(domain.File) bool) {
		for i, f := range manifest {
			if i+1 < len(manifest) && isParent(f.Path, manifest[i+1].Path) {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

// isParent reports whether dir is the immediate parent of p.
func isParent(dir, p string) bool {
	return path.Dir(p) == dir
}

// Filter yields the entries of seq whose path matches pattern.
// Patterns containing glob metacharacters are matched as a glob against the
// full path, anything else is a case-insensitive substring match.
// An empty pattern keeps everything.
func Filter(seq iter.Seq[domain.File], pattern string) iter.Seq[domain.File] {
	match := Matcher(pattern)
	return func(yield func(domain.File) bool) {
		for f := range seq {
			if !match(f.Path) {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

// Matcher compiles pattern into a path predicate. See Filter.
func Matcher(pattern string) func(string) bool {
	if pattern == "" {
		return func(string) bool { return true }
	}

	lower := strings.ToLower(pattern)
	if strings.ContainsAny(pattern, "*?[{") {
		// '/' is a separator so "*" stays within one path component
		if g, err := glob.Compile(lower, '/'); err == nil {
			return func(p string) bool {
				return g.Match(strings.ToLower(p))
			}
		}
	}

	return func(p string) bool {
		return strings.Contains(strings.ToLower(p), lower)
	}
}

// Collect drains seq into a slice.
func Collect(seq iter.Seq[domain.File]) []domain.File {
	var out []domain.File
	for f := range seq {
		out = append(out, f)
	}
	return out
}
