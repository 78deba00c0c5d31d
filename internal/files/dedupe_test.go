package files

import (
	"testing"

	"github.com/h0rv/pacfront/internal/domain"
	"github.com/stretchr/testify/assert"
)

func manifest(paths ...string) []domain.File {
	out := make([]domain.File, len(paths))
	for i, p := range paths {
		out[i] = domain.File{Path: p}
	}
	return out
}

func paths(fs []domain.File) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Path)
	}
	return out
}

func TestDedupe_ElidesExactParents(t *testing.T) {
	in := manifest("/usr", "/usr/bin", "/usr/bin/cat", "/usr/lib")

	got := paths(Collect(Dedupe(in)))

	assert.Equal(t, []string{"/usr/bin/cat", "/usr/lib"}, got)
}

func TestDedupe_SiblingsUnchanged(t *testing.T) {
	in := manifest("/etc/a.conf", "/etc/b.conf")

	got := paths(Collect(Dedupe(in)))

	assert.Equal(t, []string{"/etc/a.conf", "/etc/b.conf"}, got)
}

func TestDedupe_PrefixIsNotParent(t *testing.T) {
	in := manifest("/usr/bin", "/usr/bin2/x")

	got := paths(Collect(Dedupe(in)))

	assert.Equal(t, []string{"/usr/bin", "/usr/bin2/x"}, got)
}

func TestDedupe_EmptyAndSingle(t *testing.T) {
	assert.Empty(t, Collect(Dedupe(nil)))
	assert.Equal(t, []string{"/a"}, paths(Collect(Dedupe(manifest("/a")))))
}

func TestDedupe_LastAlwaysKept(t *testing.T) {
	// a trailing directory has no successor to be subsumed by
	in := manifest("/usr/share/doc/foo/README", "/usr/share/licenses")

	got := paths(Collect(Dedupe(in)))

	assert.Equal(t, []string{"/usr/share/doc/foo/README", "/usr/share/licenses"}, got)
}

func TestDedupe_DoesNotMutateInput(t *testing.T) {
	in := manifest("/usr", "/usr/bin", "/usr/bin/cat")
	before := append([]domain.File(nil), in...)

	_ = Collect(Dedupe(in))
	_ = Collect(Dedupe(in))

	assert.Equal(t, before, in)
}

func TestDedupe_NoAdjacentParentPairs(t *testing.T) {
	in := manifest(
		"/etc", "/etc/foo", "/etc/foo/foo.conf",
		"/usr", "/usr/bin", "/usr/bin/foo", "/usr/bin/foo-helper",
		"/usr/lib", "/usr/lib/foo", "/usr/lib/foo/plugins", "/usr/lib/foo/plugins/a.so",
		"/usr/share", "/usr/share/man", "/usr/share/man/man1", "/usr/share/man/man1/foo.1.gz",
	)

	got := Collect(Dedupe(in))

	for i := 0; i+1 < len(got); i++ {
		assert.False(t, isParent(got[i].Path, got[i+1].Path), "%s is parent of %s", got[i].Path, got[i+1].Path)
	}
	// order preserved
	idx := 0
	for _, f := range got {
		for idx < len(in) && in[idx].Path != f.Path {
			idx++
		}
		assert.Less(t, idx, len(in), "%s out of order", f.Path)
	}
}

func TestDedupe_StopsEarly(t *testing.T) {
	in := manifest("/a", "/b", "/c")

	var seen []string
	for f := range Dedupe(in) {
		seen = append(seen, f.Path)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"/a", "/b"}, seen)
}

func TestFilter(t *testing.T) {
	in := manifest("/usr/bin/cat", "/usr/lib/libfoo.so", "/usr/share/man/man1/cat.1.gz")

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"empty keeps all", "", []string{"/usr/bin/cat", "/usr/lib/libfoo.so", "/usr/share/man/man1/cat.1.gz"}},
		{"substring", "CAT", []string{"/usr/bin/cat", "/usr/share/man/man1/cat.1.gz"}},
		{"glob", "/usr/lib/*.so", []string{"/usr/lib/libfoo.so"}},
		{"glob does not cross directories", "/usr/*", nil},
		{"super glob", "/usr/**.gz", []string{"/usr/share/man/man1/cat.1.gz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collect(Filter(Dedupe(in), tt.pattern))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, paths(got))
		})
	}
}
